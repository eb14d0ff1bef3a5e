package extension

import "context"

// Offer is what the user is shown before an install is committed.
type Offer struct {
	Name        string
	ID          string
	Version     string
	Author      string
	IconPath    string
	Permissions []string
}

// Permissions returns the permission summary shown for every extension.
// Content scripts run on all sites with full page access.
func Permissions() []string {
	return []string{
		"Read and change data on all websites",
		"Store data locally",
	}
}

// Prompter asks the user to confirm installs and removals. Returning an
// error aborts the flow; returning false declines it.
type Prompter interface {
	ConfirmInstall(ctx context.Context, offer Offer) (bool, error)
	ConfirmRemoval(ctx context.Context, ext Extension) (bool, error)
}

// AssumeYes confirms everything without asking.
type AssumeYes struct{}

func (AssumeYes) ConfirmInstall(context.Context, Offer) (bool, error)     { return true, nil }
func (AssumeYes) ConfirmRemoval(context.Context, Extension) (bool, error) { return true, nil }

// declineAll is used when no prompter was configured.
type declineAll struct{}

func (declineAll) ConfirmInstall(context.Context, Offer) (bool, error)     { return false, nil }
func (declineAll) ConfirmRemoval(context.Context, Extension) (bool, error) { return false, nil }
