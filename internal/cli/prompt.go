package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flykit-labs/flykit/internal/extension"
)

// terminalPrompter asks for consent on the command's input and output.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command, assumeYes bool) extension.Prompter {
	if assumeYes {
		return extension.AssumeYes{}
	}
	return &terminalPrompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.ErrOrStderr(),
	}
}

func (p *terminalPrompter) ConfirmInstall(_ context.Context, offer extension.Offer) (bool, error) {
	fmt.Fprintf(p.out, "Add %q (id %s, version %s)?\n", offer.Name, offer.ID, offer.Version)
	if offer.Author != "" {
		fmt.Fprintf(p.out, "Author: %s\n", offer.Author)
	}
	if offer.IconPath != "" {
		fmt.Fprintf(p.out, "Icon: %s\n", offer.IconPath)
	}
	fmt.Fprintln(p.out, "It can:")
	for _, perm := range offer.Permissions {
		fmt.Fprintf(p.out, "  - %s\n", perm)
	}
	return p.ask("Install extension? [y/N] ")
}

func (p *terminalPrompter) ConfirmRemoval(_ context.Context, ext extension.Extension) (bool, error) {
	return p.ask(fmt.Sprintf("Remove %q (id %s, version %s)? [y/N] ", ext.Name, ext.ID, ext.Version))
}

// ask reads one answer. End of input counts as no.
func (p *terminalPrompter) ask(question string) (bool, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
