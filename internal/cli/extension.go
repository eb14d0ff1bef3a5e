package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flykit-labs/flykit/internal/extension"
	"github.com/flykit-labs/flykit/internal/userdata"
)

var (
	extensionYes      bool
	extensionListJSON bool
)

func init() {
	extensionInstallCmd.Flags().BoolVarP(&extensionYes, "yes", "y", false, "Answer yes to every confirmation")
	extensionRemoveCmd.Flags().BoolVarP(&extensionYes, "yes", "y", false, "Answer yes to every confirmation")
	extensionListCmd.Flags().BoolVar(&extensionListJSON, "json", false, "Print extensions as JSON")

	extensionCmd.AddCommand(extensionInstallCmd)
	extensionCmd.AddCommand(extensionListCmd)
	extensionCmd.AddCommand(extensionRemoveCmd)
	rootCmd.AddCommand(extensionCmd)
}

var extensionCmd = &cobra.Command{
	Use:     "extension",
	Aliases: []string{"ext"},
	Short:   "Manage installed extensions",
}

var extensionInstallCmd = &cobra.Command{
	Use:   "install <package.ebx>",
	Short: "Install an extension package",
	Long: `Unpack an .ebx package, show what it can do and install it after
confirmation. If an extension with the same id is installed you are offered
to remove it first; run install again afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd, extensionYes)
		if err != nil {
			return err
		}
		res, err := mgr.Install(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printInstallResult(cmd, res)
		return nil
	},
}

var extensionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := userdata.GetExtensionsRoot()
		if err != nil {
			return fmt.Errorf("resolving extensions directory: %w", err)
		}
		exts := extension.NewRegistry(root, logger).List()

		if extensionListJSON {
			if exts == nil {
				exts = []extension.Extension{}
			}
			out, err := json.MarshalIndent(exts, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling extensions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if len(exts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No extensions installed.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tVERSION\tSCRIPT")
		for _, ext := range exts {
			script := "-"
			if ext.HasScript() {
				script = extension.ScriptFile
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ext.ID, ext.Name, ext.Version, script)
		}
		return w.Flush()
	},
}

var extensionRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an installed extension",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd, extensionYes)
		if err != nil {
			return err
		}
		removed, err := mgr.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Removal cancelled.")
		}
		return nil
	},
}

func newManager(cmd *cobra.Command, assumeYes bool) (*extension.Manager, error) {
	root, err := userdata.GetExtensionsRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving extensions directory: %w", err)
	}
	mgr := extension.NewManager(root,
		extension.WithPrompter(newPrompter(cmd, assumeYes)),
		extension.WithLogger(logger),
	)
	mgr.SweepRemovals()
	return mgr, nil
}

func printInstallResult(cmd *cobra.Command, res *extension.InstallResult) {
	switch res.State {
	case extension.StateCommitted:
		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (%s) version %s\n",
			res.Extension.Name, res.Extension.ID, res.Extension.Version)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Installation cancelled.")
	}
}
