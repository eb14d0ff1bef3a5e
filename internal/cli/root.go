package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/branding"
	"github.com/flykit-labs/flykit/internal/config"
	"github.com/flykit-labs/flykit/internal/logging"
	"github.com/flykit-labs/flykit/internal/userdata"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string

	settings *config.Settings
	logger   = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides settings")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` manages browser extensions packaged as .ebx archives, opens
browser windows with every installed extension's content script injected, and
downloads the browser executable for first-time installs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := userdata.GetSettingsPath()
		if err != nil {
			return fmt.Errorf("resolving settings path: %w", err)
		}
		settings, err = config.Load(path)
		if err != nil {
			return err
		}

		level := settings.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		cfg := logging.DefaultConfig()
		cfg.Level = level
		l, err := logging.New(cfg)
		if err != nil {
			return fmt.Errorf("configuring logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr with a hint before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
		return err
	}
	return nil
}
