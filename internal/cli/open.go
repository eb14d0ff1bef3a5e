package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/extension"
	"github.com/flykit-labs/flykit/internal/surface"
	"github.com/flykit-labs/flykit/internal/userdata"
)

var (
	openHeadless      bool
	openYes           bool
	openInstallDriver bool
)

func init() {
	openCmd.Flags().BoolVar(&openHeadless, "headless", false, "Run the browser without a window")
	openCmd.Flags().BoolVarP(&openYes, "yes", "y", false, "Install downloaded packages without asking")
	openCmd.Flags().BoolVar(&openInstallDriver, "install-driver", false, "Download the browser driver before starting")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open [url]",
	Short: "Open a browser window with extensions injected",
	Long: `Open a browser window. Every installed extension's content script runs on
each page once the document is ready. Downloaded .ebx packages are offered
for installation and take effect in new pages right away. Removed extensions
stay active until the browser is restarted.

With no url the configured homepage is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := userdata.EnsureLayout(); err != nil {
		return err
	}
	if err := settings.EnsureFile(); err != nil {
		return err
	}
	mgr, err := newManager(cmd, openYes)
	if err != nil {
		return err
	}
	cacheDir, err := userdata.GetCacheDir()
	if err != nil {
		return fmt.Errorf("resolving cache directory: %w", err)
	}

	session, err := surface.Start(surface.Options{
		Headless:      openHeadless,
		Homepage:      settings.Homepage,
		DownloadDir:   cacheDir,
		InstallDriver: openInstallDriver,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("closing browser", zap.Error(err))
		}
	}()

	injector := extension.NewInjector(mgr.Registry(), session, logger)
	refreshScripts(cmd, injector)

	changes, err := mgr.Registry().Watch(ctx)
	if err != nil {
		logger.Warn("watching extensions", zap.Error(err))
	}

	url := ""
	if len(args) > 0 {
		url = args[0]
	}
	if err := session.NewTab(url); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-session.Done():
			return nil
		case pkg := <-session.Packages():
			installDownloaded(ctx, cmd, mgr, injector, pkg)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			refreshScripts(cmd, injector)
		}
	}
}

// installDownloaded runs the install flow for a package saved by the
// browser. Failures are reported and the session continues.
func installDownloaded(ctx context.Context, cmd *cobra.Command, mgr *extension.Manager, injector *extension.Injector, pkg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded extension package %s\n", pkg)
	res, err := mgr.Install(ctx, pkg)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
		return
	}
	printInstallResult(cmd, res)
	if res.State == extension.StateCommitted {
		refreshScripts(cmd, injector)
	}
}

func refreshScripts(cmd *cobra.Command, injector *extension.Injector) {
	stale, err := injector.Refresh()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	for _, id := range stale {
		logger.Debug("stale script registration", zap.String("id", id))
	}
}
