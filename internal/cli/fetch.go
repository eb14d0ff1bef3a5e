package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flykit-labs/flykit/internal/installer"
	"github.com/flykit-labs/flykit/internal/userdata"
)

var (
	fetchDir    string
	fetchURL    string
	fetchSHA256 string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "Directory to save the executable in (default: install root)")
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "Download URL (default: download_url setting)")
	fetchCmd.Flags().StringVar(&fetchSHA256, "sha256", "", "Expected SHA-256 of the download")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the browser executable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fetchURL
		if url == "" {
			url = settings.DownloadURL
		}
		dir := fetchDir
		if dir == "" {
			root, err := userdata.GetInstallRoot()
			if err != nil {
				return err
			}
			dir = root
		}
		dest := filepath.Join(dir, installer.ExecutableName(url))

		d := installer.New(
			installer.WithLogger(logger),
			installer.WithChecksum(fetchSHA256),
		)

		fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %s...\n", url)
		reported := false
		path, err := installer.Wait(d.Download(cmd.Context(), url, dest), func(p installer.Progress) {
			reported = true
			if p.Percent >= 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rDownloading... %d%%", p.Percent)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rDownloading... %d bytes", p.Downloaded)
			}
		})
		if reported {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if err != nil {
			return fmt.Errorf("fetching browser: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}
