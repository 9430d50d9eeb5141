package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
)

var (
	downloadType string
	downloadLang string
	downloadDir  string
)

var downloadCmd = &cobra.Command{
	Use:   "download <filename>",
	Short: "Download a transcript report (requires login)",
	Long: `Downloads the report for an uploaded file as txt, docx or pdf, in the
configured language or the one given with --lang. You are asked to log in
first when there is no saved session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			_, err := a.Download(ctx, args[0], app.DownloadOptions{
				Type: api.DownloadType(downloadType),
				Lang: downloadLang,
				Dir:  downloadDir,
			})
			return err
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Delete an uploaded file and its transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			return quietCancel(a.Delete(ctx, args[0]))
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every uploaded file and transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			return quietCancel(a.ClearAll(ctx))
		})
	},
}

// quietCancel reports a declined confirmation without failing the command.
func quietCancel(err error) error {
	if errors.Is(err, app.ErrCancelled) {
		fmt.Println(err)
		return nil
	}
	return err
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadType, "type", "t", "txt", "report format: txt, docx or pdf")
	downloadCmd.Flags().StringVarP(&downloadLang, "lang", "l", "", "report language (default from config)")
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "output directory (default download_dir)")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}
