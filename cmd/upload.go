package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file|glob>...",
	Short: "Upload audio for transcription and wait for the result",
	Long: `Uploads one or more audio files (mp3, wav, m4a, flac, aac, ogg) and follows
each job until the transcript is ready. Glob patterns such as
"recordings/**/*.mp3" are expanded; files with other extensions are
rejected before anything is uploaded.

Anonymous uploads are limited to a free trial. When it runs out you are
asked to log in and the upload is retried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			results, err := a.UploadBatch(ctx, args)
			if len(results) > 1 {
				fmt.Println()
				for _, r := range results {
					state := "ok"
					if r.Err != nil {
						state = r.Err.Error()
					}
					fmt.Printf("  %-40s %s\n", r.Path, state)
				}
			}
			return err
		})
	},
}

var statusWait bool

var statusCmd = &cobra.Command{
	Use:   "status <filename>",
	Short: "Show the processing state of an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			if statusWait {
				_, err := a.Wait(ctx, args[0])
				return err
			}
			st, err := a.Status(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s (%d%%)", args[0], st.Status, st.Progress)
			if st.Message != "" {
				fmt.Printf(" %s", st.Message)
			}
			fmt.Println()
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWait, "wait", "w", false, "poll until the job finishes and show the transcript")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(statusCmd)
}
