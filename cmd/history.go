package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
	"github.com/transcribeflow/tflow/internal/history"
)

var (
	historyLimit    int
	historyDownload string
)

var historyCmd = &cobra.Command{
	Use:   "history [filename]",
	Short: "List uploads recorded on this machine",
	Long: `Lists past uploads, newest first. With a filename and --download, fetches
that job's report; without a session you are offered to create an account.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			if len(args) == 1 && historyDownload != "" {
				_, err := a.Download(ctx, args[0], app.DownloadOptions{
					Type:        api.DownloadType(historyDownload),
					FromHistory: true,
				})
				return err
			}

			var jobs []history.Job
			if len(args) == 1 {
				j, err := a.HistoryEntry(ctx, args[0])
				if err != nil {
					return err
				}
				jobs = append(jobs, *j)
			} else {
				var err error
				if jobs, err = a.History(ctx, historyLimit); err != nil {
					return err
				}
			}
			if len(jobs) == 0 {
				fmt.Println("No history found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILENAME\tSTATUS\tSIZE\tUPLOADED")
			for _, j := range jobs {
				status := string(j.Status)
				if j.Status == api.StatusProcessing {
					status = fmt.Sprintf("%s %d%%", status, j.Progress)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.Filename, status, humanize.Bytes(uint64(j.SizeBytes)), humanize.Time(j.CreatedAt))
			}
			return w.Flush()
		})
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().StringVar(&historyDownload, "download", "", "download the report for [filename] as txt, docx or pdf")
	rootCmd.AddCommand(historyCmd)
}
