package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
)

var (
	viewLang   string
	viewQuery  string
	exportDir  string
	autoScroll bool
)

var viewCmd = &cobra.Command{
	Use:   "view <filename>",
	Short: "Show the transcript and summary of a finished job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			if cmd.Flags().Changed("auto-scroll") && a.Current().AutoScroll != autoScroll {
				a.Current().ToggleAutoScroll()
			}
			_, err := a.View(ctx, args[0], viewLang, viewQuery)
			return err
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <filename> <query>",
	Short: "Highlight every occurrence of a phrase in a transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			_, err := a.Search(ctx, args[0], args[1])
			return err
		})
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate <filename> <lang>",
	Short: "Show a transcript translated into another language",
	Long: `Translates the transcript and summary on the server and prints them.
The original is kept; "en" shows it again without contacting the server.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			_, err := a.View(ctx, args[0], args[1], "")
			return err
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <filename> <md|html>",
	Short: "Write a Markdown or HTML report of a transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			name := args[0]
			if viewLang != "" {
				if err := a.Load(ctx, name); err != nil {
					return err
				}
				if err := a.Translate(ctx, viewLang); err != nil {
					return err
				}
				// Export the translated view already loaded.
				name = ""
			}
			_, err := a.Export(ctx, name, app.ExportFormat(args[1]), exportDir)
			return err
		})
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewLang, "lang", "l", "", "translate before showing (e.g. es, fr)")
	viewCmd.Flags().StringVarP(&viewQuery, "search", "s", "", "highlight a phrase")
	viewCmd.Flags().BoolVar(&autoScroll, "auto-scroll", false, "print the summary first so the transcript ends the output")

	exportCmd.Flags().StringVarP(&viewLang, "lang", "l", "", "translate before exporting")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (default download_dir)")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(exportCmd)
}
