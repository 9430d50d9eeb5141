package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "tflow",
	Short: "Command-line client for the TranscribeFlow transcription service",
	Long: `tflow uploads audio to a TranscribeFlow server, follows the transcription
until it finishes, and lets you search, translate and download the resulting
transcript and summary. It also manages your TranscribeFlow account.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".tflow.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "TranscribeFlow server URL (overrides server_url)")
}
