package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/config"
	"github.com/transcribeflow/tflow/internal/prompt"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tflow configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the server URL, report language and download settings, and writes them to .tflow.yml (or the file given by --config).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring existing config: %v\n", err)
			base = config.DefaultConfig()
		}
		_, err = config.RunWizard(prompt.Terminal{}, os.Stdout, base, cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
