package main

import (
	"os"

	"github.com/transcribeflow/tflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
