package main

import (
	"os"

	"github.com/dalight/dalight/cmd/dalight/commands"
)

func main() {
	rootCmd := commands.RootCmd
	rootCmd.AddCommand(
		commands.InitFilesCmd,
		commands.RunCmd,
		commands.SampleCmd,
		commands.VersionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
