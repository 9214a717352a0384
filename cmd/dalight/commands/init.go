package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfg "github.com/dalight/dalight/config"
)

// InitFilesCmd writes a default config file under the home directory.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the home directory with a default config file",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, args []string) error {
	path := cfg.DefaultConfigFilePath(home)
	if _, err := os.Stat(path); err == nil {
		logger.Info("found config file, skipping", "path", path)
		return nil
	}

	if err := cfg.WriteConfigFile(home, cfg.DefaultConfig()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	logger.Info("generated config file", "path", path)
	return nil
}
