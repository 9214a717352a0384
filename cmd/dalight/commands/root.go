package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/dalight/dalight/config"
	"github.com/dalight/dalight/libs/log"
)

var (
	config = cfg.DefaultConfig()
	logger = log.NewNopLogger()

	home string
)

// RootCmd is the root command for the light client.
var RootCmd = &cobra.Command{
	Use:   "dalight",
	Short: "Data-availability light client",
}

func init() {
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		var err error
		if config, err = parseConfig(); err != nil {
			return err
		}

		if logger, err = log.NewDefaultLogger(config.LogFormat, config.LogLevel); err != nil {
			return err
		}
		logger = logger.With("module", "main")

		return nil
	}

	defaultHome := os.ExpandEnv(filepath.Join("$HOME", ".dalight"))
	RootCmd.PersistentFlags().StringVar(&home, "home", defaultHome,
		"directory for config and data")
	RootCmd.PersistentFlags().String("log-level", config.LogLevel, "log level")
	RootCmd.PersistentFlags().String("log-format", config.LogFormat, "log format (plain or json)")
}

// parseConfig retrieves the configuration from the config file, env
// variables (prefix DALIGHT_) and flags, in increasing priority, and
// validates it. A missing config file is not an error: defaults apply.
func parseConfig() (*cfg.Config, error) {
	conf := cfg.DefaultConfig()

	v := viper.New()
	v.SetConfigFile(cfg.DefaultConfigFilePath(home))
	v.SetEnvPrefix("DALIGHT")
	v.AutomaticEnv()

	if err := v.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}
