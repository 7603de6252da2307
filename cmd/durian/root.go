package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configName = ".durian"

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "durian",
		Short:         "Compile stack programs to x86-64 assembly",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			processGlobalFlags(v)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.durian.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
	flags.Bool("werror", false, "treat warnings as errors")
	bindFlags(v, flags, "config", "no-color", "log-level", "werror")

	cmd.AddCommand(
		newCompileCmd(v),
		newBuildCmd(v),
		newTokensCmd(v),
		newVersionCmd(v),
	)
	return cmd
}

// initConfig reads the config file named by --config, or $HOME/.durian.yaml
// when it exists, and enables DURIAN_* environment overrides.
func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix("DURIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, configName+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(v *viper.Viper) {
	if v.GetBool("no-color") {
		color.NoColor = true
	}
}

func newLogger(cmd *cobra.Command, v *viper.Viper) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	w := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    !useColor(v),
		TimeFormat: "15:04:05",
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
