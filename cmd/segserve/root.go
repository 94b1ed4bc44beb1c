package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	download "github.com/tilevision/segserve/cmd/segserve/download"
	preprocess "github.com/tilevision/segserve/cmd/segserve/preprocess"
	run "github.com/tilevision/segserve/cmd/segserve/run"
	"github.com/tilevision/segserve/internal/config"
)

const envPrefix = "SEGSERVE"

var Cmd = &cobra.Command{
	Use:   "segserve",
	Short: "Semantic segmentation demo server",
	Long:  "Serves interactive demos of semantic segmentation models: raw aerial tiles, their ground-truth building footprints, and model predictions side by side",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`,
			`.`, `_`,
		))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		return config.LoadEnvAndConfigFiles()
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(run.Cmd)
	Cmd.AddCommand(preprocess.Cmd)
	Cmd.AddCommand(download.Cmd)
}
