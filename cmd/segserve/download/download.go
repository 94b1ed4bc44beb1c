package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tilevision/segserve/internal/config"
	"github.com/tilevision/segserve/internal/services/modeldownloader"
	"github.com/tilevision/segserve/pkg/logger"
)

var Cmd = &cobra.Command{
	Use:   "download",
	Short: "Download segmentation model weights",
	RunE:  runDownload,
}

func init() {
	flags := Cmd.Flags()

	flags.String("model", "", "Model name the weights belong to")
	flags.String("source", "", "Weights source: 'hf:<org>/<repo>', a direct URL, or a local path")

	Cmd.MarkFlagRequired("model")
	Cmd.MarkFlagRequired("source")

	viper.BindPFlags(flags)
}

func runDownload(_ *cobra.Command, _ []string) error {
	cfg := config.MustGetConfig()
	log := logger.MustNewLogger(cfg.Environment)
	defer log.Sync()

	source, err := modeldownloader.ParseSource(viper.GetString("source"))
	if err != nil {
		return err
	}

	manager := modeldownloader.NewManager(cfg.ModelsDir, log)
	return manager.Download(viper.GetString("model"), source)
}
