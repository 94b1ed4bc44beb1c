package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tilevision/segserve/internal/config"
	"github.com/tilevision/segserve/internal/dataset"
	"github.com/tilevision/segserve/pkg/logger"
)

var Cmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Tile raw images into fixed-size demo samples",
	RunE:  runPreprocess,
}

func init() {
	flags := Cmd.Flags()

	flags.String("dataset", "tanzania", "Dataset the tiles belong to")
	flags.String("input", "", "Directory of raw source images (png, jpeg or tiff)")
	flags.String("output", "", "Output directory (defaults to <data-dir>/<dataset>)")
	flags.Int("tile-size", config.DefaultImageSize, "Tile height and width in pixels")
	flags.Bool("flips", false, "Also write mirrored variants of each tile")

	Cmd.MarkFlagRequired("input")

	viper.BindPFlags(flags)
}

func runPreprocess(_ *cobra.Command, _ []string) error {
	cfg := config.MustGetConfig()
	log := logger.MustNewLogger(cfg.Environment)
	defer log.Sync()

	datasetName := viper.GetString("dataset")
	if _, err := dataset.Get(datasetName, cfg.ImageSize); err != nil {
		return err
	}

	input := viper.GetString("input")
	output := viper.GetString("output")
	if output == "" {
		output = filepath.Join(cfg.DataDir, datasetName)
	}

	opts := dataset.TileOptions{
		Size:  viper.GetInt("tile-size"),
		Flips: viper.GetBool("flips"),
	}

	count, err := dataset.PreprocessDir(input, output, opts)
	if err != nil {
		return fmt.Errorf("preprocessing failed: %w", err)
	}

	log.Info("preprocessing finished",
		zap.String("dataset", datasetName),
		zap.String("output", output),
		zap.Int("tiles", count),
	)
	return nil
}
