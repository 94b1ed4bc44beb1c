package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tilevision/segserve/internal/app"
	"github.com/tilevision/segserve/internal/config"
	"github.com/tilevision/segserve/internal/server"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the segmentation demo server",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", "localhost", "Host to run the server on")
	flags.String("environment", "dev", "Environment configuration")
	flags.String("data-dir", "./data", "Directory holding preprocessed dataset tiles")
	flags.String("models-dir", "./models", "Directory holding model weights")
	flags.String("results-dir", "", "Directory where prediction images are stored (defaults to <data-dir>/results)")
	flags.String("public-dir", "./web", "Directory of static page assets")
	flags.Int("image-size", config.DefaultImageSize, "Tile size the datasets are preprocessed to")
	flags.String("auth-token", "", "Bearer token guarding the JSON API; empty disables auth")
	flags.String("filesystem-type", config.FilesystemLocal, "Filesystem type: 'local' or 's3'")

	flags.String("db-driver", "", "Database driver: 'pg' or 'sqlite'")
	flags.String("db-dsn", "", "Database DSN; empty disables prediction history")

	flags.String("inference-backend", config.InferenceBackendONNX, "Inference backend: 'onnx' or 'remote'")
	flags.String("inference-worker-addr", "", "Address of the remote model worker")

	flags.String("s3-access-key", "", "S3 access key")
	flags.String("s3-secret-key", "", "S3 secret key")
	flags.String("s3-region-name", "", "S3 region name")
	flags.String("s3-bucket-name", "", "S3 bucket name")
	flags.String("s3-folder", "", "S3 folder")
	flags.String("s3-public-url", "", "Public URL for S3 files")
	flags.String("s3-endpoint-url", "", "S3 endpoint URL")

	viper.BindPFlags(flags)

	// dashed flags feeding underscore and nested config keys
	viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	viper.BindPFlag("models_dir", flags.Lookup("models-dir"))
	viper.BindPFlag("results_dir", flags.Lookup("results-dir"))
	viper.BindPFlag("public_dir", flags.Lookup("public-dir"))
	viper.BindPFlag("image_size", flags.Lookup("image-size"))
	viper.BindPFlag("auth_token", flags.Lookup("auth-token"))
	viper.BindPFlag("filesystem_type", flags.Lookup("filesystem-type"))
	viper.BindPFlag("db.driver", flags.Lookup("db-driver"))
	viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))
	viper.BindPFlag("inference.backend", flags.Lookup("inference-backend"))
	viper.BindPFlag("inference.worker_addr", flags.Lookup("inference-worker-addr"))
	viper.BindPFlag("s3.access_key", flags.Lookup("s3-access-key"))
	viper.BindPFlag("s3.secret_key", flags.Lookup("s3-secret-key"))
	viper.BindPFlag("s3.region_name", flags.Lookup("s3-region-name"))
	viper.BindPFlag("s3.bucket_name", flags.Lookup("s3-bucket-name"))
	viper.BindPFlag("s3.folder", flags.Lookup("s3-folder"))
	viper.BindPFlag("s3.public_url", flags.Lookup("s3-public-url"))
	viper.BindPFlag("s3.endpoint_url", flags.Lookup("s3-endpoint-url"))

	bindEnvs()
}

func bindEnvs() {
	viper.BindEnv("port")
	viper.BindEnv("host")
	viper.BindEnv("environment")
	viper.BindEnv("data_dir")
	viper.BindEnv("models_dir")
	viper.BindEnv("results_dir")
	viper.BindEnv("public_dir")
	viper.BindEnv("image_size")
	viper.BindEnv("auth_token")
	viper.BindEnv("filesystem_type")

	viper.BindEnv("db.driver")
	viper.BindEnv("db.dsn")

	viper.BindEnv("inference.backend")
	viper.BindEnv("inference.worker_addr")

	viper.BindEnv("s3.access_key")
	viper.BindEnv("s3.secret_key")
	viper.BindEnv("s3.region_name")
	viper.BindEnv("s3.bucket_name")
	viper.BindEnv("s3.folder")
	viper.BindEnv("s3.public_url")
	viper.BindEnv("s3.endpoint_url")
}

func runApp(_ *cobra.Command, _ []string) error {
	cfg := config.MustGetConfig()

	options := []app.OptionFunc{
		app.WithFileStorage(),
		app.WithPredictors(),
	}
	if cfg.DB != nil && cfg.DB.DSN != "" {
		options = append(options, app.WithDB())
	}

	a, err := app.NewApp(cfg, options...)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	srv.SetupRoutes(a)

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("server started",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		a.Logger.Info("stopping server")
		return srv.Stop(context.Background())
	}
}
