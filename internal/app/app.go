package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/tilevision/segserve/internal/config"
	"github.com/tilevision/segserve/internal/dataset"
	"github.com/tilevision/segserve/internal/db"
	"github.com/tilevision/segserve/internal/db/models"
	"github.com/tilevision/segserve/internal/db/repository"
	"github.com/tilevision/segserve/internal/services/filestorage"
	"github.com/tilevision/segserve/internal/services/fileuploader"
	"github.com/tilevision/segserve/internal/services/predictor"
	"github.com/tilevision/segserve/pkg/logger"
	"github.com/tilevision/segserve/pkg/tcpclient"
)

// App bundles everything the handlers need: config, storage, the sample
// store and the predictor registry.
type App struct {
	config     *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc
	uploader   *fileuploader.Uploader
	storage    filestorage.FileStorage
	samples    *dataset.SampleStore
	predictors *predictor.Registry
	tcpClient  *tcpclient.Client
	db         *bun.DB

	Logger               *zap.Logger
	PredictionRepository repository.IPredictionRepository
}

// OptionFunc initializes one part of the App.
type OptionFunc func(app *App) error

func WithFileStorage() OptionFunc {
	return func(app *App) error {
		storage, err := filestorage.NewFileStorage(app.config)
		if err != nil {
			return err
		}

		app.storage = storage
		app.uploader = fileuploader.NewUploader(storage, 10)
		return nil
	}
}

func WithPredictors() OptionFunc {
	return func(app *App) error {
		registry := predictor.NewRegistry()
		inference := app.config.Inference
		if inference == nil {
			app.predictors = registry
			return nil
		}

		switch inference.Backend {
		case config.InferenceBackendONNX:
			for _, ref := range inference.Models {
				modelPath := filepath.Join(app.config.ModelsDir, ref.Path)
				metadataPath := strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".json"

				p, err := predictor.NewONNXPredictor(modelPath, metadataPath)
				if err != nil {
					return fmt.Errorf("failed to load model %s: %w", ref.Name, err)
				}
				registry.Register(ref.Name, p)
			}

		case config.InferenceBackendRemote:
			timeout := time.Duration(inference.TimeoutSeconds) * time.Second
			client, err := tcpclient.NewClient(inference.WorkerAddr, timeout, 4,
				tcpclient.WithLogger(app.Logger))
			if err != nil {
				return fmt.Errorf("failed to connect to model worker: %w", err)
			}

			app.tcpClient = client
			for _, ref := range inference.Models {
				registry.Register(ref.Name, predictor.NewRemotePredictor(client, ref.Dataset, ref.Name))
			}

		default:
			return fmt.Errorf("invalid inference backend: %s", inference.Backend)
		}

		app.predictors = registry
		return nil
	}
}

func WithDB() OptionFunc {
	return func(app *App) error {
		driver, err := db.NewConnection(app.config)
		if err != nil {
			return err
		}
		app.db = driver.GetDB()

		if _, err := app.db.NewCreateTable().
			Model((*models.Prediction)(nil)).
			IfNotExists().
			Exec(app.ctx); err != nil {
			return fmt.Errorf("failed to create predictions table: %w", err)
		}

		app.PredictionRepository = repository.NewPredictionRepository(app.db)
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	l, err := logger.InitLogger(cfg.Environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		config:     cfg,
		ctx:        ctx,
		cancelFunc: cancel,
		samples:    dataset.NewSampleStore(cfg.DataDir),
		predictors: predictor.NewRegistry(),
		Logger:     l,
	}

	for _, option := range options {
		if err := option(app); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) Uploader() *fileuploader.Uploader {
	return app.uploader
}

func (app *App) Storage() filestorage.FileStorage {
	return app.storage
}

func (app *App) Samples() *dataset.SampleStore {
	return app.samples
}

func (app *App) Predictors() *predictor.Registry {
	return app.predictors
}

func (app *App) DB() *bun.DB {
	return app.db
}

func (app *App) Close() {
	app.cancelFunc()
	app.predictors.Close()

	if app.tcpClient != nil {
		app.tcpClient.Close()
	}
	if app.uploader != nil {
		app.uploader.Stop()
	}
	if app.db != nil {
		app.db.Close()
	}

	app.Logger.Sync()
}
