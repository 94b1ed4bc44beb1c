package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
)

const (
	InferenceBackendONNX   = "onnx"
	InferenceBackendRemote = "remote"
)

const envPrefix = "SEGSERVE"

type Config struct {
	Port           int              `mapstructure:"port"`
	Host           string           `mapstructure:"host"`
	Environment    string           `mapstructure:"environment"`
	DataDir        string           `mapstructure:"data_dir"`
	ModelsDir      string           `mapstructure:"models_dir"`
	ResultsDir     string           `mapstructure:"results_dir"`
	PublicDir      string           `mapstructure:"public_dir"`
	ImageSize      int              `mapstructure:"image_size"`
	AuthToken      string           `mapstructure:"auth_token"`
	FilesystemType string           `mapstructure:"filesystem_type"`
	S3             *S3Config        `mapstructure:"s3"`
	DB             *DBConfig        `mapstructure:"db"`
	Inference      *InferenceConfig `mapstructure:"inference"`
}

type S3Config struct {
	Folder      string `mapstructure:"folder"`
	Region      string `mapstructure:"region_name"`
	Bucket      string `mapstructure:"bucket_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	PublicUrl   string `mapstructure:"public_url"`
	EndpointUrl string `mapstructure:"endpoint_url"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type InferenceConfig struct {
	Backend        string     `mapstructure:"backend"`
	WorkerAddr     string     `mapstructure:"worker_addr"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Models         []ModelRef `mapstructure:"models"`
}

// ModelRef names a trained segmentation model, the dataset it was trained
// on and, for the onnx backend, the location of its weights relative to
// the models dir.
type ModelRef struct {
	Name    string `mapstructure:"name"`
	Dataset string `mapstructure:"dataset"`
	Path    string `mapstructure:"path"`
}

var config *Config

func LoadEnvAndConfigFiles() error {
	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	viper.AutomaticEnv()

	configFile := viper.GetString("config_file")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		// a missing config file is fine, the defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("error reading config: %w", err)
		}
	}

	return LoadConfig()
}

func LoadConfig() error {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ResultsDir == "" {
		cfg.ResultsDir = filepath.Join(cfg.DataDir, "results")
	}

	config = cfg
	return nil
}

func GetConfig() (*Config, error) {
	if config == nil {
		return nil, ErrConfigNotLoaded
	}

	return config, nil
}

func MustGetConfig() *Config {
	cfg, err := GetConfig()
	if err != nil {
		panic(err)
	}

	return cfg
}

func setDefaults() {
	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("host", "localhost")
	viper.SetDefault("environment", "dev")
	viper.SetDefault("data_dir", "./data")
	viper.SetDefault("models_dir", "./models")
	viper.SetDefault("public_dir", "./web")
	viper.SetDefault("image_size", DefaultImageSize)
	viper.SetDefault("filesystem_type", FilesystemLocal)
	viper.SetDefault("inference.backend", InferenceBackendONNX)
	viper.SetDefault("inference.timeout_seconds", DefaultInferenceTimeout)
}
