package logger

import (
	"go.uber.org/zap"
)

var logger *zap.Logger

// NewLogger builds a zap logger for the given environment: production
// config for "prod", an example logger for "test", development otherwise.
func NewLogger(environment string) (*zap.Logger, error) {
	switch environment {
	case "prod":
		return zap.NewProduction()
	case "test":
		return zap.NewExample(), nil
	default:
		return zap.NewDevelopment()
	}
}

func MustNewLogger(environment string) *zap.Logger {
	return zap.Must(NewLogger(environment))
}

func InitLogger(environment string) (*zap.Logger, error) {
	l, err := NewLogger(environment)
	if err != nil {
		return nil, err
	}

	logger = l
	return logger, nil
}

func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return logger
}
