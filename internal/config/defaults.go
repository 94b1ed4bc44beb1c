package config

import "errors"

const (
	DefaultPort             = 7897
	DefaultImageSize        = 384
	DefaultInferenceTimeout = 30
)

var (
	ErrConfigNotLoaded = errors.New("config is not loaded")
)
