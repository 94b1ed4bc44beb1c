package filestorage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tilevision/segserve/internal/config"
)

type LocalFileStorage struct {
	resultsDir string
	host       string
	port       int
}

func NewLocalFileStorage(cfg *config.Config) (*LocalFileStorage, error) {
	if cfg.ResultsDir == "" {
		return nil, fmt.Errorf("results dir is not set")
	}

	return &LocalFileStorage{
		resultsDir: cfg.ResultsDir,
		host:       cfg.Host,
		port:       cfg.Port,
	}, nil
}

func (s *LocalFileStorage) Upload(file FileInfo) (string, error) {
	filedest := filepath.Join(s.resultsDir, fmt.Sprintf("%s%s", file.Name, file.Extension))

	if err := os.MkdirAll(filepath.Dir(filedest), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filedest, file.Content, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("/file/%s%s", file.Name, file.Extension), nil
}

func (s *LocalFileStorage) GetFile(filename string) (*FileInfo, error) {
	content, err := os.ReadFile(filepath.Join(s.resultsDir, filepath.Base(filename)))
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Name:      filename,
		Extension: filepath.Ext(filename),
		Content:   content,
	}, nil
}

func (s *LocalFileStorage) ResolveFile(filename string) (string, error) {
	resolved := filepath.Join(s.resultsDir, filepath.Base(filename))
	if _, err := os.Stat(resolved); err != nil {
		return "", err
	}

	return resolved, nil
}
