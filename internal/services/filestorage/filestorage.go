package filestorage

import (
	"fmt"
	"strings"

	"github.com/tilevision/segserve/internal/config"
)

// FileInfo is one result file to store, typically a predicted label image.
type FileInfo struct {
	Name      string
	Extension string
	Content   []byte
}

func NewFileInfo(name, extension string, content []byte) FileInfo {
	return FileInfo{Name: name, Extension: extension, Content: content}
}

// FileStorage persists result files and resolves them back for serving.
// Upload returns the public URL of the stored file.
type FileStorage interface {
	Upload(file FileInfo) (string, error)
	GetFile(filename string) (*FileInfo, error)
	ResolveFile(filename string) (string, error)
}

func NewFileStorage(cfg *config.Config) (FileStorage, error) {
	switch strings.ToLower(cfg.FilesystemType) {
	case config.FilesystemLocal:
		return NewLocalFileStorage(cfg)
	case config.FilesystemS3:
		return NewS3FileStorage(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type %s", cfg.FilesystemType)
}
