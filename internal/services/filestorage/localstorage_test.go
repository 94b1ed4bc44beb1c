package filestorage

import (
	"bytes"
	"testing"

	"github.com/tilevision/segserve/internal/config"
)

func newLocalStorage(t *testing.T) *LocalFileStorage {
	t.Helper()

	storage, err := NewLocalFileStorage(&config.Config{
		ResultsDir: t.TempDir(),
		Host:       "localhost",
		Port:       7897,
	})
	if err != nil {
		t.Fatal(err)
	}
	return storage
}

func TestLocalFileStorage_UploadAndGet(t *testing.T) {
	storage := newLocalStorage(t)
	content := []byte("png bytes")

	url, err := storage.Upload(FileInfo{Name: "abc123", Extension: ".png", Content: content})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if url != "/file/abc123.png" {
		t.Errorf("unexpected url %q", url)
	}

	file, err := storage.GetFile("abc123.png")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(file.Content, content) {
		t.Errorf("stored content %q, expected %q", file.Content, content)
	}

	if _, err := storage.ResolveFile("abc123.png"); err != nil {
		t.Errorf("resolve failed: %v", err)
	}
}

func TestLocalFileStorage_ResolveMissing(t *testing.T) {
	storage := newLocalStorage(t)
	if _, err := storage.ResolveFile("missing.png"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestNewLocalFileStorage_RequiresResultsDir(t *testing.T) {
	if _, err := NewLocalFileStorage(&config.Config{}); err == nil {
		t.Error("expected an error without a results dir")
	}
}

func TestNewFileStorage_InvalidType(t *testing.T) {
	if _, err := NewFileStorage(&config.Config{FilesystemType: "tape"}); err == nil {
		t.Error("expected an error for an unknown filesystem type")
	}
}
