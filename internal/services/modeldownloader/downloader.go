package modeldownloader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cozy-creator/hf-hub/hub"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"
)

type SourceType string

const (
	SourceTypeHuggingFace SourceType = "huggingface"
	SourceTypeDirect      SourceType = "direct"
	SourceTypeFile        SourceType = "file"
)

// Source locates model weights: a HuggingFace repo ("hf:org/repo"), a
// direct URL, or a file already on disk.
type Source struct {
	Type     SourceType
	Location string
}

func ParseSource(raw string) (Source, error) {
	switch {
	case strings.HasPrefix(raw, "hf:"):
		return Source{Type: SourceTypeHuggingFace, Location: strings.TrimPrefix(raw, "hf:")}, nil
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Source{Type: SourceTypeDirect, Location: raw}, nil
	case raw != "":
		return Source{Type: SourceTypeFile, Location: raw}, nil
	}

	return Source{}, fmt.Errorf("unsupported model source: %q", raw)
}

// Manager downloads model weights into the models dir.
type Manager struct {
	modelsDir string
	hubClient *hub.Client
	logger    *zap.Logger
}

func NewManager(modelsDir string, logger *zap.Logger) *Manager {
	return &Manager{
		modelsDir: modelsDir,
		hubClient: hub.DefaultClient(),
		logger:    logger,
	}
}

func (m *Manager) Download(name string, source Source) error {
	switch source.Type {
	case SourceTypeHuggingFace:
		return m.downloadHuggingFace(name, source.Location)
	case SourceTypeDirect:
		return m.downloadDirect(name, source.Location)
	case SourceTypeFile:
		return m.verifyLocalFile(source.Location)
	}

	return fmt.Errorf("unsupported source type: %s", source.Type)
}

func (m *Manager) downloadHuggingFace(name, repoID string) error {
	m.logger.Info("Downloading model from HuggingFace",
		zap.String("model", name),
		zap.String("repo_id", repoID),
	)

	params := hub.DownloadParams{
		Repo:      &hub.Repo{Id: repoID, Type: hub.ModelRepoType, Revision: hub.DefaultRevision},
		SubFolder: name,
	}
	if _, err := m.hubClient.Download(&params); err != nil {
		return fmt.Errorf("failed to download model from HuggingFace: %w", err)
	}

	return nil
}

func (m *Manager) downloadDirect(name, urlStr string) error {
	m.logger.Info("Downloading model",
		zap.String("model", name),
		zap.String("url", urlStr),
	)

	destDir := filepath.Join(m.modelsDir, name)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	filename := filepath.Base(urlStr)
	if idx := strings.IndexAny(filename, "?#"); idx >= 0 {
		filename = filename[:idx]
	}
	destPath := filepath.Join(destDir, filename)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 10 * time.Minute

	return backoff.Retry(func() error {
		return m.downloadWithProgress(urlStr, destPath)
	}, b)
}

func (m *Manager) downloadWithProgress(urlStr, destPath string) error {
	resp, err := http.Get(urlStr)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(180*time.Millisecond),
	)
	bar := progress.AddBar(resp.ContentLength,
		mpb.PrependDecorators(
			decor.Name(filepath.Base(destPath), decor.WC{W: 40, C: decor.DidentRight}),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.EwmaETA(decor.ET_STYLE_GO, 90),
			decor.Name(" ] "),
			decor.EwmaSpeed(decor.UnitKiB, "% .2f", 60),
		),
	)

	if _, err := io.Copy(f, bar.ProxyReader(resp.Body)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	progress.Wait()
	return os.Rename(tmpPath, destPath)
}

func (m *Manager) verifyLocalFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("model file not found: %w", err)
	}

	return nil
}
