package dataset

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Sample is one preprocessed tile: the raw image and its color-coded
// ground-truth label image, stored under images/ and labels/ with the
// same file name.
type Sample struct {
	Name      string
	ImagePath string
	LabelPath string
}

// SampleStore resolves preprocessed tiles on disk. The expected layout is
// <root>/<dataset>/images/*.png with matching files under labels/.
type SampleStore struct {
	root string
}

func NewSampleStore(root string) *SampleStore {
	return &SampleStore{root: root}
}

func (s *SampleStore) imagesDir(dataset string) string {
	return filepath.Join(s.root, dataset, "images")
}

// List returns the sample names available for a dataset.
func (s *SampleStore) List(dataset string) ([]string, error) {
	entries, err := os.ReadDir(s.imagesDir(dataset))
	if err != nil {
		return nil, fmt.Errorf("failed to read samples for %s: %w", dataset, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Random picks one sample uniformly at random.
func (s *SampleStore) Random(dataset string) (Sample, error) {
	names, err := s.List(dataset)
	if err != nil {
		return Sample{}, err
	}
	if len(names) == 0 {
		return Sample{}, fmt.Errorf("%w for dataset %s", ErrNoSamples, dataset)
	}

	return s.Resolve(dataset, names[rand.Intn(len(names))])
}

// Resolve builds the sample paths for a known sample name and verifies the
// image exists. The label image is optional for inference-only datasets.
func (s *SampleStore) Resolve(dataset, name string) (Sample, error) {
	// sample names come from HTTP parameters; never let them escape the
	// store or resolve to a directory
	if name != filepath.Base(name) || name == "." || name == ".." {
		return Sample{}, fmt.Errorf("invalid sample name %q", name)
	}

	sample := Sample{
		Name:      name,
		ImagePath: filepath.Join(s.imagesDir(dataset), name),
		LabelPath: filepath.Join(s.root, dataset, "labels", name),
	}

	if _, err := os.Stat(sample.ImagePath); err != nil {
		return Sample{}, fmt.Errorf("sample %s not found: %w", name, err)
	}

	return sample, nil
}
