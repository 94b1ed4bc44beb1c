package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrNoSamples      = errors.New("no preprocessed samples found")
)

// RGB is a display color attached to a semantic class.
type RGB struct {
	R, G, B uint8
}

// CSS renders the color as a CSS color expression, e.g. "rgb(50, 200, 50)".
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Label is one semantic class of a dataset. The ID doubles as the
// per-pixel value in label masks.
type Label struct {
	ID       int
	Name     string
	Color    RGB
	Evaluate bool
}

// Dataset describes a segmentation dataset glossary: its name, the tile
// size its images are preprocessed to, and the ordered list of labels.
type Dataset struct {
	Name      string
	ImageSize int
	labels    []Label
}

func (d *Dataset) addLabel(id int, name string, color RGB, evaluate bool) {
	d.labels = append(d.labels, Label{ID: id, Name: name, Color: color, Evaluate: evaluate})
}

// Labels returns the dataset labels ordered by ID.
func (d *Dataset) Labels() []Label {
	labels := make([]Label, len(d.labels))
	copy(labels, d.labels)
	return labels
}

func (d *Dataset) NbLabels() int {
	return len(d.labels)
}

func (d *Dataset) LabelByID(id int) (Label, bool) {
	for _, l := range d.labels {
		if l.ID == id {
			return l, true
		}
	}

	return Label{}, false
}

func (d *Dataset) LabelByColor(color RGB) (Label, bool) {
	for _, l := range d.labels {
		if l.Color == color {
			return l, true
		}
	}

	return Label{}, false
}

var builders = map[string]func(imageSize int) *Dataset{
	"tanzania": Tanzania,
}

// Get builds the named dataset glossary for the given tile size.
func Get(name string, imageSize int) (*Dataset, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}

	return builder(imageSize), nil
}

// Names lists the available datasets in stable order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
