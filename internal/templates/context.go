package templates

import (
	"html/template"

	"github.com/tilevision/segserve/internal/dataset"
)

// LabelEntry is one legend item: a semantic class name and its display
// color. Color is typed template.CSS so the value supplied by the handler
// lands in the style attribute untouched; the handler owns its validity.
type LabelEntry struct {
	Name  string
	Color template.CSS
}

// Legend converts glossary labels to legend entries, keeping their order.
func Legend(labels []dataset.Label) []LabelEntry {
	entries := make([]LabelEntry, 0, len(labels))
	for _, l := range labels {
		entries = append(entries, LabelEntry{Name: l.Name, Color: template.CSS(l.Color.CSS())})
	}
	return entries
}

// DemoPage is the view context of a dataset demo page: the model under
// demonstration, the three image panels and their legends.
type DemoPage struct {
	Model             string
	Dataset           string
	ImageURL          string
	LabelURL          string
	PredictedURL      string
	GroundTruthLabels []LabelEntry
	PredictedLabels   []LabelEntry
}

// HomePage lists what the server can demonstrate.
type HomePage struct {
	Datasets []string
	Models   []string
}
