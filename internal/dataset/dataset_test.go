package dataset

import (
	"errors"
	"testing"
)

func TestTanzaniaGlossary(t *testing.T) {
	d := Tanzania(384)

	if d.Name != "tanzania" {
		t.Errorf("unexpected dataset name %q", d.Name)
	}
	if d.ImageSize != 384 {
		t.Errorf("unexpected image size %d", d.ImageSize)
	}
	if d.NbLabels() != 4 {
		t.Fatalf("expected 4 labels, got %d", d.NbLabels())
	}

	cases := []struct {
		id    int
		name  string
		color RGB
	}{
		{0, "background", RGB{0, 0, 0}},
		{1, "complete", RGB{50, 200, 50}},
		{2, "incomplete", RGB{200, 200, 50}},
		{3, "foundation", RGB{200, 50, 50}},
	}
	for _, tc := range cases {
		label, ok := d.LabelByID(tc.id)
		if !ok {
			t.Fatalf("label %d not found", tc.id)
		}
		if label.Name != tc.name || label.Color != tc.color {
			t.Errorf("label %d: got %q %v, want %q %v", tc.id, label.Name, label.Color, tc.name, tc.color)
		}
	}
}

func TestRGB_CSS(t *testing.T) {
	if got := (RGB{50, 200, 50}).CSS(); got != "rgb(50, 200, 50)" {
		t.Errorf("unexpected CSS color %q", got)
	}
}

func TestGet_KnownAndUnknown(t *testing.T) {
	d, err := Get("tanzania", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ImageSize != 256 {
		t.Errorf("image size not propagated: %d", d.ImageSize)
	}

	if _, err := Get("mars", 256); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestLabelByColor(t *testing.T) {
	d := Tanzania(384)

	label, ok := d.LabelByColor(RGB{200, 200, 50})
	if !ok || label.Name != "incomplete" {
		t.Errorf("expected incomplete, got %+v (ok=%v)", label, ok)
	}

	if _, ok := d.LabelByColor(RGB{1, 2, 3}); ok {
		t.Error("unexpected match for an unknown color")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 1 || names[0] != "tanzania" {
		t.Errorf("unexpected dataset names %v", names)
	}
}
