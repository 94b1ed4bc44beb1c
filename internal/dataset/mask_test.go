package dataset

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestBuildLabelImage_RoundTrip(t *testing.T) {
	d := Tanzania(384)
	mask := [][]uint8{
		{0, 1},
		{2, 3},
	}

	img := BuildLabelImage(mask, d)
	if got := img.Bounds().Dx(); got != 2 {
		t.Fatalf("unexpected width %d", got)
	}

	recovered := MaskFromLabelImage(img, d)
	for y := range mask {
		for x := range mask[y] {
			if recovered[y][x] != mask[y][x] {
				t.Errorf("pixel (%d,%d): got %d, want %d", x, y, recovered[y][x], mask[y][x])
			}
		}
	}
}

func TestBuildLabelImage_UnknownIDFallsBackToBackground(t *testing.T) {
	d := Tanzania(384)

	img := BuildLabelImage([][]uint8{{9}}, d)
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("unknown label id should paint background, got rgb(%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestMaskFromLabelImage_UnknownColorMapsToBackground(t *testing.T) {
	d := Tanzania(384)

	img := BuildLabelImage([][]uint8{{1}}, d)
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})

	mask := MaskFromLabelImage(img, d)
	if mask[0][0] != 0 {
		t.Errorf("off-glossary color should map to background, got %d", mask[0][0])
	}
}

func TestLabelsInMask(t *testing.T) {
	d := Tanzania(384)
	mask := [][]uint8{
		{0, 0, 1},
		{1, 3, 0},
	}

	labels := LabelsInMask(mask, d)
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}
	// ordered by ID
	if labels[0].Name != "background" || labels[1].Name != "complete" || labels[2].Name != "foundation" {
		t.Errorf("unexpected legend order: %v", labels)
	}
}

func TestLabelsInMask_Empty(t *testing.T) {
	d := Tanzania(384)
	if labels := LabelsInMask(nil, d); len(labels) != 0 {
		t.Errorf("empty mask should yield no labels, got %v", labels)
	}
}

func TestEncodePNG(t *testing.T) {
	d := Tanzania(384)
	content, err := EncodePNG(BuildLabelImage([][]uint8{{0, 1}, {2, 3}}, d))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := png.Decode(bytes.NewReader(content)); err != nil {
		t.Errorf("encoded bytes are not valid PNG: %v", err)
	}
}
