package dataset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// BuildLabelImage paints a per-pixel label-ID mask with the dataset label
// colors. Pixels holding an ID outside the glossary fall back to the
// background color.
func BuildLabelImage(mask [][]uint8, d *Dataset) *image.RGBA {
	height := len(mask)
	width := 0
	if height > 0 {
		width = len(mask[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background, _ := d.LabelByID(0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			label, ok := d.LabelByID(int(mask[y][x]))
			if !ok {
				label = background
			}
			img.SetRGBA(x, y, color.RGBA{R: label.Color.R, G: label.Color.G, B: label.Color.B, A: 255})
		}
	}

	return img
}

// MaskFromLabelImage recovers the label-ID mask from a color-coded label
// image. Colors that do not belong to the glossary map to background.
func MaskFromLabelImage(img image.Image, d *Dataset) [][]uint8 {
	bounds := img.Bounds()
	mask := make([][]uint8, bounds.Dy())

	for y := range mask {
		mask[y] = make([]uint8, bounds.Dx())
		for x := range mask[y] {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb := RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
			if label, ok := d.LabelByColor(rgb); ok {
				mask[y][x] = uint8(label.ID)
			}
		}
	}

	return mask
}

// LabelsInMask lists the glossary labels that occur in the mask, ordered
// by ID. This is the source of the legend shown next to each panel.
func LabelsInMask(mask [][]uint8, d *Dataset) []Label {
	seen := make(map[int]bool)
	for _, row := range mask {
		for _, id := range row {
			seen[int(id)] = true
		}
	}

	var labels []Label
	for _, label := range d.Labels() {
		if seen[label.ID] {
			labels = append(labels, label)
		}
	}

	return labels
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
