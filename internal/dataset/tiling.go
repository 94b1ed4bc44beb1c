package dataset

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/tiff"
)

// TileOptions controls how a raw image is decomposed into fixed-size
// squared tiles. With Flips enabled, each tile additionally produces its
// horizontal, vertical and combined mirror, the augmentation used when
// preparing training material.
type TileOptions struct {
	Size  int
	Flips bool
}

// Orientation suffixes, matching the corner the tile content points to.
var flipSuffixes = []string{"nw", "ne", "sw", "se"}

// PreprocessImage cuts one source image into tiles and writes them as PNG
// files under <outDir>/images. It returns the number of tiles written.
// Sources may be PNG, JPEG or TIFF.
func PreprocessImage(srcPath, outDir string, opts TileOptions) (int, error) {
	if opts.Size <= 0 {
		return 0, fmt.Errorf("invalid tile size %d", opts.Size)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", srcPath, err)
	}

	imagesDir := filepath.Join(outDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return 0, err
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	bounds := img.Bounds()
	count := 0

	for y := bounds.Min.Y; y+opts.Size <= bounds.Max.Y; y += opts.Size {
		for x := bounds.Min.X; x+opts.Size <= bounds.Max.X; x += opts.Size {
			tile := transform.Crop(img, image.Rect(x, y, x+opts.Size, y+opts.Size))

			variants := []image.Image{tile}
			if opts.Flips {
				flipH := transform.FlipH(tile)
				flipV := transform.FlipV(tile)
				variants = append(variants, flipH, flipV, transform.FlipH(flipV))
			}

			for i, variant := range variants {
				name := tileName(base, opts.Size, x-bounds.Min.X, y-bounds.Min.Y, opts.Flips, i)
				if err := writePNG(filepath.Join(imagesDir, name), variant); err != nil {
					return count, err
				}
				count++
			}
		}
	}

	return count, nil
}

// PreprocessDir tiles every image found directly under inputDir.
func PreprocessDir(inputDir, outDir string, opts TileOptions) (int, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read input dir: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		n, err := PreprocessImage(filepath.Join(inputDir, entry.Name()), outDir, opts)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

func tileName(base string, size, x, y int, flips bool, variant int) string {
	name := fmt.Sprintf("%s_%d_%d_%d_%d", base, size, size, x, y)
	if flips {
		name += "_" + flipSuffixes[variant]
	}
	return name + ".png"
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
