package dataset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeSourceImage(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestPreprocessImage_TileCount(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(srcDir, "scene.png")
	writeSourceImage(t, src, 10, 7)

	// 10x7 with size 4 gives a 2x1 grid, the remainder is discarded.
	n, err := PreprocessImage(src, outDir, TileOptions{Size: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 tiles, got %d", n)
	}

	for _, name := range []string{"scene_4_4_0_0.png", "scene_4_4_4_0.png"} {
		if _, err := os.Stat(filepath.Join(outDir, "images", name)); err != nil {
			t.Errorf("missing tile %s: %v", name, err)
		}
	}
}

func TestPreprocessImage_FlipVariants(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(srcDir, "scene.png")
	writeSourceImage(t, src, 4, 4)

	n, err := PreprocessImage(src, outDir, TileOptions{Size: 4, Flips: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 flip variants, got %d", n)
	}

	for _, suffix := range flipSuffixes {
		name := "scene_4_4_0_0_" + suffix + ".png"
		if _, err := os.Stat(filepath.Join(outDir, "images", name)); err != nil {
			t.Errorf("missing variant %s: %v", name, err)
		}
	}

	// The mirrored variants must differ from the original tile.
	orig := readPixel(t, filepath.Join(outDir, "images", "scene_4_4_0_0_nw.png"), 0, 0)
	mirrored := readPixel(t, filepath.Join(outDir, "images", "scene_4_4_0_0_ne.png"), 0, 0)
	if orig == mirrored {
		t.Error("horizontal flip left the corner pixel unchanged")
	}
}

func TestPreprocessImage_InvalidSize(t *testing.T) {
	if _, err := PreprocessImage("unused.png", t.TempDir(), TileOptions{Size: 0}); err == nil {
		t.Error("expected an error for a zero tile size")
	}
}

func TestPreprocessDir(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeSourceImage(t, filepath.Join(srcDir, "a.png"), 4, 4)
	writeSourceImage(t, filepath.Join(srcDir, "b.png"), 8, 4)

	n, err := PreprocessDir(srcDir, outDir, TileOptions{Size: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 tiles across both sources, got %d", n)
	}
}

func readPixel(t *testing.T, path string, x, y int) color.RGBA {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
