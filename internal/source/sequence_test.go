package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func writeFrame(t *testing.T, path string, shade uint8, enc func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func encodePNG(f *os.File, img image.Image) error  { return png.Encode(f, img) }
func encodeTIFF(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) }

func TestSequenceOrder(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, filepath.Join(dir, "frame_0002.png"), 200, encodePNG)
	writeFrame(t, filepath.Join(dir, "frame_0001.png"), 100, encodePNG)
	writeFrame(t, filepath.Join(dir, "frame_0003.tif"), 50, encodeTIFF)
	os.WriteFile(filepath.Join(dir, "clip.yaml"), []byte("version: 1.0"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.png"), 0755)

	seq, err := NewSequence(dir)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("Expected 3 frames, got %d", seq.Len())
	}

	for i, want := range []uint8{100, 200, 50} {
		img, err := seq.Frame(i)
		if err != nil {
			t.Fatalf("Frame(%d) failed: %v", i, err)
		}
		got := color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y
		if got != want {
			t.Errorf("Frame %d (%s): expected shade %d, got %d", i, seq.Path(i), want, got)
		}
	}

	w, h, err := seq.Dimensions(2)
	if err != nil || w != 8 || h != 4 {
		t.Errorf("Dimensions: %dx%d, %v", w, h, err)
	}

	if _, err := seq.Frame(3); err == nil {
		t.Error("Expected an error past the last frame")
	}
}

func TestSequenceSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	writeFrame(t, path, 10, encodePNG)

	seq, err := NewSequence(path)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if seq.Len() != 1 || seq.Path(0) != path {
		t.Errorf("Unexpected sequence: %v", seq.paths)
	}
}

func TestSequenceEmpty(t *testing.T) {
	if _, err := NewSequence(t.TempDir()); err == nil {
		t.Error("Expected an error for a directory without frames")
	}
	if _, err := NewSequence(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected an error for a missing path")
	}
}
