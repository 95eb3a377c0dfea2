package clip

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y % 250), B: 80, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

func decodeGIF(t *testing.T, path string) *gif.GIF {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open clip: %v", err)
	}
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode clip: %v", err)
	}
	return decoded
}

func TestGenerateShortClipFromImages(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	sources := []string{
		writeTestPNG(t, filepath.Join(srcDir, "a.png"), 40, 30),
		writeTestPNG(t, filepath.Join(srcDir, "b.png"), 40, 30),
	}
	dest, err := NewGIFSynthesizer(5).GenerateShortClip(context.Background(), sources, outDir)
	if err != nil {
		t.Fatalf("GenerateShortClip returned error: %v", err)
	}
	if filepath.Base(dest) != ArtifactName {
		t.Fatalf("artifact = %q, want %q", filepath.Base(dest), ArtifactName)
	}
	decoded := decodeGIF(t, dest)
	if len(decoded.Image) != 2 {
		t.Fatalf("frames = %d, want 2", len(decoded.Image))
	}
	if decoded.LoopCount != 0 {
		t.Fatalf("LoopCount = %d, want 0 (infinite)", decoded.LoopCount)
	}
	for i, delay := range decoded.Delay {
		if delay != 50 {
			t.Fatalf("Delay[%d] = %d, want 50 (500ms)", i, delay)
		}
	}
}

func TestGenerateShortClipBoundsFrames(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	var sources []string
	for _, name := range []string{"a", "b", "c", "d"} {
		sources = append(sources, writeTestPNG(t, filepath.Join(srcDir, name+".png"), 20, 20))
	}
	dest, err := NewGIFSynthesizer(2).GenerateShortClip(context.Background(), sources, outDir)
	if err != nil {
		t.Fatalf("GenerateShortClip returned error: %v", err)
	}
	if got := len(decodeGIF(t, dest).Image); got != 2 {
		t.Fatalf("frames = %d, want 2", got)
	}
}

func TestGenerateShortClipEmptyInputProducesBlankFrame(t *testing.T) {
	outDir := t.TempDir()
	dest, err := NewGIFSynthesizer(5).GenerateShortClip(context.Background(), nil, outDir)
	if err != nil {
		t.Fatalf("GenerateShortClip returned error: %v", err)
	}
	decoded := decodeGIF(t, dest)
	if len(decoded.Image) != 1 {
		t.Fatalf("frames = %d, want 1 synthetic frame", len(decoded.Image))
	}
	bounds := decoded.Image[0].Bounds()
	if bounds.Dx() != 512 || bounds.Dy() != 512 {
		t.Fatalf("blank frame = %dx%d, want 512x512", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateShortClipOverwritesOnRerun(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := writeTestPNG(t, filepath.Join(srcDir, "only.png"), 16, 16)
	s := NewGIFSynthesizer(5)
	if _, err := s.GenerateShortClip(context.Background(), []string{src}, outDir); err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	if _, err := s.GenerateShortClip(context.Background(), []string{src}, outDir); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}
	gifs := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".gif" {
			gifs++
		}
	}
	if gifs != 1 {
		t.Fatalf("clip artifacts = %d, want exactly 1 after re-run", gifs)
	}
}
