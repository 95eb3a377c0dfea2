package clip

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"listingforge/internal/domain"
	"listingforge/internal/storage"
)

// Synthesizer turns the ingested product photos into one short looping
// marketing clip. Implementations are replaceable backends.
type Synthesizer interface {
	GenerateShortClip(ctx context.Context, images []string, outDir string) (string, error)
}

const (
	// DefaultMaxFrames bounds how many sources become clip frames.
	DefaultMaxFrames = 5

	// ArtifactName is the fixed, well-known clip filename within a
	// workspace's outputs area. Re-runs overwrite it in place.
	ArtifactName = "marketing.gif"

	frameDelayCentis = 50 // 500ms per frame
	fallbackSize     = 512
)

// GIFSynthesizer assembles an infinitely looping GIF from the first frames
// of the input sequence, or from one synthetic blank frame when no input is
// available — the produced artifact always exists.
type GIFSynthesizer struct {
	maxFrames int
}

// NewGIFSynthesizer builds a synthesizer using at most maxFrames sources;
// values below one fall back to the default bound.
func NewGIFSynthesizer(maxFrames int) *GIFSynthesizer {
	if maxFrames < 1 {
		maxFrames = DefaultMaxFrames
	}
	return &GIFSynthesizer{maxFrames: maxFrames}
}

func (s *GIFSynthesizer) GenerateShortClip(ctx context.Context, images []string, outDir string) (string, error) {
	limit := s.maxFrames
	if len(images) < limit {
		limit = len(images)
	}
	frames := make([]*image.Paletted, 0, limit)
	for _, src := range images[:limit] {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		frame, err := loadFrame(src)
		if err != nil {
			return "", fmt.Errorf("clip: frame %s: %w: %w", filepath.Base(src), domain.ErrProviderFailure, err)
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		frames = append(frames, blankFrame())
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelayCentis)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return "", fmt.Errorf("clip: encode: %w: %w", domain.ErrProviderFailure, err)
	}
	dest := filepath.Join(outDir, ArtifactName)
	if err := storage.WriteFileAtomic(dest, buf.Bytes()); err != nil {
		return "", fmt.Errorf("clip: write artifact: %w: %w", domain.ErrStorage, err)
	}
	return dest, nil
}

func loadFrame(path string) (*image.Paletted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return palettize(decoded), nil
}

func blankFrame() *image.Paletted {
	neutral := image.NewUniform(color.RGBA{R: 240, G: 240, B: 240, A: 255})
	frame := image.NewRGBA(image.Rect(0, 0, fallbackSize, fallbackSize))
	draw.Draw(frame, frame.Bounds(), neutral, image.Point{}, draw.Src)
	return palettize(frame)
}

func palettize(src image.Image) *image.Paletted {
	bounds := src.Bounds()
	frame := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(frame, bounds, src, bounds.Min)
	return frame
}

var _ Synthesizer = (*GIFSynthesizer)(nil)
