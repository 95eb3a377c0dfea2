package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"listingforge/internal/domain"
	"listingforge/internal/storage"
)

// Augmenter produces supplementary marketing images from the ingested
// product photos. Implementations are replaceable backends.
type Augmenter interface {
	GenerateSupplementary(ctx context.Context, images []string, outDir string) ([]string, error)
}

const (
	// DefaultMaxImages bounds how many sources are augmented per job.
	DefaultMaxImages = 3

	bannerText    = "Lifestyle Mockup"
	jpegQuality   = 90
	bannerHeight  = 60
	bannerPadding = 10
)

// BannerAugmenter overlays a translucent banner onto each source image and
// flattens the result to an opaque JPEG. It stands in for an image synthesis
// model behind the same contract.
type BannerAugmenter struct {
	maxImages int
}

// NewBannerAugmenter builds an augmenter processing at most maxImages
// sources per job; values below one fall back to the default bound.
func NewBannerAugmenter(maxImages int) *BannerAugmenter {
	if maxImages < 1 {
		maxImages = DefaultMaxImages
	}
	return &BannerAugmenter{maxImages: maxImages}
}

// GenerateSupplementary writes supplementary_<n>.jpg files into outDir, one
// per processed source, numbered from one in source order. Naming is
// workspace-local, so re-runs overwrite rather than accumulate.
func (a *BannerAugmenter) GenerateSupplementary(ctx context.Context, images []string, outDir string) ([]string, error) {
	limit := a.maxImages
	if len(images) < limit {
		limit = len(images)
	}
	outputs := make([]string, 0, limit)
	for idx, src := range images[:limit] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dest := filepath.Join(outDir, fmt.Sprintf("supplementary_%d.jpg", idx+1))
		if err := a.composeOne(src, dest); err != nil {
			return nil, fmt.Errorf("imagegen: augment %s: %w: %w", filepath.Base(src), domain.ErrProviderFailure, err)
		}
		outputs = append(outputs, dest)
	}
	return outputs, nil
}

func (a *BannerAugmenter) composeOne(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	bounds := decoded.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, decoded, bounds.Min, draw.Src)

	banner := image.Rect(
		bounds.Min.X+bannerPadding,
		bounds.Min.Y+bannerPadding,
		bounds.Min.X+int(float64(bounds.Dx())*0.6),
		bounds.Min.Y+bannerHeight,
	)
	draw.Draw(canvas, banner, image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 180}), image.Point{}, draw.Over)

	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot: fixed.P(
			bounds.Min.X+2*bannerPadding,
			bounds.Min.Y+2*bannerPadding+basicfont.Face7x13.Ascent,
		),
	}
	drawer.DrawString(bannerText)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return err
	}
	return storage.WriteFileAtomic(dest, buf.Bytes())
}

var _ Augmenter = (*BannerAugmenter)(nil)
