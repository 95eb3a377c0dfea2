package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"listingforge/internal/domain"
)

// Describer turns product photos plus optional seller hints into a
// structured observation. Implementations are replaceable backends; the
// heuristic one below is the offline default.
type Describer interface {
	Describe(ctx context.Context, images []string, hints, locale string) (*domain.VisionObservation, error)
}

// maxHintPreview bounds how much of the seller hint is echoed back as a
// bullet.
const maxHintPreview = 60

// HeuristicDescriber derives listing copy from the first image's dimensions
// and filename. It stands in for a vision model behind the same contract.
type HeuristicDescriber struct{}

func NewHeuristicDescriber() *HeuristicDescriber {
	return &HeuristicDescriber{}
}

// Describe reads only the first image; a single representative photo is
// enough signal for the heuristic derivation and keeps cost bounded.
func (d *HeuristicDescriber) Describe(ctx context.Context, images []string, hints, locale string) (*domain.VisionObservation, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("vision: no images to describe: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	primary := images[0]
	width, height, err := probeDimensions(primary)
	if err != nil {
		return nil, fmt.Errorf("vision: read %s: %w: %w", filepath.Base(primary), domain.ErrProviderFailure, err)
	}

	baseName := baseNameFromPath(primary, locale)
	title := baseName + " – Premium Quality"
	bullets := []string{
		fmt.Sprintf("High-quality build (%dx%d px photo)", width, height),
		"Thoughtful design for everyday use",
		"Great gift idea",
		"Ships fast",
	}
	if hints != "" {
		bullets = append(bullets, "Seller notes: "+previewHint(hints))
	}

	tags := []string{
		strings.ToLower(strings.Fields(baseName)[0]),
		"handmade",
		"gift",
		"unique",
	}
	return &domain.VisionObservation{
		Title:      title,
		Bullets:    bullets,
		Attributes: domain.ListingAttributes{Custom: map[string]string{}},
		SEOTags:    tags,
	}, nil
}

func probeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// baseNameFromPath titles the filename stem, mapping separator characters to
// spaces. Stems that are empty or camera-style ("img_1234") carry no product
// signal and fall back to a generic name.
func baseNameFromPath(path, locale string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.TrimSpace(stem)

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	titled := cases.Title(tag).String(stem)
	if titled == "" || strings.HasPrefix(strings.ToLower(titled), "img") {
		return "Handcrafted Product"
	}
	return titled
}

func previewHint(hints string) string {
	runes := []rune(hints)
	if len(runes) <= maxHintPreview {
		return hints
	}
	return string(runes[:maxHintPreview]) + "…"
}

var _ Describer = (*HeuristicDescriber)(nil)
