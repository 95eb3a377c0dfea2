package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"listingforge/internal/domain"
	"listingforge/internal/providers/clip"
	"listingforge/internal/providers/imagegen"
	"listingforge/internal/providers/vision"
	"listingforge/internal/storage"
)

const closingLine = "Carefully crafted and photographed for clarity. Colors may vary slightly across screens."

// Names of the JSON documents persisted into each workspace outputs area.
const (
	MetadataDocument = "metadata.json"
	AssetsDocument   = "assets.json"
	ResultDocument   = "result.json"
)

// Pipeline sequences the three providers over a fresh workspace and
// assembles their outputs into the final listing result. One Run is one
// job; stages never overlap and every failure aborts the job without
// touching what earlier stages already persisted.
type Pipeline struct {
	workspaces  *storage.Manager
	describer   vision.Describer
	augmenter   imagegen.Augmenter
	synthesizer clip.Synthesizer
	logger      zerolog.Logger
}

// New wires a Pipeline from its collaborators.
func New(workspaces *storage.Manager, describer vision.Describer, augmenter imagegen.Augmenter, synthesizer clip.Synthesizer, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		workspaces:  workspaces,
		describer:   describer,
		augmenter:   augmenter,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Run executes one listing generation job. On failure the partially
// populated workspace is left in place as audit evidence and the returned
// error names the failing stage plus the workspace when one exists.
func (p *Pipeline) Run(ctx context.Context, inputs domain.GenerationInputs) (*domain.GenerationResult, error) {
	if len(inputs.ImagePaths) == 0 {
		return nil, fmt.Errorf("pipeline: no input images: %w", domain.ErrInvalidInput)
	}

	ws, err := p.workspaces.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: allocate workspace: %w", err)
	}
	p.logger.Info().Str("workspace", ws.ID).Int("images", len(inputs.ImagePaths)).Msg("pipeline: job started")

	localImages, err := ws.IngestImages(inputs.ImagePaths)
	if err != nil {
		return nil, p.stageErr(ws, "ingest", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, p.stageErr(ws, "ingest", err)
	}
	obs, err := p.describer.Describe(ctx, localImages, inputs.Hints, inputs.Language)
	if err != nil {
		return nil, p.stageErr(ws, "describe", err)
	}

	metadata := domain.ListingMetadata{
		Title:       obs.Title,
		Bullets:     obs.Bullets,
		Description: ComposeDescription(obs.Title, obs.Bullets, inputs.Hints),
		SEOTags:     obs.SEOTags,
		Attributes:  obs.Attributes,
	}

	outDir, err := ws.OutputsDir()
	if err != nil {
		return nil, p.stageErr(ws, "outputs", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, p.stageErr(ws, "augment", err)
	}
	supplementary, err := p.augmenter.GenerateSupplementary(ctx, localImages, outDir)
	if err != nil {
		return nil, p.stageErr(ws, "augment", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, p.stageErr(ws, "clip", err)
	}
	clipPath, err := p.synthesizer.GenerateShortClip(ctx, localImages, outDir)
	if err != nil {
		return nil, p.stageErr(ws, "clip", err)
	}

	result := &domain.GenerationResult{
		Metadata: metadata,
		Assets: domain.GeneratedAssets{
			SupplementaryImages: supplementary,
			MarketingGIF:        clipPath,
		},
		WorkspaceDir: ws.Root,
	}

	if _, err := ws.SaveDocument(MetadataDocument, result.Metadata); err != nil {
		return nil, p.stageErr(ws, "persist", err)
	}
	if _, err := ws.SaveDocument(AssetsDocument, result.Assets); err != nil {
		return nil, p.stageErr(ws, "persist", err)
	}
	if _, err := ws.SaveDocument(ResultDocument, result); err != nil {
		return nil, p.stageErr(ws, "persist", err)
	}

	p.logger.Info().
		Str("workspace", ws.ID).
		Int("supplementary", len(supplementary)).
		Msg("pipeline: job finished")
	return result, nil
}

func (p *Pipeline) stageErr(ws *storage.Workspace, stage string, err error) error {
	p.logger.Error().Err(err).Str("workspace", ws.ID).Str("stage", stage).Msg("pipeline: stage failed")
	return fmt.Errorf("pipeline: workspace %s: stage %s: %w", ws.ID, stage, err)
}

// ComposeDescription builds the long-form listing description from the
// observed title and bullets plus the raw seller hints. It is a pure
// function with a fixed layout: title, blank line, one bullet-marker line
// per bullet, an optional seller-notes block, and a closing boilerplate
// sentence.
func ComposeDescription(title string, bullets []string, hints string) string {
	parts := []string{title, ""}
	for _, b := range bullets {
		parts = append(parts, "• "+b)
	}
	if hints != "" {
		parts = append(parts, "", "Notes from seller: "+hints)
	}
	parts = append(parts, "", closingLine)
	return strings.Join(parts, "\n")
}
