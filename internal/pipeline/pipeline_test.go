package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"listingforge/internal/domain"
	"listingforge/internal/providers/clip"
	"listingforge/internal/providers/imagegen"
	"listingforge/internal/providers/vision"
	"listingforge/internal/storage"
)

func writeTestPNG(t *testing.T, path string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 60, G: 60, B: 220, A: 255})
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

func newTestPipeline(t *testing.T, baseDir string) *Pipeline {
	t.Helper()
	workspaces, err := storage.NewManager(baseDir)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	return New(
		workspaces,
		vision.NewHeuristicDescriber(),
		imagegen.NewBannerAugmenter(3),
		clip.NewGIFSynthesizer(5),
		zerolog.Nop(),
	)
}

func listWorkspaces(t *testing.T, baseDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		t.Fatalf("read base dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "job-") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRunBlueMugExample(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "outputs")
	p := newTestPipeline(t, baseDir)
	src := writeTestPNG(t, filepath.Join(t.TempDir(), "blue-mug.png"), 800, 600)

	result, err := p.Run(context.Background(), domain.GenerationInputs{
		ImagePaths: []string{src},
		Hints:      "handmade in Oregon",
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !strings.HasPrefix(result.Metadata.Title, "Blue Mug") {
		t.Fatalf("Title = %q, want Blue Mug prefix", result.Metadata.Title)
	}
	found := false
	for _, b := range result.Metadata.Bullets {
		if strings.Contains(b, "800x600") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no bullet mentions 800x600: %v", result.Metadata.Bullets)
	}
	if result.Metadata.SEOTags[0] != "blue" {
		t.Fatalf("SEOTags[0] = %q, want %q", result.Metadata.SEOTags[0], "blue")
	}
	if len(result.Assets.SupplementaryImages) != 1 {
		t.Fatalf("supplementary images = %d, want 1", len(result.Assets.SupplementaryImages))
	}
	if result.Assets.MarketingGIF == "" {
		t.Fatalf("marketing gif missing from result")
	}
	if !strings.HasPrefix(result.Metadata.Description, result.Metadata.Title) {
		t.Fatalf("description does not begin with title: %q", result.Metadata.Description)
	}
	if !strings.Contains(result.Metadata.Description, "Notes from seller: handmade in Oregon") {
		t.Fatalf("description missing seller notes: %q", result.Metadata.Description)
	}

	for _, doc := range []string{MetadataDocument, AssetsDocument, ResultDocument} {
		path := filepath.Join(result.WorkspaceDir, "outputs", doc)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("document %s missing: %v", doc, err)
		}
		if !json.Valid(data) {
			t.Fatalf("document %s is not valid JSON", doc)
		}
	}

	var persisted domain.GenerationResult
	data, _ := os.ReadFile(filepath.Join(result.WorkspaceDir, "outputs", ResultDocument))
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("decode result.json: %v", err)
	}
	if persisted.Metadata.Title != result.Metadata.Title {
		t.Fatalf("persisted title = %q, want %q", persisted.Metadata.Title, result.Metadata.Title)
	}
}

func TestRunEmptyInputsFailsBeforeWorkspace(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "outputs")
	p := newTestPipeline(t, baseDir)
	_, err := p.Run(context.Background(), domain.GenerationInputs{Language: "en"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Run error = %v, want ErrInvalidInput", err)
	}
	if got := listWorkspaces(t, baseDir); len(got) != 0 {
		t.Fatalf("workspaces created on invalid input: %v", got)
	}
}

func TestRunMissingSourceLeavesWorkspace(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "outputs")
	p := newTestPipeline(t, baseDir)
	_, err := p.Run(context.Background(), domain.GenerationInputs{
		ImagePaths: []string{filepath.Join(t.TempDir(), "ghost.png")},
		Language:   "en",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Run error = %v, want ErrNotFound", err)
	}
	workspaces := listWorkspaces(t, baseDir)
	if len(workspaces) != 1 {
		t.Fatalf("workspaces = %v, want the partial workspace kept", workspaces)
	}
	imagesDir := filepath.Join(baseDir, workspaces[0], "images")
	entries, err := os.ReadDir(imagesDir)
	if err == nil && len(entries) != 0 {
		t.Fatalf("images area not empty after failed ingest: %v", entries)
	}
}

func TestRunWorkspacesAreDistinct(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "outputs")
	p := newTestPipeline(t, baseDir)
	src := writeTestPNG(t, filepath.Join(t.TempDir(), "bowl.png"), 50, 50)

	first, err := p.Run(context.Background(), domain.GenerationInputs{ImagePaths: []string{src}, Language: "en"})
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	second, err := p.Run(context.Background(), domain.GenerationInputs{ImagePaths: []string{src}, Language: "en"})
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if first.WorkspaceDir == second.WorkspaceDir {
		t.Fatalf("workspace roots collide: %q", first.WorkspaceDir)
	}
}

func TestRunSupplementaryCountTracksInputs(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "outputs")
	p := newTestPipeline(t, baseDir)
	srcDir := t.TempDir()
	var sources []string
	for _, name := range []string{"one.png", "two.png", "three.png", "four.png", "five.png"} {
		sources = append(sources, writeTestPNG(t, filepath.Join(srcDir, name), 30, 30))
	}
	result, err := p.Run(context.Background(), domain.GenerationInputs{ImagePaths: sources, Language: "en"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Assets.SupplementaryImages) != 3 {
		t.Fatalf("supplementary images = %d, want min(3, 5) = 3", len(result.Assets.SupplementaryImages))
	}
}

func TestComposeDescriptionLayout(t *testing.T) {
	got := ComposeDescription("Blue Mug – Premium Quality", []string{"First", "Second"}, "keep it cozy")
	want := strings.Join([]string{
		"Blue Mug – Premium Quality",
		"",
		"• First",
		"• Second",
		"",
		"Notes from seller: keep it cozy",
		"",
		"Carefully crafted and photographed for clarity. Colors may vary slightly across screens.",
	}, "\n")
	if got != want {
		t.Fatalf("ComposeDescription = %q, want %q", got, want)
	}
}

func TestComposeDescriptionWithoutHints(t *testing.T) {
	got := ComposeDescription("Vase", []string{"Only"}, "")
	if strings.Contains(got, "Notes from seller:") {
		t.Fatalf("description mentions seller notes without hints: %q", got)
	}
	if !strings.HasPrefix(got, "Vase\n") {
		t.Fatalf("description does not begin with title line: %q", got)
	}
}
