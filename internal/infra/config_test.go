package infra

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("MAX_SUPPLEMENTARY_IMAGES", "")
	t.Setenv("MAX_CLIP_FRAMES", "")
	t.Setenv("DEFAULT_LOCALE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.OutputDir != "./outputs" {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, "./outputs")
	}
	if want := filepath.Join("./outputs", "uploads"); cfg.UploadDir != want {
		t.Fatalf("UploadDir = %q, want %q", cfg.UploadDir, want)
	}
	if cfg.MaxSupplementary != 3 {
		t.Fatalf("MaxSupplementary = %d, want 3", cfg.MaxSupplementary)
	}
	if cfg.MaxClipFrames != 5 {
		t.Fatalf("MaxClipFrames = %d, want 5", cfg.MaxClipFrames)
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "en")
	}
}

func TestLoadConfigUploadDirFollowsOutputDir(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/data/listings")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if want := filepath.Join("/data/listings", "uploads"); cfg.UploadDir != want {
		t.Fatalf("UploadDir = %q, want %q", cfg.UploadDir, want)
	}
}

func TestLoadConfigClampsBounds(t *testing.T) {
	t.Setenv("MAX_SUPPLEMENTARY_IMAGES", "-2")
	t.Setenv("MAX_CLIP_FRAMES", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxSupplementary != 3 {
		t.Fatalf("MaxSupplementary = %d, want clamped default 3", cfg.MaxSupplementary)
	}
	if cfg.MaxClipFrames != 5 {
		t.Fatalf("MaxClipFrames = %d, want clamped default 5", cfg.MaxClipFrames)
	}
}
