package domain

// GenerationInputs is the caller-supplied request for one listing job. It is
// constructed once by the transport (HTTP or CLI) and never mutated.
type GenerationInputs struct {
	ImagePaths []string `json:"image_paths"`
	Hints      string   `json:"hints,omitempty"`
	Language   string   `json:"language"`
}

// ListingAttributes carries the well-known product facets plus an open
// mapping for marketplace-agnostic extras. A nil field means unknown, which
// is distinct from an empty string.
type ListingAttributes struct {
	Brand    *string           `json:"brand"`
	Material *string           `json:"material"`
	Color    *string           `json:"color"`
	Size     *string           `json:"size"`
	Custom   map[string]string `json:"custom"`
}

// VisionObservation is the in-memory output of a Describer. Its fields flow
// into ListingMetadata; the observation itself is never persisted.
type VisionObservation struct {
	Title      string
	Bullets    []string
	Attributes ListingAttributes
	SEOTags    []string
}

// ListingMetadata is the structured marketing copy produced for one job.
type ListingMetadata struct {
	Title       string            `json:"title"`
	Bullets     []string          `json:"bullets"`
	Description string            `json:"description"`
	SEOTags     []string          `json:"seo_tags"`
	Attributes  ListingAttributes `json:"attributes"`
}

// GeneratedAssets lists the derived visual artifacts for one job. Paths are
// local to the job's workspace outputs area.
type GeneratedAssets struct {
	SupplementaryImages []string `json:"supplementary_images"`
	MarketingGIF        string   `json:"marketing_gif,omitempty"`
}

// GenerationResult is the only value returned across the system boundary and
// the canonical per-job record persisted as result.json.
type GenerationResult struct {
	Metadata     ListingMetadata `json:"metadata"`
	Assets       GeneratedAssets `json:"assets"`
	WorkspaceDir string          `json:"workspace_dir"`
}
