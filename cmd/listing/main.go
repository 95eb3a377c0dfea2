package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"listingforge/internal/domain"
	"listingforge/internal/infra"
	"listingforge/internal/pipeline"
	"listingforge/internal/providers/clip"
	"listingforge/internal/providers/imagegen"
	"listingforge/internal/providers/vision"
	"listingforge/internal/storage"
)

func main() {
	var (
		hintsFlag       string
		languageFlag    string
		marketplaceFlag string
	)

	flag.StringVar(&hintsFlag, "hints", "", "optional seller hints/brand voice notes")
	flag.StringVar(&languageFlag, "language", "", "locale tag for generated copy (defaults to DEFAULT_LOCALE)")
	flag.StringVar(&marketplaceFlag, "marketplace", "", "print a marketplace projection instead of the full result (etsy, shopify, amazon)")
	flag.Parse()

	images := flag.Args()
	if len(images) == 0 {
		exitWithError(errors.New("at least one image path argument is required"))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	language := strings.TrimSpace(languageFlag)
	if language == "" {
		language = cfg.DefaultLocale
	}

	workspaces, err := storage.NewManager(cfg.OutputDir)
	if err != nil {
		exitWithError(err)
	}
	pipe := pipeline.New(
		workspaces,
		vision.NewHeuristicDescriber(),
		imagegen.NewBannerAugmenter(cfg.MaxSupplementary),
		clip.NewGIFSynthesizer(cfg.MaxClipFrames),
		logger,
	)

	result, err := pipe.Run(context.Background(), domain.GenerationInputs{
		ImagePaths: images,
		Hints:      hintsFlag,
		Language:   language,
	})
	if err != nil {
		exitWithError(err)
	}

	fmt.Println("Generation complete")
	fmt.Println("Workspace:", result.WorkspaceDir)
	fmt.Println()
	fmt.Println("Title:", result.Metadata.Title)
	fmt.Println("Bullets:")
	for _, b := range result.Metadata.Bullets {
		fmt.Println(" -", b)
	}
	fmt.Println("SEO tags:", strings.Join(result.Metadata.SEOTags, ", "))
	fmt.Println()
	fmt.Println("Assets:")
	for _, p := range result.Assets.SupplementaryImages {
		fmt.Println(" -", p)
	}
	if result.Assets.MarketingGIF != "" {
		fmt.Println(" -", result.Assets.MarketingGIF)
	}
	fmt.Println()

	var echo any = result
	switch strings.ToLower(strings.TrimSpace(marketplaceFlag)) {
	case "":
	case "etsy":
		echo = domain.NewEtsyListing(result.Metadata)
	case "shopify":
		echo = domain.NewShopifyProduct(result.Metadata)
	case "amazon":
		echo = domain.NewAmazonListing(result.Metadata)
	default:
		exitWithError(fmt.Errorf("unsupported marketplace %q", marketplaceFlag))
	}
	out, err := json.Marshal(echo)
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(out))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
