package domain

import "strings"

// Marketplace projections are pure, stateless shapers from the generic
// listing metadata into marketplace-specific payloads. They carry no
// orchestration logic and never touch storage.

type EtsyListing struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Materials   []string `json:"materials"`
}

type ShopifyProduct struct {
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
	Tags     string `json:"tags"`
}

type AmazonListing struct {
	ItemName           string   `json:"item_name"`
	ProductDescription string   `json:"product_description"`
	BulletPoints       []string `json:"bullet_points"`
	GenericKeywords    string   `json:"generic_keywords"`
}

// NewEtsyListing shapes metadata to Etsy limits: 139-rune title, 13 tags.
func NewEtsyListing(meta ListingMetadata) EtsyListing {
	var materials []string
	if meta.Attributes.Material != nil && *meta.Attributes.Material != "" {
		materials = append(materials, *meta.Attributes.Material)
	}
	return EtsyListing{
		Title:       truncateRunes(meta.Title, 139),
		Description: meta.Description,
		Tags:        capSlice(meta.SEOTags, 13),
		Materials:   materials,
	}
}

// NewShopifyProduct shapes metadata for Shopify, joining tags with commas.
func NewShopifyProduct(meta ListingMetadata) ShopifyProduct {
	return ShopifyProduct{
		Title:    meta.Title,
		BodyHTML: meta.Description,
		Tags:     strings.Join(meta.SEOTags, ", "),
	}
}

// NewAmazonListing shapes metadata to Amazon limits: 199-rune item name,
// five bullet points, 249-rune keyword string.
func NewAmazonListing(meta ListingMetadata) AmazonListing {
	return AmazonListing{
		ItemName:           truncateRunes(meta.Title, 199),
		ProductDescription: meta.Description,
		BulletPoints:       capSlice(meta.Bullets, 5),
		GenericKeywords:    truncateRunes(strings.Join(meta.SEOTags, " "), 249),
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func capSlice(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	return items[:max]
}
