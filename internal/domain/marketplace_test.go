package domain

import (
	"strings"
	"testing"
)

func sampleMetadata() ListingMetadata {
	material := "stoneware"
	return ListingMetadata{
		Title:       strings.Repeat("Blue Mug ", 30),
		Bullets:     []string{"a", "b", "c", "d", "e", "f", "g"},
		Description: "Blue Mug\n\n• a\n\nCarefully crafted.",
		SEOTags:     []string{"blue", "handmade", "gift", "unique", "mug", "ceramic", "coffee", "tea", "kitchen", "artisan", "glazed", "cozy", "gifting", "extra"},
		Attributes:  ListingAttributes{Material: &material, Custom: map[string]string{}},
	}
}

func TestNewEtsyListingLimits(t *testing.T) {
	got := NewEtsyListing(sampleMetadata())
	if n := len([]rune(got.Title)); n > 139 {
		t.Fatalf("title length = %d, want <= 139", n)
	}
	if len(got.Tags) != 13 {
		t.Fatalf("tags = %d, want capped at 13", len(got.Tags))
	}
	if len(got.Materials) != 1 || got.Materials[0] != "stoneware" {
		t.Fatalf("materials = %v, want [stoneware]", got.Materials)
	}
}

func TestNewEtsyListingWithoutMaterial(t *testing.T) {
	meta := sampleMetadata()
	meta.Attributes.Material = nil
	got := NewEtsyListing(meta)
	if len(got.Materials) != 0 {
		t.Fatalf("materials = %v, want empty when unknown", got.Materials)
	}
}

func TestNewShopifyProductJoinsTags(t *testing.T) {
	got := NewShopifyProduct(sampleMetadata())
	if !strings.HasPrefix(got.Tags, "blue, handmade") {
		t.Fatalf("tags = %q, want comma-joined list", got.Tags)
	}
	if got.BodyHTML == "" {
		t.Fatalf("body_html is empty")
	}
}

func TestNewAmazonListingLimits(t *testing.T) {
	got := NewAmazonListing(sampleMetadata())
	if n := len([]rune(got.ItemName)); n > 199 {
		t.Fatalf("item name length = %d, want <= 199", n)
	}
	if len(got.BulletPoints) != 5 {
		t.Fatalf("bullet points = %d, want capped at 5", len(got.BulletPoints))
	}
	if n := len([]rune(got.GenericKeywords)); n > 249 {
		t.Fatalf("keywords length = %d, want <= 249", n)
	}
}
