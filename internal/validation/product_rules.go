package validation

import (
	"strings"

	"storefront-admin-service/internal/models"
)

const (
	MsgProductImageRequired = "At least one product image is required"
	MsgDefaultVariantMember = "Default variant must be one of the selected variants"
)

// ValidateProductImageAdd checks that adding images keeps the draft within its limit
func ValidateProductImageAdd(current, adding int) error {
	if adding == 0 {
		return reject("images", "No images selected")
	}
	if current+adding > models.MaxProductImages {
		return reject("images", "A product can have at most %d images. Currently has %d, you can add at most %d more.",
			models.MaxProductImages, current, models.MaxProductImages-current)
	}
	return nil
}

// ValidateProductDraft checks a draft before it is composed for submission
func ValidateProductDraft(d *models.ProductDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return reject("title", "Product title is required")
	}
	if d.Price < 0 {
		return reject("price", "Price cannot be negative")
	}
	if d.Stock < 0 {
		return reject("stock", "Stock cannot be negative")
	}
	if strings.TrimSpace(d.Category) == "" {
		return reject("category", "Category is required")
	}

	if len(d.Images) == 0 {
		return reject("images", MsgProductImageRequired)
	}
	if len(d.Images) > models.MaxProductImages {
		return reject("images", "A product can have at most %d images", models.MaxProductImages)
	}
	for _, img := range d.Images {
		if img.File != nil && img.File.Kind != models.MediaKindImage {
			return reject("images", "Only image files can be used as product images")
		}
	}

	if len(d.SizeOptions) > models.MaxSizeOptions {
		return reject("sizeOptions", "A product can have at most %d size options", models.MaxSizeOptions)
	}
	seen := make(map[models.SizeName]bool, len(d.SizeOptions))
	for _, s := range d.SizeOptions {
		if !s.Name.Valid() {
			return reject("sizeOptions", "Size must be one of regular, medium or collector (got %q)", s.Name)
		}
		if seen[s.Name] {
			return reject("sizeOptions", "Size %q is listed more than once", s.Name)
		}
		seen[s.Name] = true
		if s.Price < 0 {
			return reject("sizeOptions", "Price for size %q cannot be negative", s.Name)
		}
	}

	for _, disc := range d.Discounts {
		if strings.TrimSpace(disc.Title) == "" {
			return reject("discounts", "Discount title is required")
		}
		if disc.Percentage <= 0 || disc.Percentage > 100 {
			return reject("discounts", "Discount %q must be between 0 and 100 percent", disc.Title)
		}
	}

	return ValidateDefaultVariant(d)
}

// ValidateDefaultVariant requires the default variant, when set, to be in the variant set
func ValidateDefaultVariant(d *models.ProductDraft) error {
	if d.DefaultVariant == "" {
		return nil
	}
	if !d.HasVariant(d.DefaultVariant) {
		return reject("defaultVariant", MsgDefaultVariantMember)
	}
	return nil
}
