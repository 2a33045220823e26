package composer

import (
	"strconv"

	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/validation"
)

const (
	// CreateImageField is read by the backend's create handler
	CreateImageField = "img"
	// UpdateImageField is read by the backend's update handler
	UpdateImageField = "imgFile"
)

// ComposeProductSubmission builds the multipart payload for a product draft.
// Collections go out as one JSON string each.
func ComposeProductSubmission(d *models.ProductDraft) (*Payload, error) {
	if err := validation.ValidateDefaultVariant(d); err != nil {
		return nil, err
	}
	if err := validation.ValidateProductDraft(d); err != nil {
		return nil, err
	}

	p := NewPayload()
	p.AddField("title", d.Title)
	p.AddField("description", d.Description)
	p.AddField("price", strconv.FormatFloat(d.Price, 'f', -1, 64))
	p.AddField("stock", strconv.Itoa(d.Stock))
	p.AddField("country", d.Country)
	p.AddField("category", d.Category)
	p.AddField("subCategory", d.SubCategory)
	if d.DefaultVariant != "" {
		p.AddField("defaultVariant", d.DefaultVariant)
	}

	collections := []jsonField{
		{"sizeOptions", nonNil(d.SizeOptions)},
		{"keywords", nonNil(d.Keywords)},
		{"discounts", nonNil(d.Discounts)},
		{"variants", nonNil(d.Variants)},
		{"removedImages", nonNil(d.RemovedImages)},
	}
	if d.IsUpdate() {
		collections = append(collections, jsonField{"images", d.RemoteImages()})
	}
	for _, c := range collections {
		if err := p.AddJSON(c.name, c.value); err != nil {
			return nil, err
		}
	}

	field := CreateImageField
	if d.IsUpdate() {
		field = UpdateImageField
	}
	for _, f := range d.NewFiles() {
		p.AddFile(field, f)
	}

	return p, nil
}

type jsonField struct {
	name  string
	value interface{}
}

// nonNil keeps empty collections encoding as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
