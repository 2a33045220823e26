package models

import "time"

// MaxLiveEvents is the number of promotional events the storefront can run at once
const MaxLiveEvents = 2

// EventProduct is a product associated with an event
type EventProduct struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Price float64 `json:"price,omitempty"`
	Image string  `json:"image,omitempty"`
}

// EventRecord represents a promotional event
type EventRecord struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	PopupImage   string         `json:"popupImage"`
	BannerImages []string       `json:"bannerImages"`
	Products     []EventProduct `json:"products"`
	CreatedAt    *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time     `json:"updatedAt,omitempty"`
}

// HasProduct reports whether productID is already associated with the event
func (e *EventRecord) HasProduct(productID string) bool {
	for _, p := range e.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// ProductIDs returns the ids of the associated products
func (e *EventRecord) ProductIDs() []string {
	ids := make([]string, 0, len(e.Products))
	for _, p := range e.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// EventSubmission is an event create or update request with its uploads.
// On update every nil/empty field means "keep existing".
type EventSubmission struct {
	Title        *string      `json:"title,omitempty"`
	ProductIDs   []string     `json:"products,omitempty"`
	PopupImage   *FileUpload  `json:"-"`
	BannerImages []FileUpload `json:"-"`
}

// AddEventProductRequest is the body for associating a product with an event
type AddEventProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}
