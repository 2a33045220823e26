package validation

import (
	"strings"

	"storefront-admin-service/internal/models"
)

const MsgEventLimitReached = "You can only have 2 events at a time. Delete an existing event first."

// ValidateEventCreate checks a new event against the live event count and its required uploads
func ValidateEventCreate(liveEvents int, sub *models.EventSubmission) error {
	if liveEvents >= models.MaxLiveEvents {
		return &Error{Code: CodeEventLimit, Field: "event", Message: MsgEventLimitReached}
	}
	if sub.Title == nil || strings.TrimSpace(*sub.Title) == "" {
		return reject("title", "Event title is required")
	}
	if sub.PopupImage == nil {
		return reject("popupImage", "Popup image is required")
	}
	if len(sub.BannerImages) == 0 {
		return reject("bannerImages", "At least one banner image is required")
	}
	if err := validateEventProducts(sub.ProductIDs); err != nil {
		return err
	}
	return validateEventImages(sub)
}

// ValidateEventUpdate checks the changed fields of an event update
func ValidateEventUpdate(sub *models.EventSubmission) error {
	if sub.Title != nil && strings.TrimSpace(*sub.Title) == "" {
		return reject("title", "Event title cannot be empty")
	}
	if err := validateEventProducts(sub.ProductIDs); err != nil {
		return err
	}
	return validateEventImages(sub)
}

// validateEventProducts refuses blank IDs and the same product listed twice
func validateEventProducts(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return reject("products", "Product IDs cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return &Error{Code: CodeDuplicateProduct, Field: "products", Message: "Product " + id + " is listed more than once"}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateEventImages(sub *models.EventSubmission) error {
	if sub.PopupImage != nil && sub.PopupImage.Kind != models.MediaKindImage {
		return reject("popupImage", "Popup image must be an image file")
	}
	for _, f := range sub.BannerImages {
		if f.Kind != models.MediaKindImage {
			return reject("bannerImages", "Banner images must be image files")
		}
	}
	return nil
}

// ValidateEventProductAdd refuses to add a product that is already part of the event
func ValidateEventProductAdd(event *models.EventRecord, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return reject("productId", "Product is required")
	}
	if event.HasProduct(productID) {
		return &Error{Code: CodeDuplicateProduct, Field: "productId", Message: "This product is already part of the event"}
	}
	return nil
}
