package composer

import "storefront-admin-service/internal/models"

const (
	PopupImageField   = "popupImage"
	BannerImagesField = "bannerImages"
)

// ComposeEventSubmission builds an event create or update payload.
// Updates only carry the fields that changed.
func ComposeEventSubmission(sub *models.EventSubmission, update bool) (*Payload, error) {
	if !update && (sub.PopupImage == nil || len(sub.BannerImages) == 0) {
		return nil, composeError("event", "Popup image and banner images are required")
	}

	p := NewPayload()
	if sub.Title != nil {
		p.AddField("title", *sub.Title)
	}
	if !update || sub.ProductIDs != nil {
		if err := p.AddJSON("products", nonNil(sub.ProductIDs)); err != nil {
			return nil, err
		}
	}
	if sub.PopupImage != nil {
		p.AddFile(PopupImageField, *sub.PopupImage)
	}
	for _, f := range inSelectionOrder(sub.BannerImages) {
		p.AddFile(BannerImagesField, f)
	}
	return p, nil
}
