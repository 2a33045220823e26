package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

type bannerMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type bannerResponse struct {
	Name  string        `json:"name"`
	Media []bannerMedia `json:"media"`
}

// mediaKindFromBackend maps the backend's declared media type to a kind tag
func mediaKindFromBackend(t string) models.MediaKind {
	switch strings.ToLower(t) {
	case "video":
		return models.MediaKindVideo
	case "youtube", "youtubelink", "youtube_link", "link":
		return models.MediaKindYouTubeLink
	default:
		return models.MediaKindImage
	}
}

func (b *bannerResponse) toSlot(section string) *models.MediaSlot {
	slot := models.NewMediaSlot(section)
	for _, m := range b.Media {
		slot.Items = append(slot.Items, models.MediaItem{Kind: mediaKindFromBackend(m.Type), URL: m.URL})
	}
	return slot
}

// GetBanner fetches the media of a section. A section the backend has never
// stored comes back empty.
func (c *StorefrontClient) GetBanner(ctx context.Context, token, section string) (*models.MediaSlot, error) {
	var resp bannerResponse
	if _, err := c.get(ctx, token, "/banner/"+pathID(section), nil, &resp); err != nil {
		if IsNotFound(err) {
			return models.NewMediaSlot(section), nil
		}
		return nil, err
	}
	return resp.toSlot(section), nil
}

// SaveBanner sends a composed banner submission: POST adds, PUT replaces
func (c *StorefrontClient) SaveBanner(ctx context.Context, token, section string, sub *composer.MediaSubmission) (*models.MediaSlot, error) {
	method := http.MethodPost
	switch sub.Operation {
	case composer.OperationCreate:
		method = http.MethodPost
	case composer.OperationUpdate:
		method = http.MethodPut
	default:
		return nil, fmt.Errorf("unknown banner operation %q", sub.Operation)
	}

	var resp bannerResponse
	if err := c.sendPayload(ctx, token, method, "/banner/"+pathID(section), sub.Payload, &resp); err != nil {
		return nil, err
	}
	return resp.toSlot(section), nil
}

// DeleteBannerMedia removes one stored media item from a section
func (c *StorefrontClient) DeleteBannerMedia(ctx context.Context, token, section, mediaURL string) error {
	body := map[string]string{"url": mediaURL}
	return c.sendJSON(ctx, token, http.MethodDelete, "/banner/"+pathID(section)+"/media", body, nil)
}
