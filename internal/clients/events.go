package clients

import (
	"context"
	"net/http"

	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

// ListEvents fetches every live event
func (c *StorefrontClient) ListEvents(ctx context.Context, token string) ([]models.EventRecord, error) {
	events := []models.EventRecord{}
	if _, err := c.get(ctx, token, "/event", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches one event
func (c *StorefrontClient) GetEvent(ctx context.Context, token, id string) (*models.EventRecord, error) {
	var event models.EventRecord
	if _, err := c.get(ctx, token, "/event/"+pathID(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent submits a composed event create payload
func (c *StorefrontClient) CreateEvent(ctx context.Context, token string, payload *composer.Payload) (*models.EventRecord, error) {
	var event models.EventRecord
	if err := c.sendPayload(ctx, token, http.MethodPost, "/event", payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent submits the changed fields of an event
func (c *StorefrontClient) UpdateEvent(ctx context.Context, token, id string, payload *composer.Payload) (*models.EventRecord, error) {
	var event models.EventRecord
	if err := c.sendPayload(ctx, token, http.MethodPut, "/event/"+pathID(id), payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event and its product associations
func (c *StorefrontClient) DeleteEvent(ctx context.Context, token, id string) error {
	return c.sendJSON(ctx, token, http.MethodDelete, "/event/"+pathID(id), nil, nil)
}

// AddEventProduct associates a product with an event
func (c *StorefrontClient) AddEventProduct(ctx context.Context, token, eventID, productID string) error {
	body := models.AddEventProductRequest{ProductID: productID}
	return c.sendJSON(ctx, token, http.MethodPost, "/event/"+pathID(eventID)+"/product", body, nil)
}

// RemoveEventProduct drops a product association from an event
func (c *StorefrontClient) RemoveEventProduct(ctx context.Context, token, eventID, productID string) error {
	return c.sendJSON(ctx, token, http.MethodDelete, "/event/"+pathID(eventID)+"/product/"+pathID(productID), nil, nil)
}
