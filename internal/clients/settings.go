package clients

import (
	"context"
	"net/http"

	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

// GetPaymentSettings fetches the payment (personal-info) settings
func (c *StorefrontClient) GetPaymentSettings(ctx context.Context, token string) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	if _, err := c.get(ctx, token, "/personal-info", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdatePaymentSettings submits payment settings, optionally with a new QR image
func (c *StorefrontClient) UpdatePaymentSettings(ctx context.Context, token string, payload *composer.Payload) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	if err := c.sendPayload(ctx, token, http.MethodPut, "/personal-info", payload, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetShippingFee fetches the delivery fee configuration
func (c *StorefrontClient) GetShippingFee(ctx context.Context, token string) (*models.ShippingFee, error) {
	var fee models.ShippingFee
	if _, err := c.get(ctx, token, "/personal-info/shipping-fee", nil, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// UpdateShippingFee replaces the delivery fee configuration
func (c *StorefrontClient) UpdateShippingFee(ctx context.Context, token string, fee *models.ShippingFee) (*models.ShippingFee, error) {
	var updated models.ShippingFee
	if err := c.sendJSON(ctx, token, http.MethodPut, "/personal-info/shipping-fee", fee, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
