package clients

import (
	"context"

	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

// StorefrontAPI is the storefront backend surface used by the services
type StorefrontAPI interface {
	GetBanner(ctx context.Context, token, section string) (*models.MediaSlot, error)
	SaveBanner(ctx context.Context, token, section string, sub *composer.MediaSubmission) (*models.MediaSlot, error)
	DeleteBannerMedia(ctx context.Context, token, section, mediaURL string) error

	ListEvents(ctx context.Context, token string) ([]models.EventRecord, error)
	GetEvent(ctx context.Context, token, id string) (*models.EventRecord, error)
	CreateEvent(ctx context.Context, token string, payload *composer.Payload) (*models.EventRecord, error)
	UpdateEvent(ctx context.Context, token, id string, payload *composer.Payload) (*models.EventRecord, error)
	DeleteEvent(ctx context.Context, token, id string) error
	AddEventProduct(ctx context.Context, token, eventID, productID string) error
	RemoveEventProduct(ctx context.Context, token, eventID, productID string) error

	ListProducts(ctx context.Context, token string, params models.ProductListParams) (*models.ProductListResult, error)
	GetProduct(ctx context.Context, token, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, payload *composer.Payload) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, payload *composer.Payload) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	ToggleProductField(ctx context.Context, token, id, field string) (*models.Product, error)

	GetPaymentSettings(ctx context.Context, token string) (*models.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, token string, payload *composer.Payload) (*models.PaymentSettings, error)
	GetShippingFee(ctx context.Context, token string) (*models.ShippingFee, error)
	UpdateShippingFee(ctx context.Context, token string, fee *models.ShippingFee) (*models.ShippingFee, error)

	ListNotifications(ctx context.Context, token string, page, limit int) ([]models.Notification, *models.PaginationInfo, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
	MarkAllNotificationsRead(ctx context.Context, token string) error
}

var _ StorefrontAPI = (*StorefrontClient)(nil)
