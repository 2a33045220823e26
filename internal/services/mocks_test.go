package services

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
)

// MockStorefrontAPI is a mock implementation of clients.StorefrontAPI
type MockStorefrontAPI struct {
	mock.Mock
}

var _ clients.StorefrontAPI = (*MockStorefrontAPI)(nil)

func (m *MockStorefrontAPI) GetBanner(ctx context.Context, token, section string) (*models.MediaSlot, error) {
	args := m.Called(ctx, token, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaSlot), args.Error(1)
}

func (m *MockStorefrontAPI) SaveBanner(ctx context.Context, token, section string, sub *composer.MediaSubmission) (*models.MediaSlot, error) {
	args := m.Called(ctx, token, section, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaSlot), args.Error(1)
}

func (m *MockStorefrontAPI) DeleteBannerMedia(ctx context.Context, token, section, mediaURL string) error {
	args := m.Called(ctx, token, section, mediaURL)
	return args.Error(0)
}

func (m *MockStorefrontAPI) ListEvents(ctx context.Context, token string) ([]models.EventRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventRecord), args.Error(1)
}

func (m *MockStorefrontAPI) GetEvent(ctx context.Context, token, id string) (*models.EventRecord, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockStorefrontAPI) CreateEvent(ctx context.Context, token string, payload *composer.Payload) (*models.EventRecord, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockStorefrontAPI) UpdateEvent(ctx context.Context, token, id string, payload *composer.Payload) (*models.EventRecord, error) {
	args := m.Called(ctx, token, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockStorefrontAPI) DeleteEvent(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockStorefrontAPI) AddEventProduct(ctx context.Context, token, eventID, productID string) error {
	args := m.Called(ctx, token, eventID, productID)
	return args.Error(0)
}

func (m *MockStorefrontAPI) RemoveEventProduct(ctx context.Context, token, eventID, productID string) error {
	args := m.Called(ctx, token, eventID, productID)
	return args.Error(0)
}

func (m *MockStorefrontAPI) ListProducts(ctx context.Context, token string, params models.ProductListParams) (*models.ProductListResult, error) {
	args := m.Called(ctx, token, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductListResult), args.Error(1)
}

func (m *MockStorefrontAPI) GetProduct(ctx context.Context, token, id string) (*models.Product, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStorefrontAPI) CreateProduct(ctx context.Context, token string, payload *composer.Payload) (*models.Product, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStorefrontAPI) UpdateProduct(ctx context.Context, token, id string, payload *composer.Payload) (*models.Product, error) {
	args := m.Called(ctx, token, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStorefrontAPI) DeleteProduct(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockStorefrontAPI) ToggleProductField(ctx context.Context, token, id, field string) (*models.Product, error) {
	args := m.Called(ctx, token, id, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStorefrontAPI) GetPaymentSettings(ctx context.Context, token string) (*models.PaymentSettings, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSettings), args.Error(1)
}

func (m *MockStorefrontAPI) UpdatePaymentSettings(ctx context.Context, token string, payload *composer.Payload) (*models.PaymentSettings, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSettings), args.Error(1)
}

func (m *MockStorefrontAPI) GetShippingFee(ctx context.Context, token string) (*models.ShippingFee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingFee), args.Error(1)
}

func (m *MockStorefrontAPI) UpdateShippingFee(ctx context.Context, token string, fee *models.ShippingFee) (*models.ShippingFee, error) {
	args := m.Called(ctx, token, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingFee), args.Error(1)
}

func (m *MockStorefrontAPI) ListNotifications(ctx context.Context, token string, page, limit int) ([]models.Notification, *models.PaginationInfo, error) {
	args := m.Called(ctx, token, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var pagination *models.PaginationInfo
	if p := args.Get(1); p != nil {
		pagination = p.(*models.PaginationInfo)
	}
	return args.Get(0).([]models.Notification), pagination, args.Error(2)
}

func (m *MockStorefrontAPI) MarkNotificationRead(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockStorefrontAPI) MarkAllNotificationsRead(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockPublisher records audit events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAdminAction(ctx context.Context, eventType, resourceType, resourceID, actorID string, metadata map[string]interface{}) {
	m.Called(ctx, eventType, resourceType, resourceID, actorID, metadata)
}

// lateDraftStore runs beforeLock once, ahead of the first AcquireLock, so a
// competing request can finish while the caller waits for the lock
type lateDraftStore struct {
	repository.DraftStore
	fired      atomic.Bool
	beforeLock func()
}

func (s *lateDraftStore) AcquireLock(ctx context.Context, key string) (func(), error) {
	if s.fired.CompareAndSwap(false, true) {
		s.beforeLock()
	}
	return s.DraftStore.AcquireLock(ctx, key)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testSession = Session{Token: "tok", OperatorID: "op-1"}

func imageFile(index int, name string) models.FileUpload {
	return models.FileUpload{
		SelectionIndex: index,
		Filename:       name,
		ContentType:    "image/png",
		Kind:           models.MediaKindImage,
		Size:           3,
		Data:           []byte("png"),
	}
}

func videoFile(index int, name string) models.FileUpload {
	return models.FileUpload{
		SelectionIndex: index,
		Filename:       name,
		ContentType:    "video/mp4",
		Kind:           models.MediaKindVideo,
		Size:           3,
		Data:           []byte("mp4"),
	}
}

func remoteImages(urls ...string) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, models.MediaItem{Kind: models.MediaKindImage, URL: u})
	}
	return items
}

func slotWith(section string, items []models.MediaItem) *models.MediaSlot {
	slot := models.NewMediaSlot(section)
	slot.Items = items
	return slot
}
