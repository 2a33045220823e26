package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-admin-service/internal/middleware"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/validation"
)

// MockBannerEditor is a mock implementation of BannerEditor
type MockBannerEditor struct {
	mock.Mock
}

func (m *MockBannerEditor) GetSection(ctx context.Context, sess services.Session, section string) (*models.MediaSlot, error) {
	args := m.Called(ctx, sess, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaSlot), args.Error(1)
}

func (m *MockBannerEditor) GetDraft(ctx context.Context, sess services.Session, section string) (*models.BannerDraft, error) {
	args := m.Called(ctx, sess, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannerDraft), args.Error(1)
}

func (m *MockBannerEditor) AddMedia(ctx context.Context, sess services.Session, section string, files []models.FileUpload, youtubeLink string, mode validation.AddMode) (*models.BannerDraft, error) {
	args := m.Called(ctx, sess, section, files, youtubeLink, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannerDraft), args.Error(1)
}

func (m *MockBannerEditor) RemoveDraftItem(ctx context.Context, sess services.Session, section string, index int) (*models.BannerDraft, error) {
	args := m.Called(ctx, sess, section, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannerDraft), args.Error(1)
}

func (m *MockBannerEditor) RemoveSavedMedia(ctx context.Context, sess services.Session, section, mediaURL string) (*models.BannerDraft, error) {
	args := m.Called(ctx, sess, section, mediaURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannerDraft), args.Error(1)
}

func (m *MockBannerEditor) Discard(ctx context.Context, sess services.Session, section string) error {
	args := m.Called(ctx, sess, section)
	return args.Error(0)
}

func (m *MockBannerEditor) Save(ctx context.Context, sess services.Session, section string) (*services.BannerSaveResult, error) {
	args := m.Called(ctx, sess, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BannerSaveResult), args.Error(1)
}

// MockEventManager is a mock implementation of EventManager
type MockEventManager struct {
	mock.Mock
}

func (m *MockEventManager) List(ctx context.Context, sess services.Session) ([]models.EventRecord, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventRecord), args.Error(1)
}

func (m *MockEventManager) Get(ctx context.Context, sess services.Session, id string) (*models.EventRecord, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockEventManager) Create(ctx context.Context, sess services.Session, sub *models.EventSubmission) (*models.EventRecord, error) {
	args := m.Called(ctx, sess, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockEventManager) Update(ctx context.Context, sess services.Session, id string, sub *models.EventSubmission) (*models.EventRecord, error) {
	args := m.Called(ctx, sess, id, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockEventManager) Delete(ctx context.Context, sess services.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockEventManager) AddProduct(ctx context.Context, sess services.Session, eventID, productID string) (*models.EventRecord, error) {
	args := m.Called(ctx, sess, eventID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

func (m *MockEventManager) RemoveProduct(ctx context.Context, sess services.Session, eventID, productID string) (*models.EventRecord, error) {
	args := m.Called(ctx, sess, eventID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRecord), args.Error(1)
}

// MockProductManager is a mock implementation of ProductManager
type MockProductManager struct {
	mock.Mock
}

func (m *MockProductManager) List(ctx context.Context, sess services.Session, params models.ProductListParams) (*models.ProductListResult, error) {
	args := m.Called(ctx, sess, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductListResult), args.Error(1)
}

func (m *MockProductManager) Export(ctx context.Context, sess services.Session, search string) (*bytes.Buffer, error) {
	args := m.Called(ctx, sess, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bytes.Buffer), args.Error(1)
}

func (m *MockProductManager) Get(ctx context.Context, sess services.Session, id string) (*models.Product, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductManager) Delete(ctx context.Context, sess services.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockProductManager) Toggle(ctx context.Context, sess services.Session, id, field string) (*models.Product, error) {
	args := m.Called(ctx, sess, id, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductManager) CreateDraft(ctx context.Context, sess services.Session, productID string) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) GetDraft(ctx context.Context, sess services.Session, draftID string) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) UpdateDraft(ctx context.Context, sess services.Session, draftID string, req *models.UpdateProductDraftRequest) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, draftID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) AddImages(ctx context.Context, sess services.Session, draftID string, files []models.FileUpload) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, draftID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) RemoveImage(ctx context.Context, sess services.Session, draftID, url string, index *int) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, draftID, url, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) RestoreImage(ctx context.Context, sess services.Session, draftID, url string) (*models.ProductDraft, error) {
	args := m.Called(ctx, sess, draftID, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockProductManager) DiscardDraft(ctx context.Context, sess services.Session, draftID string) error {
	args := m.Called(ctx, sess, draftID)
	return args.Error(0)
}

func (m *MockProductManager) SubmitDraft(ctx context.Context, sess services.Session, draftID string) (*models.Product, error) {
	args := m.Called(ctx, sess, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// MockSettingsManager is a mock implementation of SettingsManager
type MockSettingsManager struct {
	mock.Mock
}

func (m *MockSettingsManager) GetPayment(ctx context.Context, sess services.Session) (*models.PaymentSettings, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSettings), args.Error(1)
}

func (m *MockSettingsManager) UpdatePayment(ctx context.Context, sess services.Session, req *models.UpdatePaymentSettingsRequest, qr *models.FileUpload) (*models.PaymentSettings, error) {
	args := m.Called(ctx, sess, req, qr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSettings), args.Error(1)
}

func (m *MockSettingsManager) GetShippingFee(ctx context.Context, sess services.Session) (*models.ShippingFee, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingFee), args.Error(1)
}

func (m *MockSettingsManager) UpdateShippingFee(ctx context.Context, sess services.Session, fee *models.ShippingFee) (*models.ShippingFee, error) {
	args := m.Called(ctx, sess, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingFee), args.Error(1)
}

// MockNotificationFeed is a mock implementation of NotificationFeed
type MockNotificationFeed struct {
	mock.Mock
}

func (m *MockNotificationFeed) List(ctx context.Context, sess services.Session, page, limit int) ([]models.Notification, *models.PaginationInfo, error) {
	args := m.Called(ctx, sess, page, limit)
	var items []models.Notification
	if v := args.Get(0); v != nil {
		items = v.([]models.Notification)
	}
	var pagination *models.PaginationInfo
	if v := args.Get(1); v != nil {
		pagination = v.(*models.PaginationInfo)
	}
	return items, pagination, args.Error(2)
}

func (m *MockNotificationFeed) MarkRead(ctx context.Context, sess services.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockNotificationFeed) MarkAllRead(ctx context.Context, sess services.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

var testSession = services.Session{Token: "tok", OperatorID: "op-1", DraftOwner: "op-1"}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestRouter returns a router whose requests carry testSession
func setupTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.SessionTokenKey, testSession.Token)
		c.Set(middleware.OperatorIDKey, testSession.OperatorID)
		c.Set(middleware.DraftOwnerKey, testSession.DraftOwner)
		c.Next()
	})
	return r, api
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, method, target string, values map[string][]string, files []formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
