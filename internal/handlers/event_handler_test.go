package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/uploads"
	"storefront-admin-service/internal/validation"
)

func setupEventHandler() (*MockEventManager, http.Handler) {
	manager := new(MockEventManager)
	r, api := setupTestRouter()
	NewEventHandler(manager, uploads.NewIntake(5<<20), testLogger()).RegisterRoutes(api)
	return manager, r
}

func TestEventHandler_CreateEvent(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("Create", mock.Anything, testSession, mock.MatchedBy(func(sub *models.EventSubmission) bool {
		return sub.Title != nil && *sub.Title == "Eid Sale" &&
			assert.ObjectsAreEqual([]string{"p1", "p2"}, sub.ProductIDs) &&
			sub.PopupImage != nil && sub.PopupImage.Filename == "popup.png" &&
			len(sub.BannerImages) == 2 && sub.BannerImages[1].Filename == "b2.png"
	})).Return(&models.EventRecord{ID: "e1", Title: "Eid Sale"}, nil)

	img := pngBytes(t, 3, 3)
	req := multipartRequest(t, http.MethodPost, "/api/v1/events",
		map[string][]string{"title": {"Eid Sale"}, "products": {`["p1","p2"]`}},
		[]formFile{
			{field: "popupImage", filename: "popup.png", contentType: "image/png", data: img},
			{field: "bannerImages", filename: "b1.png", contentType: "image/png", data: img},
			{field: "bannerImages", filename: "b2.png", contentType: "image/png", data: img},
		})
	w := perform(r, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	manager.AssertExpectations(t)
}

func TestEventHandler_CreateEventAtLimit(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("Create", mock.Anything, testSession, mock.Anything).
		Return(nil, &validation.Error{Code: validation.CodeEventLimit, Field: "event", Message: validation.MsgEventLimitReached})

	req := multipartRequest(t, http.MethodPost, "/api/v1/events",
		map[string][]string{"title": {"Third"}}, nil)
	w := perform(r, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), validation.MsgEventLimitReached)
}

func TestEventHandler_UpdateKeepsAbsentFields(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("Update", mock.Anything, testSession, "e1", mock.MatchedBy(func(sub *models.EventSubmission) bool {
		return sub.Title == nil && sub.PopupImage == nil && len(sub.BannerImages) == 0 &&
			assert.ObjectsAreEqual([]string{"p3", "p4"}, sub.ProductIDs)
	})).Return(&models.EventRecord{ID: "e1"}, nil)

	req := multipartRequest(t, http.MethodPut, "/api/v1/events/e1",
		map[string][]string{"products": {"p3", "p4"}}, nil)
	w := perform(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	manager.AssertExpectations(t)
}

func TestEventHandler_CreateEventRequiresMultipart(t *testing.T) {
	manager, r := setupEventHandler()

	w := perform(r, jsonRequest(http.MethodPost, "/api/v1/events", `{"title":"x"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	manager.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventHandler_AddProductDuplicate(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("AddProduct", mock.Anything, testSession, "e1", "p1").
		Return(nil, &validation.Error{Code: validation.CodeDuplicateProduct, Field: "productId", Message: "This product is already part of the event"})

	w := perform(r, jsonRequest(http.MethodPost, "/api/v1/events/e1/products", `{"productId":"p1"}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), validation.CodeDuplicateProduct)
}

func TestEventHandler_AddProductMissingID(t *testing.T) {
	_, r := setupEventHandler()

	w := perform(r, jsonRequest(http.MethodPost, "/api/v1/events/e1/products", `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_RemoveProductAndDelete(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("RemoveProduct", mock.Anything, testSession, "e1", "p1").
		Return(&models.EventRecord{ID: "e1", Products: []models.EventProduct{}}, nil)
	manager.On("Delete", mock.Anything, testSession, "e1").Return(nil)

	w := perform(r, httptest.NewRequest(http.MethodDelete, "/api/v1/events/e1/products/p1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, httptest.NewRequest(http.MethodDelete, "/api/v1/events/e1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event deleted")
	manager.AssertExpectations(t)
}

func TestEventHandler_ListEvents(t *testing.T) {
	manager, r := setupEventHandler()

	manager.On("List", mock.Anything, testSession).Return([]models.EventRecord{{ID: "e1"}, {ID: "e2"}}, nil)

	w := perform(r, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"e2"`)
}
