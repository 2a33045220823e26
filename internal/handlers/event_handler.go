package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/uploads"
)

// EventManager is the event workflow used by EventHandler
type EventManager interface {
	List(ctx context.Context, sess services.Session) ([]models.EventRecord, error)
	Get(ctx context.Context, sess services.Session, id string) (*models.EventRecord, error)
	Create(ctx context.Context, sess services.Session, sub *models.EventSubmission) (*models.EventRecord, error)
	Update(ctx context.Context, sess services.Session, id string, sub *models.EventSubmission) (*models.EventRecord, error)
	Delete(ctx context.Context, sess services.Session, id string) error
	AddProduct(ctx context.Context, sess services.Session, eventID, productID string) (*models.EventRecord, error)
	RemoveProduct(ctx context.Context, sess services.Session, eventID, productID string) (*models.EventRecord, error)
}

type EventHandler struct {
	events EventManager
	intake *uploads.Intake
	logger *logrus.Entry
}

func NewEventHandler(events EventManager, intake *uploads.Intake, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		intake: intake,
		logger: logger.WithField("component", "event_handler"),
	}
}

func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.POST("", h.CreateEvent)
		events.GET("/:id", h.GetEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/:id/products", h.AddProduct)
		events.DELETE("/:id/products/:productId", h.RemoveProduct)
	}
}

// ListEvents lists the live promotional events
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=[]models.EventRecord}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	list, err := h.events.List(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, list)
}

// GetEvent returns one event with its products
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.SuccessResponse{data=models.EventRecord}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// CreateEvent creates an event unless two are already live
// @Summary Create event
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Event title"
// @Param popupImage formData file true "Popup image"
// @Param bannerImages formData file true "Banner images (repeatable)"
// @Param products formData string false "Product IDs, JSON array or repeated"
// @Success 201 {object} models.SuccessResponse{data=models.EventRecord}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}
	created, err := h.events.Create(c.Request.Context(), sessionFrom(c), sub)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// UpdateEvent resubmits the changed fields of an event
// @Summary Update event
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Param title formData string false "Event title"
// @Param popupImage formData file false "Popup image"
// @Param bannerImages formData file false "Banner images (repeatable)"
// @Param products formData string false "Product IDs, JSON array or repeated"
// @Success 200 {object} models.SuccessResponse{data=models.EventRecord}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}
	updated, err := h.events.Update(c.Request.Context(), sessionFrom(c), c.Param("id"), sub)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DeleteEvent removes an event
// @Summary Delete event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Event deleted")
}

// AddProduct associates a product with an event
// @Summary Add product to event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body models.AddEventProductRequest true "Product"
// @Success 200 {object} models.SuccessResponse{data=models.EventRecord}
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/products [post]
func (h *EventHandler) AddProduct(c *gin.Context) {
	var req models.AddEventProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	event, err := h.events.AddProduct(c.Request.Context(), sessionFrom(c), c.Param("id"), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// RemoveProduct drops a product association
// @Summary Remove product from event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} models.SuccessResponse{data=models.EventRecord}
// @Security BearerAuth
// @Router /events/{id}/products/{productId} [delete]
func (h *EventHandler) RemoveProduct(c *gin.Context) {
	event, err := h.events.RemoveProduct(c.Request.Context(), sessionFrom(c), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// bindSubmission reads an event form. Absent fields stay nil so that an
// update keeps what the backend already has.
func (h *EventHandler) bindSubmission(c *gin.Context) (*models.EventSubmission, bool) {
	if !isMultipart(c) {
		respondBadRequest(c, "INVALID_INPUT", "Expected multipart/form-data")
		return nil, false
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "INVALID_INPUT", "Invalid multipart form")
		return nil, false
	}

	sub := &models.EventSubmission{}
	if vals, ok := form.Value["title"]; ok && len(vals) > 0 {
		title := vals[0]
		sub.Title = &title
	}

	ids, err := productIDsFrom(form)
	if err != nil {
		respondBadRequest(c, "INVALID_INPUT", "products must be a JSON array of IDs")
		return nil, false
	}
	sub.ProductIDs = ids

	if headers := form.File["popupImage"]; len(headers) > 0 {
		popup, err := h.intake.ReadOne("popupImage", headers[0], 0)
		if err != nil {
			respondError(c, h.logger, err)
			return nil, false
		}
		sub.PopupImage = popup
	}

	sub.BannerImages, err = h.intake.Read("bannerImages", form.File["bannerImages"])
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return sub, true
}

// productIDsFrom accepts either one JSON array value or repeated plain values
func productIDsFrom(form *multipart.Form) ([]string, error) {
	vals, ok := form.Value["products"]
	if !ok {
		return nil, nil
	}
	if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
		var ids []string
		if err := json.Unmarshal([]byte(vals[0]), &ids); err != nil {
			return nil, err
		}
		return ids, nil
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, v)
		}
	}
	return ids, nil
}
