package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/uploads"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductManager is the catalog and draft workflow used by ProductHandler
type ProductManager interface {
	List(ctx context.Context, sess services.Session, params models.ProductListParams) (*models.ProductListResult, error)
	Export(ctx context.Context, sess services.Session, search string) (*bytes.Buffer, error)
	Get(ctx context.Context, sess services.Session, id string) (*models.Product, error)
	Delete(ctx context.Context, sess services.Session, id string) error
	Toggle(ctx context.Context, sess services.Session, id, field string) (*models.Product, error)
	CreateDraft(ctx context.Context, sess services.Session, productID string) (*models.ProductDraft, error)
	GetDraft(ctx context.Context, sess services.Session, draftID string) (*models.ProductDraft, error)
	UpdateDraft(ctx context.Context, sess services.Session, draftID string, req *models.UpdateProductDraftRequest) (*models.ProductDraft, error)
	AddImages(ctx context.Context, sess services.Session, draftID string, files []models.FileUpload) (*models.ProductDraft, error)
	RemoveImage(ctx context.Context, sess services.Session, draftID, url string, index *int) (*models.ProductDraft, error)
	RestoreImage(ctx context.Context, sess services.Session, draftID, url string) (*models.ProductDraft, error)
	DiscardDraft(ctx context.Context, sess services.Session, draftID string) error
	SubmitDraft(ctx context.Context, sess services.Session, draftID string) (*models.Product, error)
}

type ProductHandler struct {
	products ProductManager
	intake   *uploads.Intake
	logger   *logrus.Entry
}

// CreateDraftRequest starts a draft; ProductID hydrates it from an existing product
type CreateDraftRequest struct {
	ProductID string `json:"productId"`
}

// RemoveImageRequest identifies a draft image by URL or by position
type RemoveImageRequest struct {
	URL   string `json:"url"`
	Index *int   `json:"index"`
}

func NewProductHandler(products ProductManager, intake *uploads.Intake, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		intake:   intake,
		logger:   logger.WithField("component", "product_handler"),
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/export", h.ExportProducts)
		products.GET("/:id", h.GetProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.PATCH("/:id/toggle", h.ToggleProduct)

		drafts := products.Group("/drafts")
		{
			drafts.POST("", h.CreateDraft)
			drafts.GET("/:draftId", h.GetDraft)
			drafts.PUT("/:draftId", h.UpdateDraft)
			drafts.DELETE("/:draftId", h.DiscardDraft)
			drafts.POST("/:draftId/images", h.AddImages)
			drafts.DELETE("/:draftId/images", h.RemoveImage)
			drafts.POST("/:draftId/images/restore", h.RestoreImage)
			drafts.POST("/:draftId/submit", h.SubmitDraft)
		}
	}
}

// ListProducts lists catalog products
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Search term"
// @Success 200 {object} models.SuccessResponse{data=[]models.Product}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := models.ProductListParams{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Search: c.Query("search"),
	}
	result, err := h.products.List(c.Request.Context(), sessionFrom(c), params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success:    true,
		Data:       result.Products,
		Pagination: result.Pagination,
	})
}

// ExportProducts downloads the catalog as an Excel workbook
// @Summary Export products
// @Tags products
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search term"
// @Success 200 {file} file
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/export [get]
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	buf, err := h.products.Export(c.Request.Context(), sessionFrom(c), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetProduct returns one product
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, product)
}

// DeleteProduct removes a product
// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Product deleted")
}

// ToggleProduct flips isFeatured, isBestSeller or isActive
// @Summary Toggle product flag
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.ToggleProductFieldRequest true "Field to toggle"
// @Success 200 {object} models.SuccessResponse{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/toggle [patch]
func (h *ProductHandler) ToggleProduct(c *gin.Context) {
	var req models.ToggleProductFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	product, err := h.products.Toggle(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Field)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, product)
}

// CreateDraft starts a product draft, empty or from an existing product
// @Summary Create product draft
// @Tags product-drafts
// @Accept json
// @Produce json
// @Param request body CreateDraftRequest false "Existing product to edit"
// @Success 201 {object} models.SuccessResponse{data=models.ProductDraft}
// @Security BearerAuth
// @Router /products/drafts [post]
func (h *ProductHandler) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "INVALID_INPUT", err.Error())
			return
		}
	}
	draft, err := h.products.CreateDraft(c.Request.Context(), sessionFrom(c), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, draft.Redacted())
}

// GetDraft returns a product draft
// @Summary Get product draft
// @Tags product-drafts
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.SuccessResponse{data=models.ProductDraft}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId} [get]
func (h *ProductHandler) GetDraft(c *gin.Context) {
	draft, err := h.products.GetDraft(c.Request.Context(), sessionFrom(c), c.Param("draftId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft.Redacted())
}

// UpdateDraft patches the non-image fields of a draft
// @Summary Update product draft
// @Tags product-drafts
// @Accept json
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param request body models.UpdateProductDraftRequest true "Changed fields"
// @Success 200 {object} models.SuccessResponse{data=models.ProductDraft}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId} [put]
func (h *ProductHandler) UpdateDraft(c *gin.Context) {
	var req models.UpdateProductDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	draft, err := h.products.UpdateDraft(c.Request.Context(), sessionFrom(c), c.Param("draftId"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft.Redacted())
}

// DiscardDraft drops a product draft
// @Summary Discard product draft
// @Tags product-drafts
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId} [delete]
func (h *ProductHandler) DiscardDraft(c *gin.Context) {
	if err := h.products.DiscardDraft(c.Request.Context(), sessionFrom(c), c.Param("draftId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Draft discarded")
}

// AddImages stages new image files on a draft
// @Summary Add draft images
// @Tags product-drafts
// @Accept multipart/form-data
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param images formData file true "Image files (repeatable)"
// @Success 200 {object} models.SuccessResponse{data=models.ProductDraft}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId}/images [post]
func (h *ProductHandler) AddImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "INVALID_INPUT", "Expected multipart/form-data with images")
		return
	}
	files, err := h.intake.Read("images", form.File["images"])
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	draft, err := h.products.AddImages(c.Request.Context(), sessionFrom(c), c.Param("draftId"), files)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft.Redacted())
}

// RemoveImage removes a draft image by URL or index
// @Summary Remove draft image
// @Tags product-drafts
// @Accept json
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param request body RemoveImageRequest true "Image to remove"
// @Success 200 {object} models.SuccessResponse{data=models.ProductDraft}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId}/images [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	var req RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	if req.URL == "" && req.Index == nil {
		respondBadRequest(c, "INVALID_INPUT", "url or index is required")
		return
	}
	draft, err := h.products.RemoveImage(c.Request.Context(), sessionFrom(c), c.Param("draftId"), req.URL, req.Index)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft.Redacted())
}

// RestoreImage puts a removed remote image back on the draft
// @Summary Restore draft image
// @Tags product-drafts
// @Accept json
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param request body RemoveMediaRequest true "Image URL"
// @Success 200 {object} models.SuccessResponse{data=models.ProductDraft}
// @Security BearerAuth
// @Router /products/drafts/{draftId}/images/restore [post]
func (h *ProductHandler) RestoreImage(c *gin.Context) {
	var req RemoveMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	draft, err := h.products.RestoreImage(c.Request.Context(), sessionFrom(c), c.Param("draftId"), req.URL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft.Redacted())
}

// SubmitDraft creates or updates the product at the backend
// @Summary Submit product draft
// @Tags product-drafts
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.SuccessResponse{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/drafts/{draftId}/submit [post]
func (h *ProductHandler) SubmitDraft(c *gin.Context) {
	product, err := h.products.SubmitDraft(c.Request.Context(), sessionFrom(c), c.Param("draftId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, product)
}
