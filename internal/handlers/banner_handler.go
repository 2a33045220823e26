package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/uploads"
	"storefront-admin-service/internal/validation"
)

// BannerEditor is the banner workflow used by BannerHandler
type BannerEditor interface {
	GetSection(ctx context.Context, sess services.Session, section string) (*models.MediaSlot, error)
	GetDraft(ctx context.Context, sess services.Session, section string) (*models.BannerDraft, error)
	AddMedia(ctx context.Context, sess services.Session, section string, files []models.FileUpload, youtubeLink string, mode validation.AddMode) (*models.BannerDraft, error)
	RemoveDraftItem(ctx context.Context, sess services.Session, section string, index int) (*models.BannerDraft, error)
	RemoveSavedMedia(ctx context.Context, sess services.Session, section, mediaURL string) (*models.BannerDraft, error)
	Discard(ctx context.Context, sess services.Session, section string) error
	Save(ctx context.Context, sess services.Session, section string) (*services.BannerSaveResult, error)
}

type BannerHandler struct {
	banners BannerEditor
	intake  *uploads.Intake
	logger  *logrus.Entry
}

// AddBannerMediaRequest is the JSON form of a media add, used when no files are attached
type AddBannerMediaRequest struct {
	YouTubeLink string `json:"youtubeLink" form:"youtubeLink"`
	Mode        string `json:"mode" form:"mode"`
}

// RemoveMediaRequest identifies a saved media item by URL
type RemoveMediaRequest struct {
	URL string `json:"url" binding:"required"`
}

func NewBannerHandler(banners BannerEditor, intake *uploads.Intake, logger *logrus.Logger) *BannerHandler {
	return &BannerHandler{
		banners: banners,
		intake:  intake,
		logger:  logger.WithField("component", "banner_handler"),
	}
}

func (h *BannerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	banners := rg.Group("/banners/:name")
	{
		banners.GET("", h.GetSection)
		banners.GET("/draft", h.GetDraft)
		banners.DELETE("/draft", h.DiscardDraft)
		banners.POST("/draft/media", h.AddMedia)
		banners.DELETE("/draft/media/:index", h.RemoveDraftItem)
		banners.DELETE("/media", h.RemoveSavedMedia)
		banners.POST("/save", h.Save)
	}
}

func respondDraft(c *gin.Context, draft *models.BannerDraft) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    draft.Redacted(),
		Warning: draft.Warning,
	})
}

// GetSection returns the media currently stored for a banner section
// @Summary Get banner section
// @Description Get the media currently stored for a banner section
// @Tags banners
// @Produce json
// @Param name path string true "Section name"
// @Success 200 {object} models.SuccessResponse{data=models.MediaSlot}
// @Failure 401 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name} [get]
func (h *BannerHandler) GetSection(c *gin.Context) {
	slot, err := h.banners.GetSection(c.Request.Context(), sessionFrom(c), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, slot)
}

// GetDraft returns the operator's in-progress edit of a section
// @Summary Get banner draft
// @Tags banners
// @Produce json
// @Param name path string true "Section name"
// @Success 200 {object} models.SuccessResponse{data=models.BannerDraft}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name}/draft [get]
func (h *BannerHandler) GetDraft(c *gin.Context) {
	draft, err := h.banners.GetDraft(c.Request.Context(), sessionFrom(c), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondDraft(c, draft)
}

// DiscardDraft drops the operator's pending changes for a section
// @Summary Discard banner draft
// @Tags banners
// @Produce json
// @Param name path string true "Section name"
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /banners/{name}/draft [delete]
func (h *BannerHandler) DiscardDraft(c *gin.Context) {
	if err := h.banners.Discard(c.Request.Context(), sessionFrom(c), c.Param("name")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Draft discarded")
}

// AddMedia validates and stages files or a YouTube link for a section
// @Summary Add media to banner draft
// @Description Stage images, a video or a YouTube link. mode=replace swaps out the current media.
// @Tags banners
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param name path string true "Section name"
// @Param media formData file false "Media files (repeatable)"
// @Param youtubeLink formData string false "YouTube link"
// @Param mode formData string false "add or replace"
// @Success 200 {object} models.SuccessResponse{data=models.BannerDraft}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name}/draft/media [post]
func (h *BannerHandler) AddMedia(c *gin.Context) {
	var req AddBannerMediaRequest
	var files []models.FileUpload

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			respondBadRequest(c, "INVALID_INPUT", "Invalid multipart form")
			return
		}
		req.YouTubeLink = firstValue(form, "youtubeLink")
		req.Mode = firstValue(form, "mode")
		files, err = h.intake.Read("media", form.File["media"])
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}

	draft, err := h.banners.AddMedia(c.Request.Context(), sessionFrom(c), c.Param("name"),
		files, strings.TrimSpace(req.YouTubeLink), validation.ParseAddMode(req.Mode))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondDraft(c, draft)
}

// RemoveDraftItem unstages one pending item
// @Summary Remove pending banner item
// @Tags banners
// @Produce json
// @Param name path string true "Section name"
// @Param index path int true "Pending item index"
// @Success 200 {object} models.SuccessResponse{data=models.BannerDraft}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name}/draft/media/{index} [delete]
func (h *BannerHandler) RemoveDraftItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondBadRequest(c, "INVALID_INDEX", "Index must be a non-negative integer")
		return
	}
	draft, err := h.banners.RemoveDraftItem(c.Request.Context(), sessionFrom(c), c.Param("name"), index)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondDraft(c, draft)
}

// RemoveSavedMedia deletes a stored media item at the backend
// @Summary Remove saved banner media
// @Tags banners
// @Accept json
// @Produce json
// @Param name path string true "Section name"
// @Param request body RemoveMediaRequest true "Media URL"
// @Success 200 {object} models.SuccessResponse{data=models.BannerDraft}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name}/media [delete]
func (h *BannerHandler) RemoveSavedMedia(c *gin.Context) {
	var req RemoveMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	draft, err := h.banners.RemoveSavedMedia(c.Request.Context(), sessionFrom(c), c.Param("name"), req.URL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondDraft(c, draft)
}

// Save submits the draft to the storefront backend
// @Summary Save banner section
// @Description Create (POST) or update (PUT) the section depending on its current contents
// @Tags banners
// @Produce json
// @Param name path string true "Section name"
// @Success 200 {object} models.SuccessResponse{data=services.BannerSaveResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /banners/{name}/save [post]
func (h *BannerHandler) Save(c *gin.Context) {
	result, err := h.banners.Save(c.Request.Context(), sessionFrom(c), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func firstValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
