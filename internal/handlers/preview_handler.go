package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/previews"
	"storefront-admin-service/internal/uploads"
)

// PreviewRenderer renders thumbnails for a picker selection
type PreviewRenderer interface {
	Generate(ctx context.Context, files []models.FileUpload) ([]previews.Preview, error)
}

type PreviewHandler struct {
	renderer PreviewRenderer
	intake   *uploads.Intake
	logger   *logrus.Entry
}

func NewPreviewHandler(renderer PreviewRenderer, intake *uploads.Intake, logger *logrus.Logger) *PreviewHandler {
	return &PreviewHandler{
		renderer: renderer,
		intake:   intake,
		logger:   logger.WithField("component", "preview_handler"),
	}
}

func (h *PreviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/previews", h.CreatePreviews)
}

// CreatePreviews renders data-URL thumbnails in selection order
// @Summary Preview selected files
// @Description Render thumbnails for images; videos are returned without a data URL
// @Tags previews
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Selected files (repeatable)"
// @Success 200 {object} models.SuccessResponse{data=[]previews.Preview}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /previews [post]
func (h *PreviewHandler) CreatePreviews(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "INVALID_INPUT", "Expected multipart/form-data with files")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respondBadRequest(c, "NO_FILE", "No files uploaded")
		return
	}

	files, err := h.intake.Read("files", headers)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.renderer.Generate(c.Request.Context(), files)
	if err != nil {
		if c.Request.Context().Err() != nil {
			respondError(c, h.logger, err)
			return
		}
		h.logger.WithError(err).Debug("Preview rejected")
		respondBadRequest(c, "PREVIEW_FAILED", err.Error())
		return
	}
	respondOK(c, http.StatusOK, result)
}
