package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/uploads"
)

// SettingsManager is the storefront settings workflow used by SettingsHandler
type SettingsManager interface {
	GetPayment(ctx context.Context, sess services.Session) (*models.PaymentSettings, error)
	UpdatePayment(ctx context.Context, sess services.Session, req *models.UpdatePaymentSettingsRequest, qr *models.FileUpload) (*models.PaymentSettings, error)
	GetShippingFee(ctx context.Context, sess services.Session) (*models.ShippingFee, error)
	UpdateShippingFee(ctx context.Context, sess services.Session, fee *models.ShippingFee) (*models.ShippingFee, error)
}

type SettingsHandler struct {
	settings SettingsManager
	intake   *uploads.Intake
	logger   *logrus.Entry
}

func NewSettingsHandler(settings SettingsManager, intake *uploads.Intake, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		intake:   intake,
		logger:   logger.WithField("component", "settings_handler"),
	}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("/payment", h.GetPayment)
		settings.PUT("/payment", h.UpdatePayment)
		settings.GET("/shipping-fee", h.GetShippingFee)
		settings.PUT("/shipping-fee", h.UpdateShippingFee)
	}
}

// GetPayment returns the payment settings
// @Summary Get payment settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.PaymentSettings}
// @Security BearerAuth
// @Router /settings/payment [get]
func (h *SettingsHandler) GetPayment(c *gin.Context) {
	settings, err := h.settings.GetPayment(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// UpdatePayment updates the payment settings with an optional QR image
// @Summary Update payment settings
// @Tags settings
// @Accept multipart/form-data
// @Produce json
// @Param accountName formData string true "Account name"
// @Param accountNumber formData string true "Account number"
// @Param bankName formData string true "Bank name"
// @Param qrImage formData file false "Payment QR image"
// @Success 200 {object} models.SuccessResponse{data=models.PaymentSettings}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /settings/payment [put]
func (h *SettingsHandler) UpdatePayment(c *gin.Context) {
	var req models.UpdatePaymentSettingsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}

	var qr *models.FileUpload
	if isMultipart(c) {
		if header, err := c.FormFile("qrImage"); err == nil {
			qr, err = h.intake.ReadOne("qrImage", header, 0)
			if err != nil {
				respondError(c, h.logger, err)
				return
			}
		}
	}

	settings, err := h.settings.UpdatePayment(c.Request.Context(), sessionFrom(c), &req, qr)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// GetShippingFee returns the delivery fee configuration
// @Summary Get shipping fee
// @Tags settings
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.ShippingFee}
// @Security BearerAuth
// @Router /settings/shipping-fee [get]
func (h *SettingsHandler) GetShippingFee(c *gin.Context) {
	fee, err := h.settings.GetShippingFee(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, fee)
}

// UpdateShippingFee replaces the delivery fee configuration
// @Summary Update shipping fee
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.ShippingFee true "Shipping fee"
// @Success 200 {object} models.SuccessResponse{data=models.ShippingFee}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /settings/shipping-fee [put]
func (h *SettingsHandler) UpdateShippingFee(c *gin.Context) {
	var fee models.ShippingFee
	if err := c.ShouldBindJSON(&fee); err != nil {
		respondBadRequest(c, "INVALID_INPUT", err.Error())
		return
	}
	updated, err := h.settings.UpdateShippingFee(c.Request.Context(), sessionFrom(c), &fee)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}
