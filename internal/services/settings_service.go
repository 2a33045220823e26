package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/events"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/validation"
)

// SettingsService manages payment and shipping fee settings
type SettingsService struct {
	api       clients.StorefrontAPI
	publisher AuditPublisher
	logger    *logrus.Entry
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(api clients.StorefrontAPI, publisher AuditPublisher, logger *logrus.Logger) *SettingsService {
	return &SettingsService{
		api:       api,
		publisher: publisherOrNoop(publisher),
		logger:    logger.WithField("component", "settings_service"),
	}
}

func (s *SettingsService) GetPayment(ctx context.Context, sess Session) (*models.PaymentSettings, error) {
	return s.api.GetPaymentSettings(ctx, sess.Token)
}

// UpdatePayment saves the payment settings; qr is optional
func (s *SettingsService) UpdatePayment(ctx context.Context, sess Session, req *models.UpdatePaymentSettingsRequest, qr *models.FileUpload) (*models.PaymentSettings, error) {
	if err := validation.ValidatePaymentSettings(req, qr); err != nil {
		return nil, err
	}
	settings, err := s.api.UpdatePaymentSettings(ctx, sess.Token, composer.ComposePaymentSettings(req, qr))
	if err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.SettingsUpdated, "settings", "payment", sess.OperatorID,
		map[string]interface{}{"qrImage": qr != nil})
	return settings, nil
}

func (s *SettingsService) GetShippingFee(ctx context.Context, sess Session) (*models.ShippingFee, error) {
	return s.api.GetShippingFee(ctx, sess.Token)
}

func (s *SettingsService) UpdateShippingFee(ctx context.Context, sess Session, fee *models.ShippingFee) (*models.ShippingFee, error) {
	if err := validation.ValidateShippingFee(fee); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateShippingFee(ctx, sess.Token, fee)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.SettingsUpdated, "settings", "shipping-fee", sess.OperatorID,
		map[string]interface{}{"insideCity": fee.InsideCity, "outsideCity": fee.OutsideCity})
	return updated, nil
}
