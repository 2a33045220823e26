package services

import (
	"context"

	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/models"
)

// NotificationService reads and acknowledges the admin notification feed
type NotificationService struct {
	api clients.StorefrontAPI
}

func NewNotificationService(api clients.StorefrontAPI) *NotificationService {
	return &NotificationService{api: api}
}

func (s *NotificationService) List(ctx context.Context, sess Session, page, limit int) ([]models.Notification, *models.PaginationInfo, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.api.ListNotifications(ctx, sess.Token, page, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, sess Session, id string) error {
	return s.api.MarkNotificationRead(ctx, sess.Token, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess Session) error {
	return s.api.MarkAllNotificationsRead(ctx, sess.Token)
}
