package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront-admin-service/internal/models"
)

// ListNotifications fetches one page of the admin notification feed
func (c *StorefrontClient) ListNotifications(ctx context.Context, token string, page, limit int) ([]models.Notification, *models.PaginationInfo, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	notifications := []models.Notification{}
	pagination, err := c.get(ctx, token, "/notification", query, &notifications)
	if err != nil {
		return nil, nil, err
	}
	return notifications, pagination, nil
}

// MarkNotificationRead marks one notification as read
func (c *StorefrontClient) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.sendJSON(ctx, token, http.MethodPatch, "/notification/"+pathID(id)+"/read", nil, nil)
}

// MarkAllNotificationsRead marks the whole feed as read
func (c *StorefrontClient) MarkAllNotificationsRead(ctx context.Context, token string) error {
	return c.sendJSON(ctx, token, http.MethodPatch, "/notification/read-all", nil, nil)
}
