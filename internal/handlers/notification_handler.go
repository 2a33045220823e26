package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/services"
)

// NotificationFeed is the notification workflow used by NotificationHandler
type NotificationFeed interface {
	List(ctx context.Context, sess services.Session, page, limit int) ([]models.Notification, *models.PaginationInfo, error)
	MarkRead(ctx context.Context, sess services.Session, id string) error
	MarkAllRead(ctx context.Context, sess services.Session) error
}

type NotificationHandler struct {
	notifications NotificationFeed
	logger        *logrus.Entry
}

func NewNotificationHandler(notifications NotificationFeed, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.WithField("component", "notification_handler"),
	}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/read-all", h.MarkAllRead)
		notifications.PATCH("/:id/read", h.MarkRead)
	}
}

// ListNotifications returns the admin notification feed
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.SuccessResponse{data=[]models.Notification}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	items, pagination, err := h.notifications.List(c.Request.Context(), sessionFrom(c),
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success:    true,
		Data:       items,
		Pagination: pagination,
	})
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Notification marked as read")
}

// MarkAllRead marks every notification as read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), sessionFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "All notifications marked as read")
}
