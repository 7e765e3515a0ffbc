package handlers

import (
	"context"

	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/query"
)

// NotificationHandler handles notification-related HTTP requests.
type NotificationHandler struct {
	service notification.Service
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(service notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns one page of the user's notifications with counts.
func (h *NotificationHandler) List(ctx context.Context, userID string, p query.Pagination) ([]*notification.Notification, query.PageMeta, int64, error) {
	return h.service.List(ctx, userID, p)
}

// MarkRead marks one or all of the user's notifications read.
func (h *NotificationHandler) MarkRead(ctx context.Context, userID string, id *string) error {
	return h.service.MarkRead(ctx, userID, id)
}

// Delete removes one or all of the user's notifications.
func (h *NotificationHandler) Delete(ctx context.Context, userID string, id *string) error {
	return h.service.Delete(ctx, userID, id)
}
