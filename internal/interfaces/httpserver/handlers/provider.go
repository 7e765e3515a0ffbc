package handlers

import (
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Message      *MessageHandler
	Notification *NotificationHandler
}

// NewProvider creates a new handler provider.
func NewProvider(messages message.Service, notifications notification.Service) *Provider {
	return &Provider{
		Message:      NewMessageHandler(messages),
		Notification: NewNotificationHandler(notifications),
	}
}
