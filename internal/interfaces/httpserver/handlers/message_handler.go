package handlers

import (
	"context"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/query"
)

// MessageHandler handles conversation-related HTTP requests.
type MessageHandler struct {
	service message.Service
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(service message.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

// Thread returns one page of the conversation between the viewer and peer.
// Viewing marks the peer's unread rows as read.
func (h *MessageHandler) Thread(ctx context.Context, viewerID, peerID string, p query.Pagination) ([]*message.Message, query.PageMeta, error) {
	return h.service.Thread(ctx, viewerID, peerID, p)
}

// Receivers returns the conversation overview for the user.
func (h *MessageHandler) Receivers(ctx context.Context, userID string, role identity.Role) ([]*message.ReceiverSummary, error) {
	return h.service.Receivers(ctx, userID, role)
}
