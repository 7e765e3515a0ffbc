package responses

import (
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// ErrorResponse is the standard error body.
type ErrorResponse = platformerrors.HTTPErrorResponse

// StatusResponse is the body for side-effect-only operations.
type StatusResponse struct {
	Status string `json:"status"`
}

// MessagesResponse is one page of a conversation thread.
type MessagesResponse struct {
	query.PageMeta
	Messages []*message.Message `json:"messages"`
}

// ReceiversResponse is the conversation overview.
type ReceiversResponse struct {
	Receivers []*message.ReceiverSummary `json:"receivers"`
}

// NotificationsResponse is one page of a user's notifications.
type NotificationsResponse struct {
	query.PageMeta
	Unread        int64                        `json:"unread"`
	Notifications []*notification.Notification `json:"notifications"`
}

// NewMessagesResponse builds the thread page response.
func NewMessagesResponse(msgs []*message.Message, meta query.PageMeta) *MessagesResponse {
	if msgs == nil {
		msgs = []*message.Message{}
	}
	return &MessagesResponse{PageMeta: meta, Messages: msgs}
}

// NewNotificationsResponse builds the notification page response.
func NewNotificationsResponse(rows []*notification.Notification, meta query.PageMeta, unread int64) *NotificationsResponse {
	if rows == nil {
		rows = []*notification.Notification{}
	}
	return &NotificationsResponse{PageMeta: meta, Unread: unread, Notifications: rows}
}
