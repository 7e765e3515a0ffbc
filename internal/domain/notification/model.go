package notification

import (
	"time"

	"github.com/shoplite/messaging-api/internal/domain/identity"
)

// Notification is one row per (event, recipient) pair: broadcasting to K
// identities produces K independent rows, each with its own read flag.
type Notification struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Path       *string   `json:"path,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Sender is the public profile of the originating identity, populated
	// on the read path only.
	Sender *identity.User `json:"sender,omitempty" gorm:"-"`
}

// BroadcastParams carries one logical notification event into the
// broadcaster.
type BroadcastParams struct {
	Type       string
	Title      string
	Content    string
	Path       *string
	SenderID   string
	TargetRole identity.Role
}

// PushPayload is the receive_notification event payload: the inbound event
// payload, unmodified.
type PushPayload struct {
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Path    *string `json:"path,omitempty"`
	Sender  string  `json:"sender"`
}
