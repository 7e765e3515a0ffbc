package message

import (
	"time"

	"github.com/shoplite/messaging-api/internal/domain/identity"
)

// Message is one direction-addressed chat line between two identities.
// Content is immutable after creation; IsRead is flipped only by the thread
// query when the addressed party views the conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReceivePayload is the receive_message event payload pushed to the
// addressed party. IsSender is always false on the receiving side.
type ReceivePayload struct {
	*Message
	IsSender bool `json:"is_sender"`
}

// DeliverParams carries one new_message event into the router.
type DeliverParams struct {
	ConversationID string
	SenderID       string
	ReceiverID     string
	Content        string
}

// CounterpartSummary reduces both directions of a user's exchange with one
// counterpart into a single tuple.
type CounterpartSummary struct {
	CounterpartID string
	LastMessageAt time.Time
	UnreadCount   int64
}

// ReceiverSummary is one row of the conversation overview: a counterpart
// profile plus the state of the exchange with them.
type ReceiverSummary struct {
	User          *identity.User `json:"user"`
	LastMessageAt *time.Time     `json:"last_message_at,omitempty"`
	UnreadCount   int64          `json:"unread_count"`
}
