package message

import (
	"context"

	"github.com/shoplite/messaging-api/internal/domain/query"
)

// Repository defines the persistence contract for messages. Implementations
// assign server-side timestamps on Create; CreatedAt never changes after
// insertion.
type Repository interface {
	// Create persists a new message row.
	Create(ctx context.Context, msg *Message) error

	// FindBetween returns the union of rows exchanged between the two users
	// in either direction, newest first, plus the total row count.
	FindBetween(ctx context.Context, userA, userB string, p query.Pagination) ([]*Message, int64, error)

	// MarkConversationRead flips is_read on every unread row addressed to
	// readerID from senderID. Idempotent.
	MarkConversationRead(ctx context.Context, readerID, senderID string) error

	// SummarizeCounterparts reduces the user's exchanges into one
	// (last_message, unread_count) tuple per counterpart.
	SummarizeCounterparts(ctx context.Context, userID string) ([]CounterpartSummary, error)
}
