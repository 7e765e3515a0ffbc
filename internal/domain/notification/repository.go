package notification

import (
	"context"

	"github.com/shoplite/messaging-api/internal/domain/query"
)

// Repository defines the persistence contract for notifications.
type Repository interface {
	// Create persists one notification row with server-side timestamps.
	Create(ctx context.Context, n *Notification) error

	// FindByReceiver returns the user's notifications newest first with the
	// sender profile populated, plus the total row count.
	FindByReceiver(ctx context.Context, userID string, p query.Pagination) ([]*Notification, int64, error)

	// CountUnread returns the number of unread rows addressed to the user.
	CountUnread(ctx context.Context, userID string) (int64, error)

	// MarkRead flips is_read on the addressed row, or on all of the user's
	// rows when id is nil. Idempotent; never errors on already-read rows.
	MarkRead(ctx context.Context, userID string, id *string) error

	// Delete removes the addressed row, or all of the user's rows when id
	// is nil. Idempotent; never errors on already-deleted rows.
	Delete(ctx context.Context, userID string, id *string) error
}
