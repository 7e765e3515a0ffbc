package dbschema

import (
	"time"

	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Notification{})
}

// Notification is the database schema for per-recipient notification rows.
type Notification struct {
	ID         string    `gorm:"type:varchar(50);primaryKey"`
	SenderID   string    `gorm:"type:varchar(50);not null;index"`
	ReceiverID string    `gorm:"type:varchar(50);not null;index:idx_notifications_receiver_unread"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(256);not null"`
	Content    string    `gorm:"type:text;not null"`
	Path       *string   `gorm:"type:varchar(512)"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_notifications_receiver_unread"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// NewSchemaNotification converts a domain notification into its schema form.
func NewSchemaNotification(n *notification.Notification) *Notification {
	return &Notification{
		ID:         n.ID,
		SenderID:   n.SenderID,
		ReceiverID: n.ReceiverID,
		Type:       n.Type,
		Title:      n.Title,
		Content:    n.Content,
		Path:       n.Path,
		IsRead:     n.IsRead,
	}
}

// EtoD converts the schema row into its domain form.
func (n *Notification) EtoD() *notification.Notification {
	return &notification.Notification{
		ID:         n.ID,
		SenderID:   n.SenderID,
		ReceiverID: n.ReceiverID,
		Type:       n.Type,
		Title:      n.Title,
		Content:    n.Content,
		Path:       n.Path,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
