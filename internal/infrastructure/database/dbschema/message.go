package dbschema

import (
	"time"

	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Message is the database schema for direct messages. CreatedAt is assigned
// by the server on insert and never changes; is_read is the only mutable
// column.
type Message struct {
	ID             string    `gorm:"type:varchar(50);primaryKey"`
	ConversationID string    `gorm:"type:varchar(100);index"`
	SenderID       string    `gorm:"type:varchar(50);not null;index:idx_messages_sender_receiver"`
	ReceiverID     string    `gorm:"type:varchar(50);not null;index:idx_messages_sender_receiver;index:idx_messages_receiver_unread"`
	Content        string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"not null;default:false;index:idx_messages_receiver_unread"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// NewSchemaMessage converts a domain message into its schema form.
func NewSchemaMessage(m *message.Message) *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		IsRead:         m.IsRead,
	}
}

// EtoD converts the schema row into its domain form.
func (m *Message) EtoD() *message.Message {
	return &message.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
