package wsserver

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Event names the gateway emits.
const (
	EventMessageAck = "message_ack"
	EventError      = "error"
)

// Structured error names carried on refusals and per-event errors.
const (
	ErrorNameUnauthorized = "UnauthorizedError"
	ErrorNameValidation   = "ValidationError"
	ErrorNamePersistence  = "PersistenceError"
)

var errAmbiguousEnvelope = errors.New("event must carry exactly one of new_message, new_notification")

// InboundEnvelope is the tagged variant every inbound frame decodes into at
// the transport boundary. Exactly one field is set on a valid frame.
type InboundEnvelope struct {
	NewMessage      *NewMessagePayload      `json:"new_message,omitempty"`
	NewNotification *NewNotificationPayload `json:"new_notification,omitempty"`
}

// NewMessagePayload is the client's new_message event.
type NewMessagePayload struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	SenderID       string `json:"sender_id" validate:"required"`
	ReceiverID     string `json:"receiver_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
	CorrelationID  string `json:"correlation_id"`
}

// NewNotificationPayload is the client's new_notification event. TargetRole
// defaults to the role opposite the authenticated sender when omitted.
type NewNotificationPayload struct {
	Type       string  `json:"type" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	Content    string  `json:"content" validate:"required"`
	Path       *string `json:"path,omitempty"`
	Sender     string  `json:"sender" validate:"required"`
	TargetRole string  `json:"target_role"`
}

// StructuredError is the error shape sent on refused handshakes and dropped
// events.
type StructuredError struct {
	Message string         `json:"message"`
	Name    string         `json:"name"`
	Data    map[string]any `json:"data"`
}

// MessageAck confirms to the sender that persistence succeeded or failed.
// Receiver-side push stays best-effort and unacknowledged.
type MessageAck struct {
	CorrelationID string           `json:"correlation_id,omitempty"`
	Message       any              `json:"message,omitempty"`
	Error         *StructuredError `json:"error,omitempty"`
}

// decodeEnvelope parses and validates one inbound frame. A frame carrying
// zero or multiple event variants is rejected before any business logic
// runs.
func decodeEnvelope(data []byte, validate *validator.Validate) (*InboundEnvelope, error) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	variants := 0
	if envelope.NewMessage != nil {
		variants++
	}
	if envelope.NewNotification != nil {
		variants++
	}
	if variants != 1 {
		return nil, errAmbiguousEnvelope
	}

	if envelope.NewMessage != nil {
		if err := validate.Struct(envelope.NewMessage); err != nil {
			return nil, err
		}
	}
	if envelope.NewNotification != nil {
		if err := validate.Struct(envelope.NewNotification); err != nil {
			return nil, err
		}
	}

	return &envelope, nil
}
