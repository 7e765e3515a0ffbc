package wsserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/config"
	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/infrastructure/metrics"
)

// Gateway owns the realtime connection lifecycle: it authenticates the
// handshake, registers presence, and dispatches decoded events to the
// message router and notification broadcaster.
type Gateway struct {
	cfg           *config.Config
	gatekeeper    *auth.Gatekeeper
	registry      *presence.Registry
	messages      message.Service
	notifications notification.Service
	upgrader      websocket.Upgrader
	validate      *validator.Validate
	log           zerolog.Logger
}

// NewGateway creates the websocket gateway.
func NewGateway(
	cfg *config.Config,
	gatekeeper *auth.Gatekeeper,
	registry *presence.Registry,
	messages message.Service,
	notifications notification.Service,
	log zerolog.Logger,
) *Gateway {
	return &Gateway{
		cfg:           cfg,
		gatekeeper:    gatekeeper,
		registry:      registry,
		messages:      messages,
		notifications: notifications,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect cross-origin; auth happens on the
			// bearer credential, not the Origin header.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		validate: validator.New(),
		log:      log.With().Str("component", "ws-gateway").Logger(),
	}
}

// Handler upgrades an authenticated request into a long-lived connection.
// A refused handshake answers with the structured error body and never
// upgrades.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}

		id, err := g.gatekeeper.Authenticate(c.Request.Context(), token)
		if err != nil {
			metrics.RecordHandshakeRejected()
			g.log.Debug().Err(err).Msg("handshake refused")
			c.AbortWithStatusJSON(http.StatusUnauthorized, StructuredError{
				Message: refusalMessage(err),
				Name:    ErrorNameUnauthorized,
				Data:    map[string]any{},
			})
			return
		}

		ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the failure response.
			g.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		g.serve(ws, id)
	}
}

// serve runs one connection's event loop until the peer disconnects.
func (g *Gateway) serve(ws *websocket.Conn, id identity.Identity) {
	log := g.log.With().Str("user_id", id.UserID).Logger()

	conn := newConn(ws, g.cfg.WSSendBuffer, g.cfg.WSPingInterval, g.cfg.WSWriteTimeout, log)
	go conn.writePump()

	generation := g.registry.Register(id.UserID, conn)
	metrics.RecordConnectionOpened()
	log.Info().Uint64("generation", generation).Msg("connection established")

	defer func() {
		// The generation token makes this a no-op when a reconnect has
		// already replaced the entry.
		g.registry.Unregister(id.UserID, generation)
		conn.close()
		metrics.RecordConnectionClosed()
		log.Info().Uint64("generation", generation).Msg("connection closed")
	}()

	ws.SetReadLimit(g.cfg.WSReadLimit)
	readDeadline := func() time.Time { return time.Now().Add(2 * g.cfg.WSPingInterval) }
	_ = ws.SetReadDeadline(readDeadline())
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(readDeadline())
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("read loop ended")
			}
			return
		}

		g.dispatch(context.Background(), conn, id, data)
	}
}

// dispatch decodes one frame and routes it. Failures are scoped to the
// event: the connection stays open.
func (g *Gateway) dispatch(ctx context.Context, conn *Conn, id identity.Identity, data []byte) {
	envelope, err := decodeEnvelope(data, g.validate)
	if err != nil {
		conn.Push(EventError, &StructuredError{
			Message: "invalid event payload",
			Name:    ErrorNameValidation,
			Data:    map[string]any{"detail": err.Error()},
		})
		return
	}

	switch {
	case envelope.NewMessage != nil:
		g.handleNewMessage(ctx, conn, id, envelope.NewMessage)
	case envelope.NewNotification != nil:
		g.handleNewNotification(ctx, conn, id, envelope.NewNotification)
	}
}

func (g *Gateway) handleNewMessage(ctx context.Context, conn *Conn, id identity.Identity, payload *NewMessagePayload) {
	// The sender is the authenticated identity, not whatever the payload
	// claims.
	if payload.SenderID != id.UserID {
		conn.Push(EventError, &StructuredError{
			Message: "sender_id does not match the authenticated identity",
			Name:    ErrorNameValidation,
			Data:    map[string]any{"sender_id": payload.SenderID},
		})
		return
	}

	msg, err := g.messages.Deliver(ctx, message.DeliverParams{
		ConversationID: payload.ConversationID,
		SenderID:       id.UserID,
		ReceiverID:     payload.ReceiverID,
		Content:        payload.Content,
	})
	if err != nil {
		conn.Push(EventMessageAck, &MessageAck{
			CorrelationID: payload.CorrelationID,
			Error: &StructuredError{
				Message: "failed to persist message",
				Name:    ErrorNamePersistence,
				Data:    map[string]any{},
			},
		})
		return
	}

	conn.Push(EventMessageAck, &MessageAck{
		CorrelationID: payload.CorrelationID,
		Message:       msg,
	})
}

func (g *Gateway) handleNewNotification(ctx context.Context, conn *Conn, id identity.Identity, payload *NewNotificationPayload) {
	// Same rule as new_message: the event's sender must be the
	// authenticated identity, so the payload pushed to recipients really
	// is the inbound payload unmodified.
	if payload.Sender != id.UserID {
		conn.Push(EventError, &StructuredError{
			Message: "sender does not match the authenticated identity",
			Name:    ErrorNameValidation,
			Data:    map[string]any{"sender": payload.Sender},
		})
		return
	}

	targetRole := identity.Role(payload.TargetRole)
	if payload.TargetRole == "" {
		targetRole = id.Role.Opposite()
	}
	if !targetRole.Valid() {
		conn.Push(EventError, &StructuredError{
			Message: "unknown target role",
			Name:    ErrorNameValidation,
			Data:    map[string]any{"target_role": payload.TargetRole},
		})
		return
	}

	_, err := g.notifications.Broadcast(ctx, notification.BroadcastParams{
		Type:       payload.Type,
		Title:      payload.Title,
		Content:    payload.Content,
		Path:       payload.Path,
		SenderID:   id.UserID,
		TargetRole: targetRole,
	})
	if err != nil {
		conn.Push(EventError, &StructuredError{
			Message: "failed to broadcast notification",
			Name:    ErrorNamePersistence,
			Data:    map[string]any{},
		})
	}
}

func refusalMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return "missing bearer credential"
	case errors.Is(err, auth.ErrUnverifiedIdentity):
		return "account is not verified"
	default:
		return "invalid credential"
	}
}
