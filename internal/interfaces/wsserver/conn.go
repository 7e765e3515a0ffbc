package wsserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/infrastructure/metrics"
)

type outboundEvent struct {
	name    string
	payload any
}

// Conn wraps one websocket connection with a buffered write pump. Push never
// blocks the caller: events are dropped when the peer cannot keep up.
type Conn struct {
	ws           *websocket.Conn
	send         chan outboundEvent
	done         chan struct{}
	closeOnce    sync.Once
	pingInterval time.Duration
	writeTimeout time.Duration
	log          zerolog.Logger
}

var _ presence.Handle = (*Conn)(nil)

func newConn(ws *websocket.Conn, sendBuffer int, pingInterval, writeTimeout time.Duration, log zerolog.Logger) *Conn {
	return &Conn{
		ws:           ws,
		send:         make(chan outboundEvent, sendBuffer),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		log:          log,
	}
}

// Push implements presence.Handle. Fire-and-forget: a full send buffer or a
// closed connection drops the event without blocking.
func (c *Conn) Push(event string, payload any) {
	select {
	case <-c.done:
	case c.send <- outboundEvent{name: event, payload: payload}:
	default:
		metrics.RecordPushDropped()
		c.log.Warn().Str("event", event).Msg("send buffer full, dropping event")
	}
}

// close shuts down the write pump and the underlying socket. Safe to call
// more than once.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump serializes all writes to the socket: queued events, and pings on
// an interval. It exits when the connection is closed.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			// Single-key envelope: {"<event>": <payload>}.
			if err := c.ws.WriteJSON(map[string]any{ev.name: ev.payload}); err != nil {
				c.log.Debug().Err(err).Str("event", ev.name).Msg("write failed, closing connection")
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
