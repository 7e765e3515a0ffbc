package wsserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/messaging-api/internal/config"
	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/domain/query"
)

type fakeMessageService struct {
	delivered  []message.DeliverParams
	deliverErr error
}

func (f *fakeMessageService) Deliver(ctx context.Context, params message.DeliverParams) (*message.Message, error) {
	if f.deliverErr != nil {
		return nil, f.deliverErr
	}
	f.delivered = append(f.delivered, params)
	return &message.Message{
		ID:             "msg_test",
		ConversationID: params.ConversationID,
		SenderID:       params.SenderID,
		ReceiverID:     params.ReceiverID,
		Content:        params.Content,
	}, nil
}

func (f *fakeMessageService) Thread(ctx context.Context, viewerID, peerID string, p query.Pagination) ([]*message.Message, query.PageMeta, error) {
	return nil, query.PageMeta{}, nil
}

func (f *fakeMessageService) Receivers(ctx context.Context, userID string, callerRole identity.Role) ([]*message.ReceiverSummary, error) {
	return nil, nil
}

type fakeNotificationService struct {
	broadcasts   []notification.BroadcastParams
	broadcastErr error
}

func (f *fakeNotificationService) Broadcast(ctx context.Context, params notification.BroadcastParams) ([]*notification.Notification, error) {
	if f.broadcastErr != nil {
		return nil, f.broadcastErr
	}
	f.broadcasts = append(f.broadcasts, params)
	return nil, nil
}

func (f *fakeNotificationService) List(ctx context.Context, userID string, p query.Pagination) ([]*notification.Notification, query.PageMeta, int64, error) {
	return nil, query.PageMeta{}, 0, nil
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, userID string, id *string) error {
	return nil
}

func (f *fakeNotificationService) Delete(ctx context.Context, userID string, id *string) error {
	return nil
}

func newTestGateway(messages message.Service, notifications notification.Service) *Gateway {
	cfg := &config.Config{
		WSSendBuffer:   8,
		WSReadLimit:    65536,
		WSPingInterval: time.Minute,
		WSWriteTimeout: time.Second,
	}
	return NewGateway(cfg, nil, presence.NewRegistry(zerolog.Nop()), messages, notifications, zerolog.Nop())
}

func newDispatchConn() *Conn {
	return newConn(nil, 8, time.Minute, time.Second, zerolog.Nop())
}

// popEvent drains one queued outbound event, failing when none is pending.
func popEvent(t *testing.T, conn *Conn) outboundEvent {
	t.Helper()
	select {
	case ev := <-conn.send:
		return ev
	default:
		t.Fatal("no outbound event queued")
		return outboundEvent{}
	}
}

func assertNoEvent(t *testing.T, conn *Conn) {
	t.Helper()
	require.Empty(t, conn.send)
}

var alice = identity.Identity{UserID: "alice", Role: identity.RoleCustomer, Verified: true}

const validNewMessage = `{"new_message":{
	"conversation_id":"conv-1",
	"sender_id":"alice",
	"receiver_id":"bob",
	"content":"hello",
	"correlation_id":"corr-1"
}}`

func TestDispatch_NewMessageAcksPersistedRow(t *testing.T) {
	messages := &fakeMessageService{}
	g := newTestGateway(messages, &fakeNotificationService{})
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(validNewMessage))

	ev := popEvent(t, conn)
	assert.Equal(t, EventMessageAck, ev.name)

	ack, ok := ev.payload.(*MessageAck)
	require.True(t, ok)
	assert.Equal(t, "corr-1", ack.CorrelationID)
	assert.Nil(t, ack.Error)

	msg, ok := ack.Message.(*message.Message)
	require.True(t, ok)
	assert.Equal(t, "msg_test", msg.ID)
	assert.Equal(t, "hello", msg.Content)

	require.Len(t, messages.delivered, 1)
	assert.Equal(t, "alice", messages.delivered[0].SenderID)
	assert.Equal(t, "bob", messages.delivered[0].ReceiverID)
}

func TestDispatch_SenderMismatchRejected(t *testing.T) {
	messages := &fakeMessageService{}
	g := newTestGateway(messages, &fakeNotificationService{})
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(`{"new_message":{
		"conversation_id":"conv-1",
		"sender_id":"mallory",
		"receiver_id":"bob",
		"content":"spoofed"
	}}`))

	ev := popEvent(t, conn)
	assert.Equal(t, EventError, ev.name)
	structured, ok := ev.payload.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, ErrorNameValidation, structured.Name)
	assert.Empty(t, messages.delivered)

	// The failure is scoped to the event: the next frame is still served.
	g.dispatch(context.Background(), conn, alice, []byte(validNewMessage))
	ev = popEvent(t, conn)
	assert.Equal(t, EventMessageAck, ev.name)
	assert.Len(t, messages.delivered, 1)
}

func TestDispatch_PersistenceFailureAcksError(t *testing.T) {
	messages := &fakeMessageService{deliverErr: errors.New("store unavailable")}
	g := newTestGateway(messages, &fakeNotificationService{})
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(validNewMessage))

	ev := popEvent(t, conn)
	assert.Equal(t, EventMessageAck, ev.name)

	ack, ok := ev.payload.(*MessageAck)
	require.True(t, ok)
	assert.Equal(t, "corr-1", ack.CorrelationID)
	assert.Nil(t, ack.Message)
	require.NotNil(t, ack.Error)
	assert.Equal(t, ErrorNamePersistence, ack.Error.Name)
}

func TestDispatch_MalformedFrameKeepsConnectionServing(t *testing.T) {
	messages := &fakeMessageService{}
	g := newTestGateway(messages, &fakeNotificationService{})
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(`{"new_message":`))

	ev := popEvent(t, conn)
	assert.Equal(t, EventError, ev.name)
	structured, ok := ev.payload.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, ErrorNameValidation, structured.Name)

	g.dispatch(context.Background(), conn, alice, []byte(validNewMessage))
	ev = popEvent(t, conn)
	assert.Equal(t, EventMessageAck, ev.name)
}

func TestDispatch_NewNotificationDefaultsTargetRole(t *testing.T) {
	notifications := &fakeNotificationService{}
	g := newTestGateway(&fakeMessageService{}, notifications)
	conn := newDispatchConn()
	admin := identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin, Verified: true}

	g.dispatch(context.Background(), conn, admin, []byte(`{"new_notification":{
		"type":"order_update",
		"title":"Order shipped",
		"content":"on the way",
		"sender":"admin-1"
	}}`))

	// Success pushes nothing back to the originator.
	assertNoEvent(t, conn)

	require.Len(t, notifications.broadcasts, 1)
	assert.Equal(t, identity.RoleCustomer, notifications.broadcasts[0].TargetRole)
	assert.Equal(t, "admin-1", notifications.broadcasts[0].SenderID)
}

func TestDispatch_NotificationSenderMismatchRejected(t *testing.T) {
	notifications := &fakeNotificationService{}
	g := newTestGateway(&fakeMessageService{}, notifications)
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(`{"new_notification":{
		"type":"order_update",
		"title":"spoof",
		"content":"spoof",
		"sender":"someone-else"
	}}`))

	ev := popEvent(t, conn)
	assert.Equal(t, EventError, ev.name)
	structured, ok := ev.payload.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, ErrorNameValidation, structured.Name)
	assert.Empty(t, notifications.broadcasts)
}

func TestDispatch_NotificationUnknownTargetRole(t *testing.T) {
	notifications := &fakeNotificationService{}
	g := newTestGateway(&fakeMessageService{}, notifications)
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(`{"new_notification":{
		"type":"order_update",
		"title":"t",
		"content":"c",
		"sender":"alice",
		"target_role":"superuser"
	}}`))

	ev := popEvent(t, conn)
	assert.Equal(t, EventError, ev.name)
	structured, ok := ev.payload.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, ErrorNameValidation, structured.Name)
	assert.Empty(t, notifications.broadcasts)
}

func TestDispatch_NotificationBroadcastFailure(t *testing.T) {
	notifications := &fakeNotificationService{broadcastErr: errors.New("store unavailable")}
	g := newTestGateway(&fakeMessageService{}, notifications)
	conn := newDispatchConn()

	g.dispatch(context.Background(), conn, alice, []byte(`{"new_notification":{
		"type":"order_update",
		"title":"t",
		"content":"c",
		"sender":"alice"
	}}`))

	ev := popEvent(t, conn)
	assert.Equal(t, EventError, ev.name)
	structured, ok := ev.payload.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, ErrorNamePersistence, structured.Name)
}
