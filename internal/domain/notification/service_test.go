package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/domain/query"
)

type fakeRepo struct {
	mu      sync.Mutex
	created []*Notification
	failFor map[string]error

	found  []*Notification
	total  int64
	unread int64

	readCalls   []readCall
	deleteCalls []readCall
}

type readCall struct {
	userID string
	id     *string
}

func (f *fakeRepo) Create(ctx context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.ReceiverID]; ok {
		return err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) FindByReceiver(ctx context.Context, userID string, p query.Pagination) ([]*Notification, int64, error) {
	return f.found, f.total, nil
}

func (f *fakeRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return f.unread, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, userID string, id *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls = append(f.readCalls, readCall{userID: userID, id: id})
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID string, id *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, readCall{userID: userID, id: id})
	return nil
}

type fakeHandle struct {
	mu     sync.Mutex
	events []string
}

func (h *fakeHandle) Push(event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

type fakePresence struct {
	handles map[string]presence.Handle
}

func (f *fakePresence) Online(userIDs []string) map[string]presence.Handle {
	online := make(map[string]presence.Handle)
	for _, id := range userIDs {
		if h, ok := f.handles[id]; ok {
			online[id] = h
		}
	}
	return online
}

type fakeDirectory struct {
	users map[identity.Role][]*identity.User
}

func (f *fakeDirectory) FindByID(ctx context.Context, userID string) (*identity.User, error) {
	return nil, identity.ErrUserNotFound
}

func (f *fakeDirectory) ListByRole(ctx context.Context, role identity.Role) ([]*identity.User, error) {
	return f.users[role], nil
}

func customers(ids ...string) []*identity.User {
	users := make([]*identity.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, &identity.User{ID: id, Role: identity.RoleCustomer})
	}
	return users
}

func newTestService(repo *fakeRepo, pres *fakePresence, dir *fakeDirectory) Service {
	if pres == nil {
		pres = &fakePresence{handles: map[string]presence.Handle{}}
	}
	if dir == nil {
		dir = &fakeDirectory{users: map[identity.Role][]*identity.User{}}
	}
	return NewService(repo, pres, dir, 10, 4, zerolog.Nop())
}

func TestBroadcast_OneRowPerMemberRegardlessOfPresence(t *testing.T) {
	repo := &fakeRepo{}
	dir := &fakeDirectory{users: map[identity.Role][]*identity.User{
		identity.RoleCustomer: customers("c-1", "c-2", "c-3"),
	}}
	// Only c-2 is connected.
	handle := &fakeHandle{}
	pres := &fakePresence{handles: map[string]presence.Handle{"c-2": handle}}
	svc := newTestService(repo, pres, dir)

	rows, err := svc.Broadcast(context.Background(), BroadcastParams{
		Type:       "order_update",
		Title:      "Order shipped",
		Content:    "Your order is on the way",
		SenderID:   "admin-1",
		TargetRole: identity.RoleCustomer,
	})

	require.NoError(t, err)
	require.Len(t, rows, 3)

	receivers := make(map[string]bool)
	for _, n := range rows {
		receivers[n.ReceiverID] = true
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.IsRead)
		assert.Equal(t, "admin-1", n.SenderID)
	}
	assert.Len(t, receivers, 3)

	// Push reached the one present member only.
	require.Len(t, handle.events, 1)
	assert.Equal(t, EventReceiveNotification, handle.events[0])
}

func TestBroadcast_EmptyRoleGroupIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil, nil)

	rows, err := svc.Broadcast(context.Background(), BroadcastParams{
		Type:       "announcement",
		Title:      "hello",
		SenderID:   "admin-1",
		TargetRole: identity.RoleCustomer,
	})

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, repo.created)
}

func TestBroadcast_InvalidRoleRejected(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil, nil)

	_, err := svc.Broadcast(context.Background(), BroadcastParams{
		Type:       "announcement",
		SenderID:   "admin-1",
		TargetRole: identity.Role("superuser"),
	})

	require.Error(t, err)
}

func TestBroadcast_PartialFailureKeepsPersistedRows(t *testing.T) {
	repo := &fakeRepo{failFor: map[string]error{"c-2": errors.New("insert failed")}}
	dir := &fakeDirectory{users: map[identity.Role][]*identity.User{
		identity.RoleCustomer: customers("c-1", "c-2", "c-3"),
	}}
	svc := newTestService(repo, nil, dir)

	rows, err := svc.Broadcast(context.Background(), BroadcastParams{
		Type:       "announcement",
		Title:      "hello",
		SenderID:   "admin-1",
		TargetRole: identity.RoleCustomer,
	})

	// The failed write surfaces, but the independent writes stay in place.
	require.Error(t, err)
	require.Len(t, rows, 2)
	for _, n := range rows {
		assert.NotEqual(t, "c-2", n.ReceiverID)
	}
}

func TestList_ReturnsMetaAndUnread(t *testing.T) {
	repo := &fakeRepo{
		found:  []*Notification{{ID: "n1"}, {ID: "n2"}},
		total:  12,
		unread: 5,
	}
	svc := newTestService(repo, nil, nil)

	rows, meta, unread, err := svc.List(context.Background(), "c-1", query.Pagination{})

	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(12), meta.Total)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 2, meta.PageSize)
	assert.Equal(t, int64(5), unread)
}

func TestMarkRead_PassesThroughOptionalID(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil, nil)

	id := "n-1"
	require.NoError(t, svc.MarkRead(context.Background(), "c-1", &id))
	require.NoError(t, svc.MarkRead(context.Background(), "c-1", nil))

	require.Len(t, repo.readCalls, 2)
	require.NotNil(t, repo.readCalls[0].id)
	assert.Equal(t, "n-1", *repo.readCalls[0].id)
	assert.Nil(t, repo.readCalls[1].id)
}

func TestDelete_PassesThroughOptionalID(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "c-1", nil))

	require.Len(t, repo.deleteCalls, 1)
	assert.Nil(t, repo.deleteCalls[0].id)
}
