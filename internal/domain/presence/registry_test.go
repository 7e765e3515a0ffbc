package presence

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandle struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHandle) Push(event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func newTestRegistry() *Registry {
	return NewRegistry(zerolog.Nop())
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := newTestRegistry()
	h := &recordingHandle{}

	r.Register("user-1", h)

	got := r.Lookup("user-1")
	require.NotNil(t, got)
	assert.Same(t, Handle(h), got)
	assert.Nil(t, r.Lookup("user-2"))
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_LastConnectWins(t *testing.T) {
	r := newTestRegistry()
	first := &recordingHandle{}
	second := &recordingHandle{}

	r.Register("user-1", first)
	r.Register("user-1", second)

	got := r.Lookup("user-1")
	assert.Same(t, Handle(second), got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_UnregisterRemovesEntry(t *testing.T) {
	r := newTestRegistry()
	gen := r.Register("user-1", &recordingHandle{})

	r.Unregister("user-1", gen)

	assert.Nil(t, r.Lookup("user-1"))
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_StaleDisconnectIsNoOp(t *testing.T) {
	r := newTestRegistry()
	first := &recordingHandle{}
	second := &recordingHandle{}

	// Reconnect supersedes the first connection before it disconnects.
	oldGen := r.Register("user-1", first)
	r.Register("user-1", second)

	// The superseded connection's teardown must not evict the live one.
	r.Unregister("user-1", oldGen)

	got := r.Lookup("user-1")
	require.NotNil(t, got)
	assert.Same(t, Handle(second), got)
}

func TestRegistry_UnregisterUnknownUser(t *testing.T) {
	r := newTestRegistry()
	r.Unregister("ghost", 42)
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_Online(t *testing.T) {
	r := newTestRegistry()
	a := &recordingHandle{}
	b := &recordingHandle{}
	r.Register("user-a", a)
	r.Register("user-b", b)

	online := r.Online([]string{"user-a", "user-b", "user-c"})

	require.Len(t, online, 2)
	assert.Same(t, Handle(a), online["user-a"])
	assert.Same(t, Handle(b), online["user-b"])
	_, ok := online["user-c"]
	assert.False(t, ok)
}

func TestRegistry_ConcurrentRegisterUnregister(t *testing.T) {
	r := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen := r.Register("user-1", &recordingHandle{})
			r.Unregister("user-1", gen)
		}()
	}
	wg.Wait()

	// Every goroutine paired its register with a matching unregister, but a
	// stale-generation unregister may leave the winner's entry behind. The
	// registry must end with at most one live entry and stay consistent.
	assert.LessOrEqual(t, r.Count(), 1)
}
