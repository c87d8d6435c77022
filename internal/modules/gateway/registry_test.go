package gateway

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	event string
	args  []any
}

type mockSub struct {
	id string

	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockSub) ID() string { return m.id }

func (m *mockSub) Emit(event string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{event: event, args: args})
	return nil
}

func (m *mockSub) received() []recordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recordedEvent, len(m.events))
	copy(out, m.events)
	return out
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	sub := &mockSub{id: "c1"}

	r.Join("srvA", "general", sub)
	r.Join("srvA", "general", sub)

	assert.Equal(t, 1, r.Count("srvA", "general"))
	require.Len(t, r.Subscribers("srvA", "general"), 1)
}

func TestRegistry_LeaveNotJoinedIsNoop(t *testing.T) {
	r := NewRegistry()
	sub := &mockSub{id: "c1"}
	r.Join("srvA", "general", sub)

	r.Leave("srvA", "random", "c1")
	r.Leave("srvA", "general", "other")

	assert.Equal(t, 1, r.Count("srvA", "general"))
}

func TestRegistry_SameRoomNameIsScopedPerContext(t *testing.T) {
	r := NewRegistry()
	a := &mockSub{id: "a"}
	b := &mockSub{id: "b"}

	r.Join("srvA", "general", a)
	r.Join("srvB", "general", b)

	assert.Equal(t, 1, r.Count("srvA", "general"))
	assert.Equal(t, 1, r.Count("srvB", "general"))

	subs := r.Subscribers("srvA", "general")
	require.Len(t, subs, 1)
	assert.Equal(t, "a", subs[0].ID())
}

func TestRegistry_DropAllRemovesEveryRoom(t *testing.T) {
	r := NewRegistry()
	sub := &mockSub{id: "c1"}
	other := &mockSub{id: "c2"}

	r.Join("srvA", "general", sub)
	r.Join("srvA", "random", sub)
	r.Join("srvA", "general", other)

	left := r.DropAll("c1")
	assert.ElementsMatch(t, []string{"general", "random"}, left)

	assert.Equal(t, 1, r.Count("srvA", "general"))
	assert.Equal(t, 0, r.Count("srvA", "random"))

	rooms, connections := r.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 1, connections)
}

func TestRegistry_EmptyRoomDisappears(t *testing.T) {
	r := NewRegistry()
	sub := &mockSub{id: "c1"}

	r.Join("srvA", "general", sub)
	r.Leave("srvA", "general", "c1")

	rooms, connections := r.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, connections)
	assert.Nil(t, r.Subscribers("srvA", "general"))
}
