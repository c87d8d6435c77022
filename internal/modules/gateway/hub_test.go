package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T, verify TokenVerifier, lookup MembershipLookup) *Hub {
	t.Helper()
	if verify == nil {
		verify = func(string) (string, error) { return "", errors.New("no verifier") }
	}
	if lookup == nil {
		lookup = func(context.Context, string, string) (bool, error) { return false, nil }
	}
	return NewHub(NewRegistry(), verify, lookup, nil, zap.NewNop())
}

func TestHub_Authenticate(t *testing.T) {
	verify := func(token string) (string, error) {
		if token == "valid" {
			return "u1", nil
		}
		return "", errors.New("bad signature")
	}

	tests := []struct {
		name     string
		token    string
		serverID string
		lookup   MembershipLookup
		wantUser string
		wantErr  bool
	}{
		{
			name:     "valid token and membership",
			token:    "valid",
			serverID: "srvA",
			lookup: func(_ context.Context, userID, serverID string) (bool, error) {
				return userID == "u1" && serverID == "srvA", nil
			},
			wantUser: "u1",
		},
		{
			name:     "missing token",
			token:    "",
			serverID: "srvA",
			wantErr:  true,
		},
		{
			name:     "invalid token",
			token:    "forged",
			serverID: "srvA",
			wantErr:  true,
		},
		{
			name:     "valid token but no membership",
			token:    "valid",
			serverID: "srvB",
			lookup: func(context.Context, string, string) (bool, error) {
				return false, nil
			},
			wantErr: true,
		},
		{
			name:     "membership lookup failure fails closed",
			token:    "valid",
			serverID: "srvA",
			lookup: func(context.Context, string, string) (bool, error) {
				return false, errors.New("store unavailable")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub(t, verify, tt.lookup)
			userID, err := h.authenticate(context.Background(), tt.token, tt.serverID)

			if tt.wantErr {
				// All rejection reasons collapse into one indistinguishable error.
				require.ErrorIs(t, err, errAuthentication)
				assert.Empty(t, userID)
				rooms, connections := h.Registry().Stats()
				assert.Zero(t, rooms)
				assert.Zero(t, connections)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, userID)
		})
	}
}

func TestHub_RelayIncludesSender(t *testing.T) {
	h := newTestHub(t, nil, nil)
	u1 := &mockSub{id: "u1"}
	u2 := &mockSub{id: "u2"}

	h.Registry().Join("srvA", "general", u1)
	h.Registry().Join("srvA", "general", u2)

	h.broadcast("srvA", "general", eventNewMessage, "hi")

	for _, sub := range []*mockSub{u1, u2} {
		events := sub.received()
		require.Len(t, events, 1, "subscriber %s", sub.ID())
		assert.Equal(t, eventNewMessage, events[0].event)
		assert.Equal(t, []any{"hi"}, events[0].args)
	}
}

func TestHub_RelayDoesNotCrossContexts(t *testing.T) {
	h := newTestHub(t, nil, nil)
	inA := &mockSub{id: "a"}
	inB := &mockSub{id: "b"}

	h.Registry().Join("srvA", "general", inA)
	h.Registry().Join("srvB", "general", inB)

	h.broadcast("srvA", "general", eventNewMessage, "hello A")

	assert.Len(t, inA.received(), 1)
	assert.Empty(t, inB.received())
}

func TestHub_NoDeliveryAfterLeave(t *testing.T) {
	h := newTestHub(t, nil, nil)
	u1 := &mockSub{id: "u1"}
	u2 := &mockSub{id: "u2"}

	h.Registry().Join("srvA", "general", u1)
	h.Registry().Join("srvA", "general", u2)
	h.Registry().Leave("srvA", "general", "u1")

	h.broadcast("srvA", "general", eventNewMessage, "after leave")

	assert.Empty(t, u1.received())
	assert.Len(t, u2.received(), 1)
}

func TestHub_NoDeliveryAfterDisconnect(t *testing.T) {
	h := newTestHub(t, nil, nil)
	u1 := &mockSub{id: "u1"}
	u2 := &mockSub{id: "u2"}

	h.Registry().Join("srvA", "general", u1)
	h.Registry().Join("srvA", "random", u1)
	h.Registry().Join("srvA", "general", u2)

	left := h.disconnect("u1")
	assert.ElementsMatch(t, []string{"general", "random"}, left)

	h.broadcast("srvA", "general", eventNewMessage, "after drop")
	h.broadcast("srvA", "random", eventNewMessage, "after drop")

	assert.Empty(t, u1.received())
	require.Len(t, u2.received(), 1)
}

func TestHub_LikeCarriesActingUser(t *testing.T) {
	h := newTestHub(t, nil, nil)
	u1 := &mockSub{id: "u1"}
	h.Registry().Join("srvA", "general", u1)

	h.broadcast("srvA", "general", eventLike, "msg-1", "user-42")

	events := u1.received()
	require.Len(t, events, 1)
	assert.Equal(t, eventLike, events[0].event)
	assert.Equal(t, []any{"msg-1", "user-42"}, events[0].args)
}

func TestHub_SingleRoomOrderPreserved(t *testing.T) {
	h := newTestHub(t, nil, nil)
	u1 := &mockSub{id: "u1"}
	u2 := &mockSub{id: "u2"}

	h.Registry().Join("srvA", "general", u1)
	h.Registry().Join("srvA", "general", u2)

	for _, payload := range []string{"e1", "e2", "e3"} {
		h.broadcast("srvA", "general", eventNewMessage, payload)
	}

	for _, sub := range []*mockSub{u1, u2} {
		events := sub.received()
		require.Len(t, events, 3, "subscriber %s", sub.ID())
		for i, want := range []string{"e1", "e2", "e3"} {
			assert.Equal(t, []any{want}, events[i].args)
		}
	}
}

func TestServerIDFromNamespace(t *testing.T) {
	assert.Equal(t, "abc123", serverIDFromNamespace("/server/abc123"))
	assert.Equal(t, "", serverIDFromNamespace("/server"))
	assert.Equal(t, "", serverIDFromNamespace(""))
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", normalizeToken("abc"))
	assert.Equal(t, "abc", normalizeToken("Bearer abc"))
	assert.Equal(t, "abc", normalizeToken("  bearer   abc "))
	assert.Equal(t, "", normalizeToken("   "))
}
