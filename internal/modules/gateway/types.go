package gateway

import (
	"context"
	"errors"
	"sync"

	pkgredis "github.com/campuscord/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	// Client-to-gateway events.
	eventJoinChannel  = "joinChannel"
	eventLeaveChannel = "leaveChannel"
	eventSendMessage  = "sendMessage"
	eventLike         = "like"
	eventDislike      = "dislike"

	// Gateway-to-client events.
	eventNewMessage = "newMessage"

	redisChanEvents = "cc:gateway:events"
)

// errAuthentication is the single rejection reason surfaced to clients.
// Credential failures, missing memberships and lookup errors are deliberately
// indistinguishable so unauthenticated callers learn nothing about membership.
var errAuthentication = errors.New("authentication error")

// TokenVerifier validates a credential and returns the subject user id.
type TokenVerifier func(token string) (string, error)

// MembershipLookup reports whether userID belongs to serverID.
type MembershipLookup func(ctx context.Context, userID, serverID string) (bool, error)

// Subscriber is one live connection as seen by the relay.
type Subscriber interface {
	ID() string
	Emit(event string, args ...any) error
}

// fanoutEnvelope carries a relayed event between server instances over Redis.
type fanoutEnvelope struct {
	Origin   string `json:"origin"`
	ServerID string `json:"serverId"`
	Room     string `json:"room"`
	Event    string `json:"event"`
	Args     []any  `json:"args"`
}

// Hub authenticates realtime connections and relays room events.
type Hub struct {
	// relayMu serializes deliveries so per-room order matches emission order,
	// and disconnect cleanup completes before any later event is delivered.
	relayMu sync.Mutex

	registry *Registry
	verify   TokenVerifier
	lookup   MembershipLookup

	rc     *pkgredis.Client
	logger *zap.Logger
	sio    *socketio.Server
	origin string
}
