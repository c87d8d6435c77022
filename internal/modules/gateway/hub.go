package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	pkgredis "github.com/campuscord/core/internal/pkg/redis"
	"github.com/google/uuid"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// NewHub builds a gateway hub around an injectable registry. rc may be nil;
// cross-instance fan-out is then disabled.
func NewHub(registry *Registry, verify TokenVerifier, lookup MembershipLookup, rc *pkgredis.Client, logger *zap.Logger) *Hub {
	h := &Hub{
		registry: registry,
		verify:   verify,
		lookup:   lookup,
		rc:       rc,
		logger:   logger,
		sio:      socketio.NewServer(nil, nil),
		origin:   uuid.New().String(),
	}
	h.registerNamespace()
	return h
}

// Registry exposes the subscription registry (used by stats and tests).
func (h *Hub) Registry() *Registry { return h.registry }

// Run keeps the Redis subscriber alive until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}
	<-ctx.Done()
	h.sio.Close(nil)
}

// authenticate gates a handshake: credential check, then membership check.
// Every failure path collapses into errAuthentication; lookup errors fail
// closed rather than admit a connection on uncertainty.
func (h *Hub) authenticate(ctx context.Context, token, serverID string) (string, error) {
	if token == "" || serverID == "" {
		return "", errAuthentication
	}

	userID, err := h.verify(token)
	if err != nil || userID == "" {
		return "", errAuthentication
	}

	member, err := h.lookup(ctx, userID, serverID)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("gateway membership lookup failed", zap.String("serverId", serverID), zap.Error(err))
		}
		return "", errAuthentication
	}
	if !member {
		return "", errAuthentication
	}
	return userID, nil
}

// relay delivers an event to every current subscriber of the room, the
// emitter included. Deliveries are serialized under relayMu.
func (h *Hub) relay(serverID, room, event string, args ...any) {
	h.relayMu.Lock()
	defer h.relayMu.Unlock()

	for _, sub := range h.registry.Subscribers(serverID, room) {
		if err := sub.Emit(event, args...); err != nil && h.logger != nil {
			h.logger.Warn("gateway emit failed",
				zap.String("event", event),
				zap.String("sid", sub.ID()),
				zap.Error(err),
			)
		}
	}
}

// broadcast relays locally and publishes to peer instances.
func (h *Hub) broadcast(serverID, room, event string, args ...any) {
	h.relay(serverID, room, event, args...)

	if h.rc == nil {
		return
	}
	data, err := json.Marshal(fanoutEnvelope{
		Origin:   h.origin,
		ServerID: serverID,
		Room:     room,
		Event:    event,
		Args:     args,
	})
	if err != nil {
		return
	}
	if err := h.rc.Publish(context.Background(), redisChanEvents, string(data)); err != nil && h.logger != nil {
		h.logger.Warn("gateway publish failed", zap.String("channel", redisChanEvents), zap.Error(err))
	}
}

// disconnect removes the connection from all rooms before any later event is
// delivered to its former rooms.
func (h *Hub) disconnect(connID string) []string {
	h.relayMu.Lock()
	defer h.relayMu.Unlock()
	return h.registry.DropAll(connID)
}

// subscribeRedis delivers broadcasts originating from other server instances
// to local subscribers only; remote events are never re-published.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var env fanoutEnvelope
			if err := json.Unmarshal([]byte(redisMsg.Payload), &env); err != nil {
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			h.relay(env.ServerID, env.Room, env.Event, env.Args...)
		}
	}
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}
