package gateway

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"time"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// serverNamespacePattern matches one dynamic namespace per server context,
// e.g. /server/42.
var serverNamespacePattern = regexp.MustCompile(`^/server/\w+$`)

const handshakeTimeout = 5 * time.Second

// socketSubscriber adapts a socket.io client to the relay's Subscriber.
type socketSubscriber struct {
	client *socketio.Socket
}

func (s *socketSubscriber) ID() string { return string(s.client.Id()) }

func (s *socketSubscriber) Emit(event string, args ...any) error {
	return s.client.Emit(event, args...)
}

func (h *Hub) registerNamespace() {
	ns := h.sio.Of(serverNamespacePattern, nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		serverID := serverIDFromNamespace(string(client.Nsp().Name()))
		token := normalizeToken(extractToken(client))

		ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
		userID, err := h.authenticate(ctx, token, serverID)
		cancel()
		if err != nil {
			_ = client.Emit("auth_error", errAuthentication.Error())
			client.Disconnect(true)
			return
		}

		sub := &socketSubscriber{client: client}
		sid := sub.ID()

		if h.logger != nil {
			h.logger.Info("gateway connected", zap.String("sid", sid), zap.String("userId", userID), zap.String("serverId", serverID))
		}

		_ = client.On(eventJoinChannel, func(eventArgs ...any) {
			roomName := strArg(eventArgs, 0)
			if roomName == "" {
				return
			}
			h.registry.Join(serverID, roomName, sub)
		})

		_ = client.On(eventLeaveChannel, func(eventArgs ...any) {
			roomName := strArg(eventArgs, 0)
			if roomName == "" {
				return
			}
			h.registry.Leave(serverID, roomName, sid)
		})

		_ = client.On(eventSendMessage, func(eventArgs ...any) {
			ack, rest := ackOf(eventArgs)
			roomName := strArg(rest, 0)
			if roomName == "" || len(rest) < 2 {
				return
			}
			// The payload is relayed untouched; authorship is not re-stamped
			// here, matching like/dislike's asymmetric attribution.
			h.broadcast(serverID, roomName, eventNewMessage, rest[1])
			if ack != nil {
				ack(nil, nil)
			}
		})

		_ = client.On(eventLike, func(eventArgs ...any) {
			roomName := strArg(eventArgs, 0)
			messageID := strArg(eventArgs, 1)
			if roomName == "" || messageID == "" {
				return
			}
			// The acting user's identity is attached server-side; the client
			// payload is never trusted for it.
			h.broadcast(serverID, roomName, eventLike, messageID, userID)
		})

		_ = client.On(eventDislike, func(eventArgs ...any) {
			roomName := strArg(eventArgs, 0)
			messageID := strArg(eventArgs, 1)
			if roomName == "" || messageID == "" {
				return
			}
			h.broadcast(serverID, roomName, eventDislike, messageID, userID)
		})

		_ = client.On("disconnect", func(_ ...any) {
			h.disconnect(sid)
			if h.logger != nil {
				h.logger.Info("gateway disconnected", zap.String("sid", sid), zap.String("serverId", serverID))
			}
		})
	})
}

// serverIDFromNamespace extracts the server id from a namespace name like
// "/server/<id>".
func serverIDFromNamespace(name string) string {
	parts := strings.Split(name, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func extractToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	if auth, ok := handshake.Auth.(map[string]interface{}); ok {
		if token, ok := auth["token"].(string); ok && strings.TrimSpace(token) != "" {
			return token
		}
	}
	if token := firstValueFromMultiMap(handshake.Query, "token"); token != "" {
		return token
	}
	if token := firstValueFromMultiMap(handshake.Headers, "authorization"); token != "" {
		return token
	}
	return ""
}

func firstValueFromMultiMap(values map[string][]string, key string) string {
	if len(values) == 0 {
		return ""
	}
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		v := strings.TrimSpace(list[0])
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// strArg returns the i-th argument as a trimmed string, or "" when absent or
// of another type. Malformed event arguments degrade to no-ops.
func strArg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return strings.TrimSpace(s)
}

var ackFuncType = reflect.TypeOf((func([]any, error))(nil))

// ackOf splits a trailing acknowledgment callback from the event arguments.
// The callback may arrive as a raw func or as a named type defined over the
// same signature, so matching falls back to a reflective conversion.
func ackOf(args []any) (func([]any, error), []any) {
	if len(args) == 0 {
		return nil, args
	}
	last := args[len(args)-1]
	if ack, ok := last.(func([]any, error)); ok {
		return ack, args[:len(args)-1]
	}
	rv := reflect.ValueOf(last)
	if rv.Kind() == reflect.Func && rv.Type().ConvertibleTo(ackFuncType) {
		ack := rv.Convert(ackFuncType).Interface().(func([]any, error))
		return ack, args[:len(args)-1]
	}
	return nil, args
}
