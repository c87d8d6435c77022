package gateway

import "sync"

// roomKey scopes a room name to one server context. The same name under two
// contexts is two distinct rooms.
type roomKey struct {
	serverID string
	room     string
}

// Registry is the per-gateway subscription map. Rooms have no independent
// existence: an absent key and an empty set are equivalent, and nothing here
// survives a process restart.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[roomKey]map[string]Subscriber
	joined map[string]map[roomKey]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[roomKey]map[string]Subscriber),
		joined: make(map[string]map[roomKey]struct{}),
	}
}

// Join subscribes sub to (serverID, room). Joining twice is a no-op.
func (r *Registry) Join(serverID, room string, sub Subscriber) {
	if serverID == "" || room == "" || sub == nil {
		return
	}
	key := roomKey{serverID: serverID, room: room}

	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[key]
	if !ok {
		members = make(map[string]Subscriber)
		r.rooms[key] = members
	}
	members[sub.ID()] = sub

	set, ok := r.joined[sub.ID()]
	if !ok {
		set = make(map[roomKey]struct{})
		r.joined[sub.ID()] = set
	}
	set[key] = struct{}{}
}

// Leave removes the connection from (serverID, room). Leaving a room not
// joined is a no-op.
func (r *Registry) Leave(serverID, room, connID string) {
	key := roomKey{serverID: serverID, room: room}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(key, connID)
}

// DropAll removes the connection from every room it had joined and returns
// the names of the rooms it left.
func (r *Registry) DropAll(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.joined[connID]
	if !ok {
		return nil
	}

	left := make([]string, 0, len(set))
	for key := range set {
		left = append(left, key.room)
		if members, ok := r.rooms[key]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, key)
			}
		}
	}
	delete(r.joined, connID)
	return left
}

// Subscribers returns a snapshot of the current members of (serverID, room).
func (r *Registry) Subscribers(serverID, room string) []Subscriber {
	key := roomKey{serverID: serverID, room: room}

	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[key]
	if !ok {
		return nil
	}
	subs := make([]Subscriber, 0, len(members))
	for _, sub := range members {
		subs = append(subs, sub)
	}
	return subs
}

// Count returns the number of subscribers of (serverID, room).
func (r *Registry) Count(serverID, room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomKey{serverID: serverID, room: room}])
}

// Stats returns the current number of non-empty rooms and live connections.
func (r *Registry) Stats() (rooms, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), len(r.joined)
}

func (r *Registry) dropLocked(key roomKey, connID string) {
	if members, ok := r.rooms[key]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, key)
		}
	}
	if set, ok := r.joined[connID]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(r.joined, connID)
		}
	}
}
