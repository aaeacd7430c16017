package ws

import "sync"

// Registry tracks which connections belong to which user. A user is online
// while at least one connection is registered; transitions are reported by
// reference counting, so a second device neither re-announces online nor
// flips the user offline when it alone disconnects.
type Registry struct {
	mu    sync.Mutex
	conns map[int]map[string]struct{}
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[int]map[string]struct{})}
}

// Register adds a connection for the user and reports whether this was the
// user's first live connection (the offline -> online transition).
func (r *Registry) Register(userID int, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[string]struct{})
		r.conns[userID] = set
	}
	set[connID] = struct{}{}
	return len(set) == 1
}

// Unregister removes a connection for the user and reports whether it was
// the last one (the online -> offline transition). Unknown connections are
// a no-op and never report a transition.
func (r *Registry) Unregister(userID int, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		return false
	}
	if _, ok := set[connID]; !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.conns, userID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns[userID]) > 0
}

// ConnectionsFor returns the ids of the user's live connections.
func (r *Registry) ConnectionsFor(userID int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.conns[userID]))
	for id := range r.conns[userID] {
		ids = append(ids, id)
	}
	return ids
}
