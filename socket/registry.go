package socket

import (
	"hash/fnv"
	"sync"
)

// EmitFunc pushes one named event to a single live connection. It must not
// be assumed to succeed; the registry never retries.
type EmitFunc func(event string, payload interface{})

const shardCount = 16

type channelShard struct {
	mu    sync.RWMutex
	users map[string]map[string]EmitFunc // userId -> connId -> emit
}

// Registry tracks live connections and which personal delivery channel each
// one is subscribed to. State is process-local: on restart clients reconnect
// and re-join, so nothing here is persisted.
//
// User channels are sharded so unrelated users never contend on the same
// lock; the reverse conn->user index has its own mutex for O(1) cleanup on
// disconnect.
type Registry struct {
	shards [shardCount]*channelShard

	connMu sync.Mutex
	conns  map[string]string // connId -> userId
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{conns: make(map[string]string)}
	for i := range r.shards {
		r.shards[i] = &channelShard{users: make(map[string]map[string]EmitFunc)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *channelShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Subscribe associates a connection with a user's personal channel. A
// connection subscribes to at most one channel: a later call replaces any
// prior association. Re-subscribing the same connection to the same user is
// a no-op.
func (r *Registry) Subscribe(connID, userID string, emit EmitFunc) {
	r.connMu.Lock()
	prev, had := r.conns[connID]
	if had && prev == userID {
		r.connMu.Unlock()
		return
	}
	r.conns[connID] = userID
	r.connMu.Unlock()

	if had {
		r.removeFromChannel(prev, connID)
	}

	s := r.shardFor(userID)
	s.mu.Lock()
	set := s.users[userID]
	if set == nil {
		set = make(map[string]EmitFunc)
		s.users[userID] = set
	}
	set[connID] = emit
	s.mu.Unlock()
}

// Unsubscribe removes the connection on disconnect. Safe to call for a
// connection that never subscribed.
func (r *Registry) Unsubscribe(connID string) {
	r.connMu.Lock()
	userID, had := r.conns[connID]
	delete(r.conns, connID)
	r.connMu.Unlock()

	if had {
		r.removeFromChannel(userID, connID)
	}
}

func (r *Registry) removeFromChannel(userID, connID string) {
	s := r.shardFor(userID)
	s.mu.Lock()
	if set := s.users[userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(s.users, userID)
		}
	}
	s.mu.Unlock()
}

// Deliver sends the event to every connection subscribed to userID and
// returns how many connections were reached. Zero is not an error: the
// caller's durable record is the source of truth and the user simply reads
// it later. Each send runs on its own goroutine so a slow connection cannot
// stall the mutation that triggered the event.
func (r *Registry) Deliver(userID, event string, payload interface{}) int {
	s := r.shardFor(userID)
	s.mu.RLock()
	set := s.users[userID]
	emits := make([]EmitFunc, 0, len(set))
	for _, emit := range set {
		emits = append(emits, emit)
	}
	s.mu.RUnlock()

	for _, emit := range emits {
		go emit(event, payload)
	}
	return len(emits)
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	return r.Connections(userID) > 0
}

// Connections returns the number of live connections subscribed to userID.
func (r *Registry) Connections(userID string) int {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users[userID])
}
