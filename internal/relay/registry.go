// Package relay implements the core of the message relay: the connection
// registry that tracks channel membership, and the router that interprets
// client envelopes and computes broadcast fan-out.
package relay

import (
	"errors"
	"sync"
)

var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrUnknownConnection   = errors.New("connection not registered")
)

// RoleUnknown is the role label assigned to connections that have not
// declared a clientType yet.
const RoleUnknown = "unknown"

// Conn is the transport-side surface the relay needs from a live connection.
// Send must not block; it fails (or silently drops) when the connection is no
// longer open.
type Conn interface {
	ID() string
	Open() bool
	Send(data []byte) error
}

// PriorState is the membership a connection held when it was removed.
type PriorState struct {
	Channel string
	Role    string
}

type entry struct {
	conn    Conn
	channel string // "" until the first successful join
	role    string
}

// Registry is the process-wide map of live connections to their channel
// membership. A single mutex guards all access; every operation takes a
// consistent view, and MembersOf returns a snapshot that is safe to iterate
// while the registry keeps mutating.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register adds a new connection with no channel and the default role.
// Returns ErrDuplicateConnection if the identity is already present; the
// first registration wins.
func (r *Registry) Register(conn Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[conn.ID()]; ok {
		return ErrDuplicateConnection
	}
	r.entries[conn.ID()] = &entry{conn: conn, role: RoleUnknown}
	return nil
}

// Unregister removes the connection and reports the membership it held. It is
// safe to call more than once; a second call finds nothing, returns a zero
// PriorState and false, and has no other effect.
func (r *Registry) Unregister(conn Conn) (PriorState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[conn.ID()]
	if !ok {
		return PriorState{}, false
	}
	delete(r.entries, conn.ID())
	return PriorState{Channel: e.channel, Role: e.role}, true
}

// SetMembership overwrites the connection's channel and role, returning the
// channel it previously held ("" if it never joined). Channel validity is the
// router's concern; the registry stores what it is given.
func (r *Registry) SetMembership(conn Conn, channel, role string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[conn.ID()]
	if !ok {
		return "", ErrUnknownConnection
	}
	prior := e.channel
	e.channel = channel
	e.role = role
	return prior, nil
}

// Membership reports the connection's current channel and role. ok is false
// if the connection is not registered.
func (r *Registry) Membership(conn Conn) (channel, role string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[conn.ID()]
	if !ok {
		return "", "", false
	}
	return e.channel, e.role, true
}

// MembersOf returns every open connection currently assigned to channel,
// excluding exclude if given. The slice is a snapshot taken under the lock;
// callers iterate it freely while other connections come and go. Order is
// unspecified.
func (r *Registry) MembersOf(channel string, exclude Conn) []Conn {
	// The empty string is the unset assignment, never a channel name.
	if channel == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []Conn
	for id, e := range r.entries {
		if e.channel != channel || !e.conn.Open() {
			continue
		}
		if exclude != nil && id == exclude.ID() {
			continue
		}
		members = append(members, e.conn)
	}
	return members
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
