/*
Package chat contains the core logic for the room-scoped relay: the connection
registry, room broadcasting, and per-connection session handling.

This file defines the Registry, the single piece of shared mutable state: the
in-memory index from connection ID to registered participant.
*/
package chat

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// RoomInfo describes one active room for introspection.
type RoomInfo struct {
	Room      string `json:"room"`
	Occupancy int    `json:"occupancy"`
}

// Registry is the in-memory membership index mapping connection ID to the
// registered User. All operations are internally synchronized; Add performs its
// uniqueness check and insert atomically, so concurrent joins with the same
// username in one room can never both succeed.
type Registry struct {
	// mu protects users and order.
	mu sync.RWMutex

	// users maps connection ID to the registered User.
	users map[string]user.User

	// order records connection IDs in insertion order, so roster snapshots
	// are deterministic.
	order []string

	// structured logger with registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		users:  make(map[string]user.User),
		order:  make([]string, 0),
		logger: registryLogger,
	}
}

// Add validates and registers a participant under the given connection ID.
// Username and room are trimmed of surrounding whitespace; both must be
// non-empty after trimming, and the username must not collide
// (case-insensitively) with another participant in the same room.
// On success it returns a copy of the stored User.
func (r *Registry) Add(connID, username, room string) (user.User, *errs.CustomError) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" || room == "" {
		return user.User{}, errs.NewError(errs.ErrCredentialsRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Room == room && strings.EqualFold(existing.Username, username) {
			r.logger.Info().
				Str("room", room).
				Str("username", username).
				Msg("Join rejected: username already taken in room.")

			return user.User{}, errs.NewError(errs.ErrUsernameTaken)
		}
	}

	u := user.User{
		ConnectionID: connID,
		Username:     username,
		Room:         room,
	}

	r.users[connID] = u
	r.order = append(r.order, connID)

	r.logger.Info().
		Str("connection_id", connID).
		Str("room", room).
		Str("username", username).
		Int("total_users", len(r.users)).
		Msg("User registered.")

	return u, nil
}

// Remove deletes the entry for the given connection ID if present and returns
// the removed User. Removing an unknown ID is not an error.
func (r *Registry) Remove(connID string) (user.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return user.User{}, false
	}

	delete(r.users, connID)

	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info().
		Str("connection_id", connID).
		Str("room", u.Room).
		Str("username", u.Username).
		Int("total_users", len(r.users)).
		Msg("User removed.")

	return u, true
}

// Get returns the registered User for a connection ID, if any.
func (r *Registry) Get(connID string) (user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[connID]
	return u, ok
}

// UsersInRoom returns the participants currently registered in the given room,
// in join order.
func (r *Registry) UsersInRoom(room string) []user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, 0)
	for _, id := range r.order {
		if u, ok := r.users[id]; ok && u.Room == room {
			users = append(users, u)
		}
	}

	return users
}

// Rooms returns every room with at least one registered participant, ordered by
// first join, along with its occupancy. Rooms exist implicitly: they appear on
// first join and vanish when the last member leaves.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]int)
	rooms := make([]RoomInfo, 0)

	for _, id := range r.order {
		u, ok := r.users[id]
		if !ok {
			continue
		}

		if idx, ok := seen[u.Room]; ok {
			rooms[idx].Occupancy++
			continue
		}

		seen[u.Room] = len(rooms)
		rooms = append(rooms, RoomInfo{Room: u.Room, Occupancy: 1})
	}

	return rooms
}
