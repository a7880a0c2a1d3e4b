/*
Package chat contains the core logic for the room-scoped relay: the connection
registry, room broadcasting, and per-connection session handling.

This file defines the Broadcaster, which fans envelopes out to the live
connections of a room. Delivery is fire-and-forget: no acknowledgment is
collected, and connections that have gone away are skipped silently.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// Sink receives marshaled frames destined for one connection. The websocket
// client implements Sink with a buffered outbound queue; Queue must not block.
type Sink interface {
	Queue(frame []byte) error
}

// Broadcaster delivers envelopes to the connections currently registered in a
// room. It maintains its own index of live sinks, attached at upgrade time and
// detached on disconnect; room targeting is resolved through the Registry at
// send time, so broadcasts always address the current membership.
type Broadcaster struct {
	registry *Registry

	// mu protects conns.
	mu sync.RWMutex

	// conns maps connection ID to the live outbound sink.
	conns map[string]Sink

	// structured logger with broadcaster context.
	logger zerolog.Logger
}

// NewBroadcaster constructs a Broadcaster over the given registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	broadcasterLogger := logx.Logger().With().Str("component", "Broadcaster").Logger()

	return &Broadcaster{
		registry: registry,
		conns:    make(map[string]Sink),
		logger:   broadcasterLogger,
	}
}

// Attach registers the outbound sink for a live connection.
func (b *Broadcaster) Attach(connID string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conns[connID] = sink
}

// Detach removes the outbound sink for a connection. Detaching an unknown
// connection is a no-op.
func (b *Broadcaster) Detach(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.conns, connID)
}

// SendTo delivers an envelope to a single connection. Delivery to a detached
// connection is a silent no-op.
func (b *Broadcaster) SendTo(connID string, env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", string(env.Type)).Msg("Error marshaling envelope for direct send.")
		return
	}

	b.mu.RLock()
	sink, ok := b.conns[connID]
	b.mu.RUnlock()

	if !ok {
		return
	}

	if err := sink.Queue(frame); err != nil {
		b.logger.Warn().
			Err(err).
			Str("connection_id", connID).
			Str("event_type", string(env.Type)).
			Msg("Dropping direct frame: sink rejected it.")
	}
}

// SendToRoom delivers an envelope to every live connection currently registered
// in the room, skipping excludeConnID if non-empty. The envelope is marshaled
// once; broadcasting to an empty room is a no-op. Recipients that have
// disconnected since, or whose queue is full, are skipped without error.
func (b *Broadcaster) SendToRoom(room string, env Envelope, excludeConnID string) {
	members := b.registry.UsersInRoom(room)
	if len(members) == 0 {
		return
	}

	frame, err := json.Marshal(env)
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", string(env.Type)).Msg("Error marshaling envelope for broadcast.")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, member := range members {
		if member.ConnectionID == excludeConnID {
			continue
		}

		sink, ok := b.conns[member.ConnectionID]
		if !ok {
			// Registered but already detached: the disconnect raced the
			// broadcast. Not an error.
			continue
		}

		if err := sink.Queue(frame); err != nil {
			b.logger.Warn().
				Err(err).
				Str("connection_id", member.ConnectionID).
				Str("room", room).
				Msg("Dropping broadcast frame for one recipient.")
		}
	}
}

// SendRosterUpdate pushes the current roster of a room to every member,
// including the connection that triggered the change.
func (b *Broadcaster) SendRosterUpdate(room string) {
	b.SendToRoom(room, RoomDataEnvelope(room, b.registry.UsersInRoom(room)), "")
}
