/*
Package chat contains the core logic for the room-scoped relay: the connection
registry, room broadcasting, and per-connection session handling.

This file defines the Session, the per-connection coordinator that sequences
registry mutations and broadcasts in response to join, send, and disconnect
events. A session moves through Unjoined -> Joined -> Terminated; events for a
single connection are processed strictly sequentially by the transport layer,
so Session methods need no internal locking.
*/
package chat

import (
	"fmt"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/profanity"
)

// DeliveredReply is the acknowledgment text returned for a successfully
// broadcast text message.
const DeliveredReply = "Delivered!"

// welcomeText is the system message sent to a connection immediately after a
// successful join.
const welcomeText = "Welcome!"

type sessionState int

const (
	stateUnjoined sessionState = iota
	stateJoined
	stateTerminated
)

// Session coordinates one connection's interaction with the registry and
// broadcaster. It is owned by the connection's read loop.
type Session struct {
	connID      string
	registry    *Registry
	broadcaster *Broadcaster
	filter      profanity.Filter

	state sessionState

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewSession constructs a Session for a connection in the Unjoined state.
func NewSession(connID string, registry *Registry, broadcaster *Broadcaster, filter profanity.Filter) *Session {
	sessionLogger := logx.Logger().With().
		Str("component", "Session").
		Str("connection_id", connID).
		Logger()

	return &Session{
		connID:      connID,
		registry:    registry,
		broadcaster: broadcaster,
		filter:      filter,
		logger:      sessionLogger,
	}
}

// Join registers the connection in a room. On failure the session stays
// Unjoined and the error is returned for the reply; the connection is not added
// to any room. On success the joining connection receives a welcome message,
// the rest of the room is notified, and the updated roster is pushed to all
// members.
func (s *Session) Join(username, room string) *errs.CustomError {
	if s.state == stateJoined {
		return errs.NewError(errs.ErrAlreadyJoined)
	}
	if s.state == stateTerminated {
		return errs.NewError(errs.ErrInvalidUser)
	}

	u, customErr := s.registry.Add(s.connID, username, room)
	if customErr != nil {
		return customErr
	}

	s.state = stateJoined
	s.logger = s.logger.With().Str("room", u.Room).Str("username", u.Username).Logger()

	s.broadcaster.SendTo(s.connID, MessageEnvelope(AdminSender, welcomeText))
	s.broadcaster.SendToRoom(u.Room, MessageEnvelope(AdminSender, fmt.Sprintf("%s has joined!", u.Username)), s.connID)
	s.broadcaster.SendRosterUpdate(u.Room)

	s.logger.Info().Msg("Session joined room.")

	return nil
}

// SendText broadcasts a text message to the sender's full room, sender
// included, and returns the delivery acknowledgment. A connection without a
// registry entry or a message flagged by the profanity predicate short-circuits
// before any broadcast.
func (s *Session) SendText(text string) (string, *errs.CustomError) {
	u, ok := s.registry.Get(s.connID)
	if !ok {
		return "", errs.NewError(errs.ErrInvalidUser)
	}

	if s.filter.IsProfane(text) {
		s.logger.Info().Msg("Message rejected by profanity filter.")
		return "", errs.NewError(errs.ErrProfanity)
	}

	s.broadcaster.SendToRoom(u.Room, MessageEnvelope(u.Username, text), "")

	return DeliveredReply, nil
}

// SendLocation broadcasts a location message, encoding the coordinates as a
// maps URL, to the sender's full room. The same absent-user short-circuit as
// SendText applies.
func (s *Session) SendLocation(latitude, longitude float64) *errs.CustomError {
	u, ok := s.registry.Get(s.connID)
	if !ok {
		return errs.NewError(errs.ErrInvalidUser)
	}

	s.broadcaster.SendToRoom(u.Room, LocationEnvelope(u.Username, latitude, longitude), "")

	return nil
}

// Disconnect terminates the session. If the connection was registered, the
// remaining room members are notified and receive an updated roster; an
// Unjoined connection disconnects silently. Disconnect is idempotent.
func (s *Session) Disconnect() {
	if s.state == stateTerminated {
		return
	}
	s.state = stateTerminated

	u, ok := s.registry.Remove(s.connID)
	if !ok {
		return
	}

	s.broadcaster.SendToRoom(u.Room, MessageEnvelope(AdminSender, fmt.Sprintf("%s has left!", u.Username)), "")
	s.broadcaster.SendRosterUpdate(u.Room)

	s.logger.Info().Msg("Session terminated.")
}
