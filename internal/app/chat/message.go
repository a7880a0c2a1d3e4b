/*
Package chat contains the core logic for the room-scoped relay: the connection
registry, room broadcasting, and per-connection session handling.

This file defines the wire envelope exchanged with clients and the message
formatter that produces timestamped message records.
*/
package chat

import (
	"strconv"
	"time"

	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/randx"
)

// EventType identifies the kind of frame carried in an Envelope.
type EventType string

// Inbound event types.
const (
	TypeJoin         EventType = "join"
	TypeSendMessage  EventType = "sendMessage"
	TypeSendLocation EventType = "sendLocation"
)

// Outbound event types.
const (
	TypeMessage         EventType = "message"
	TypeLocationMessage EventType = "locationMessage"
	TypeRoomData        EventType = "roomData"
	TypeAck             EventType = "ack"
	TypeError           EventType = "error"
)

// AdminSender is the reserved sender label for system messages
// (welcomes, join and leave notifications).
const AdminSender = "Admin"

// Envelope is the outbound wire frame sent to clients.
type Envelope struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Message is a formatted, timestamped message record. Messages are transient;
// they exist only for the duration of a broadcast and are never persisted.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// JoinPayload is the inbound payload of a TypeJoin frame.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// TextPayload is the inbound payload of a TypeSendMessage frame.
type TextPayload struct {
	Text string `json:"text"`
}

// LocationPayload is the inbound payload of a TypeSendLocation frame.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RoomDataPayload is the outbound payload of a TypeRoomData frame, carrying the
// current roster of a room.
type RoomDataPayload struct {
	Room  string      `json:"room"`
	Users []user.User `json:"users"`
}

// AckPayload is the outbound payload of a TypeAck frame, echoing the tempID of
// the inbound frame it acknowledges.
type AckPayload struct {
	TempID  string `json:"tempID,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorPayload is the outbound payload of a TypeError frame.
type ErrorPayload struct {
	TempID  string `json:"tempID,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMessage formats a timestamped message record from a sender label and text.
// CreatedAt is a millisecond Unix timestamp and is used only for client display.
func NewMessage(sender, text string) Message {
	return Message{
		ID:        randx.MessageID(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// LocationURL encodes a coordinate pair as a maps URL.
func LocationURL(latitude, longitude float64) string {
	return "https://google.com/maps/@" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}

// MessageEnvelope wraps a formatted plain-text message for the wire.
func MessageEnvelope(sender, text string) Envelope {
	return Envelope{Type: TypeMessage, Payload: NewMessage(sender, text)}
}

// LocationEnvelope wraps a formatted location message for the wire. The message
// text is a maps URL embedding the coordinates.
func LocationEnvelope(sender string, latitude, longitude float64) Envelope {
	return Envelope{Type: TypeLocationMessage, Payload: NewMessage(sender, LocationURL(latitude, longitude))}
}

// RoomDataEnvelope wraps a room roster for the wire.
func RoomDataEnvelope(room string, users []user.User) Envelope {
	return Envelope{Type: TypeRoomData, Payload: RoomDataPayload{Room: room, Users: users}}
}

// AckEnvelope wraps a success reply to an inbound frame.
func AckEnvelope(tempID, message string) Envelope {
	return Envelope{Type: TypeAck, Payload: AckPayload{TempID: tempID, Message: message}}
}

// ErrorEnvelope wraps an error reply to an inbound frame.
func ErrorEnvelope(tempID string, customErr *errs.CustomError) Envelope {
	return Envelope{
		Type: TypeError,
		Payload: ErrorPayload{
			TempID:  tempID,
			Code:    customErr.Code,
			Message: customErr.Message,
		},
	}
}
