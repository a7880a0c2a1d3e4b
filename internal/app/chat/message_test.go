package chat_test

import (
	"encoding/json"
	"testing"
	"time"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/app/user"
)

// TestNewMessage verifies that the formatter produces a record carrying the
// sender, text, a message ID, and a creation timestamp close to now.
func TestNewMessage(t *testing.T) {
	before := time.Now().UnixMilli()
	msg := chat.NewMessage("Alice", "hello")
	after := time.Now().UnixMilli()

	if msg.Sender != "Alice" {
		t.Errorf("Sender = %q, want %q", msg.Sender, "Alice")
	}
	if msg.Text != "hello" {
		t.Errorf("Text = %q, want %q", msg.Text, "hello")
	}
	if msg.ID == "" {
		t.Error("ID is empty")
	}
	if msg.CreatedAt < before || msg.CreatedAt > after {
		t.Errorf("CreatedAt = %d, want between %d and %d", msg.CreatedAt, before, after)
	}
}

// TestLocationURL verifies the maps URL format used for location messages.
func TestLocationURL(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     string
	}{
		{13.7, -42.25, "https://google.com/maps/@13.7,-42.25"},
		{0, 0, "https://google.com/maps/@0,0"},
		{51.5074, -0.1278, "https://google.com/maps/@51.5074,-0.1278"},
	}

	for _, tc := range cases {
		if got := chat.LocationURL(tc.lat, tc.lng); got != tc.want {
			t.Errorf("LocationURL(%v, %v) = %q, want %q", tc.lat, tc.lng, got, tc.want)
		}
	}
}

// TestEnvelopeKinds verifies that the envelope constructors tag their frames
// with the expected event types.
func TestEnvelopeKinds(t *testing.T) {
	if env := chat.MessageEnvelope("Alice", "hi"); env.Type != chat.TypeMessage {
		t.Errorf("MessageEnvelope type = %q", env.Type)
	}
	if env := chat.LocationEnvelope("Alice", 1, 2); env.Type != chat.TypeLocationMessage {
		t.Errorf("LocationEnvelope type = %q", env.Type)
	}
	if env := chat.RoomDataEnvelope("lobby", nil); env.Type != chat.TypeRoomData {
		t.Errorf("RoomDataEnvelope type = %q", env.Type)
	}
}

// TestRoomDataEnvelopeWireShape verifies that a roster marshals to the wire as
// {room, users: [{username}, ...]} without leaking connection identifiers.
func TestRoomDataEnvelopeWireShape(t *testing.T) {
	env := chat.RoomDataEnvelope("lobby", []user.User{
		{ConnectionID: "conn_1", Username: "Alice", Room: "lobby"},
		{ConnectionID: "conn_2", Username: "Bob", Room: "lobby"},
	})

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			Room  string              `json:"room"`
			Users []map[string]string `json:"users"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Payload.Room != "lobby" {
		t.Errorf("room = %q", decoded.Payload.Room)
	}
	if len(decoded.Payload.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(decoded.Payload.Users))
	}
	if decoded.Payload.Users[0]["username"] != "Alice" || decoded.Payload.Users[1]["username"] != "Bob" {
		t.Errorf("unexpected users payload: %+v", decoded.Payload.Users)
	}
	for _, u := range decoded.Payload.Users {
		if len(u) != 1 {
			t.Errorf("user entry carries extra fields: %+v", u)
		}
	}
}
