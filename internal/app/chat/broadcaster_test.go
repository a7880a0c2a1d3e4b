package chat_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"chatrelay/internal/app/chat"
)

// recordingSink is a Sink that records every queued frame. When reject is set
// it refuses all frames, simulating a connection with a full send queue.
type recordingSink struct {
	mu     sync.Mutex
	frames [][]byte
	reject bool
}

func (s *recordingSink) Queue(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reject {
		return errors.New("queue full")
	}

	s.frames = append(s.frames, frame)
	return nil
}

// wireEnvelope mirrors the outbound frame shape for decoding in tests.
type wireEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// envelopes decodes every recorded frame.
func (s *recordingSink) envelopes(t *testing.T) []wireEnvelope {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	envs := make([]wireEnvelope, 0, len(s.frames))
	for _, frame := range s.frames {
		var env wireEnvelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("recorded frame is not a valid envelope: %v", err)
		}
		envs = append(envs, env)
	}
	return envs
}

// byType decodes recorded frames and filters them by event type.
func (s *recordingSink) byType(t *testing.T, eventType string) []wireEnvelope {
	t.Helper()

	matched := make([]wireEnvelope, 0)
	for _, env := range s.envelopes(t) {
		if env.Type == eventType {
			matched = append(matched, env)
		}
	}
	return matched
}

// messagePayload decodes one envelope's payload as a message record.
func messagePayload(t *testing.T, env wireEnvelope) chat.Message {
	t.Helper()

	var msg chat.Message
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		t.Fatalf("payload is not a message record: %v", err)
	}
	return msg
}

// rosterPayload decodes one envelope's payload as a roster and returns the usernames.
func rosterPayload(t *testing.T, env wireEnvelope) (string, []string) {
	t.Helper()

	var payload struct {
		Room  string `json:"room"`
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload is not a roster: %v", err)
	}

	names := make([]string, 0, len(payload.Users))
	for _, u := range payload.Users {
		names = append(names, u.Username)
	}
	return payload.Room, names
}

// TestBroadcastEmptyRoomIsNoop verifies that sending to a room with no members
// completes without error and delivers nothing.
func TestBroadcastEmptyRoomIsNoop(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	sink := &recordingSink{}
	broadcaster.Attach("conn_1", sink)

	broadcaster.SendToRoom("lobby", chat.MessageEnvelope("Admin", "anyone there?"), "")

	if len(sink.envelopes(t)) != 0 {
		t.Errorf("expected no deliveries, got %d", len(sink.frames))
	}
}

// TestSendToRoomDeliversToCurrentMembers verifies that every registered member
// of the room receives the frame and members of other rooms do not.
func TestSendToRoomDeliversToCurrentMembers(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	alice, bob, eve := &recordingSink{}, &recordingSink{}, &recordingSink{}
	broadcaster.Attach("conn_a", alice)
	broadcaster.Attach("conn_b", bob)
	broadcaster.Attach("conn_e", eve)

	registry.Add("conn_a", "Alice", "lobby")
	registry.Add("conn_b", "Bob", "lobby")
	registry.Add("conn_e", "Eve", "den")

	broadcaster.SendToRoom("lobby", chat.MessageEnvelope("Alice", "hello"), "")

	for name, sink := range map[string]*recordingSink{"alice": alice, "bob": bob} {
		msgs := sink.byType(t, string(chat.TypeMessage))
		if len(msgs) != 1 {
			t.Fatalf("%s: expected 1 message, got %d", name, len(msgs))
		}
		if msg := messagePayload(t, msgs[0]); msg.Sender != "Alice" || msg.Text != "hello" {
			t.Errorf("%s got unexpected message: %+v", name, msg)
		}
	}

	if len(eve.envelopes(t)) != 0 {
		t.Error("member of another room received the broadcast")
	}
}

// TestSendToRoomExcludesConnection verifies that the optional exclusion skips
// the originating connection.
func TestSendToRoomExcludesConnection(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	alice, bob := &recordingSink{}, &recordingSink{}
	broadcaster.Attach("conn_a", alice)
	broadcaster.Attach("conn_b", bob)

	registry.Add("conn_a", "Alice", "lobby")
	registry.Add("conn_b", "Bob", "lobby")

	broadcaster.SendToRoom("lobby", chat.MessageEnvelope("Admin", "Alice has joined!"), "conn_a")

	if len(alice.envelopes(t)) != 0 {
		t.Error("excluded connection received the broadcast")
	}
	if len(bob.byType(t, string(chat.TypeMessage))) != 1 {
		t.Error("non-excluded member did not receive the broadcast")
	}
}

// TestSendToRoomSkipsDisconnectedMembers verifies that a member whose sink has
// been detached, or whose queue rejects the frame, is skipped silently while
// the rest of the room is still served.
func TestSendToRoomSkipsDisconnectedMembers(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	alice, bob, carol := &recordingSink{}, &recordingSink{reject: true}, &recordingSink{}
	broadcaster.Attach("conn_a", alice)
	broadcaster.Attach("conn_b", bob)
	broadcaster.Attach("conn_c", carol)

	registry.Add("conn_a", "Alice", "lobby")
	registry.Add("conn_b", "Bob", "lobby")
	registry.Add("conn_c", "Carol", "lobby")

	// Alice's disconnect raced the broadcast: still registered, sink gone.
	broadcaster.Detach("conn_a")

	broadcaster.SendToRoom("lobby", chat.MessageEnvelope("Carol", "hi"), "")

	if len(alice.envelopes(t)) != 0 {
		t.Error("detached sink received the broadcast")
	}
	if len(bob.envelopes(t)) != 0 {
		t.Error("rejecting sink recorded a frame")
	}
	if len(carol.byType(t, string(chat.TypeMessage))) != 1 {
		t.Error("healthy member did not receive the broadcast")
	}
}

// TestSendRosterUpdate verifies that the roster push reaches every member of
// the room, including the connection that triggered the change.
func TestSendRosterUpdate(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	alice, bob := &recordingSink{}, &recordingSink{}
	broadcaster.Attach("conn_a", alice)
	broadcaster.Attach("conn_b", bob)

	registry.Add("conn_a", "Alice", "lobby")
	registry.Add("conn_b", "Bob", "lobby")

	broadcaster.SendRosterUpdate("lobby")

	for name, sink := range map[string]*recordingSink{"alice": alice, "bob": bob} {
		rosters := sink.byType(t, string(chat.TypeRoomData))
		if len(rosters) != 1 {
			t.Fatalf("%s: expected 1 roster push, got %d", name, len(rosters))
		}

		room, names := rosterPayload(t, rosters[0])
		if room != "lobby" {
			t.Errorf("%s: roster room = %q", name, room)
		}
		if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
			t.Errorf("%s: roster = %v", name, names)
		}
	}
}

// TestSendToUnknownConnectionIsNoop verifies that direct delivery to a
// connection that was never attached, or already detached, is silent.
func TestSendToUnknownConnectionIsNoop(t *testing.T) {
	registry := chat.NewRegistry()
	broadcaster := chat.NewBroadcaster(registry)

	broadcaster.SendTo("conn_missing", chat.MessageEnvelope("Admin", "Welcome!"))

	sink := &recordingSink{}
	broadcaster.Attach("conn_1", sink)
	broadcaster.Detach("conn_1")

	broadcaster.SendTo("conn_1", chat.MessageEnvelope("Admin", "Welcome!"))

	if len(sink.envelopes(t)) != 0 {
		t.Error("detached connection received a direct frame")
	}
}
