/*
Package user contains core data structures related to chat participant identity.

It defines the basic representation of a registered participant (the User struct),
used both internally and in websocket payloads.
*/
package user

// User represents one registered participant, bound to a single live connection.
// A User exists only while its connection is registered in a room; it is held
// exclusively by the registry and passed around by value.
type User struct {

	// ConnectionID is the opaque unique identifier of the live connection,
	// assigned by the transport layer and immutable for the connection's lifetime.
	ConnectionID string `json:"-"`

	// Username is the display name chosen at join time, stored trimmed.
	Username string `json:"username"`

	// Room is the room name chosen at join time, stored trimmed.
	Room string `json:"-"`
}
