/*
Package randx provides generation of unique identifiers.

Connection IDs are assigned by the transport layer at upgrade time and are opaque
to clients; message IDs identify individual broadcast records.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates an opaque unique identifier for a live connection.
// The ID is immutable for the connection's lifetime.
func ConnectionID() string {
	return "conn_" + uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
