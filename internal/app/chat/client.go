/*
Package chat contains the core logic for the room-scoped relay: the connection
registry, room broadcasting, and per-connection session handling.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle, the message communication loops (ReadPump
and WritePump), and dispatches inbound frames to the connection's Session.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// MaxContentBytes is the maximum allowed size (in bytes) for text message content.
	MaxContentBytes = 5000
)

// Client represents an active WebSocket connection. Each client owns one
// Session; all inbound events for the connection flow through ReadPump, which
// keeps per-connection processing strictly sequential.
type Client struct {
	// opaque connection identifier, assigned at upgrade time.
	connID string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// per-connection coordinator over registry and broadcaster.
	session *Session

	// broadcaster from which this client detaches on disconnect.
	broadcaster *Broadcaster

	// maximum allowed size (in bytes) of an inbound frame.
	readLimit int64

	// a buffered channel used to queue frames waiting to be sent to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client and attaches it to the broadcaster so that room
// broadcasts can reach it once it joins.
func NewClient(connID string, wsConn *websocket.Conn, session *Session, broadcaster *Broadcaster, readLimit int64, sendQueueSize int) *Client {
	clientLogger := logx.Logger().With().
		Str("connection_id", connID).
		Logger()

	client := &Client{
		connID:      connID,
		conn:        wsConn,
		session:     session,
		broadcaster: broadcaster,
		readLimit:   readLimit,
		send:        make(chan []byte, sendQueueSize),
		logger:      clientLogger,
	}

	broadcaster.Attach(connID, client)

	return client
}

// Queue implements Sink. It enqueues a marshaled frame for delivery without
// blocking; a full queue rejects the frame, which broadcast treats as a skip.
func (c *Client) Queue(frame []byte) error {
	select {
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("client send queue full")
	}
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), frame parsing, and performs cleanup upon
// connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(c.readLimit)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (Client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates: the session is torn down
// (announcing the departure if the connection had joined), the sink is detached,
// and the connection is closed.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.session.Disconnect()
	c.broadcaster.Detach(c.connID)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame parses a raw inbound frame and dispatches it by event type.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var inbound struct {
		Type    EventType       `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
		TempID  string          `json:"tempID,omitempty"`
	}

	if err := json.Unmarshal(frameBytes, &inbound); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame_bytes", frameBytes).
			Msg("Client sent invalid JSON")

		c.replyError("", errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch inbound.Type {
	case TypeJoin:
		c.handleJoin(inbound.Payload, inbound.TempID)

	case TypeSendMessage:
		c.handleSendMessage(inbound.Payload, inbound.TempID)

	case TypeSendLocation:
		c.handleSendLocation(inbound.Payload, inbound.TempID)

	default:
		c.logger.Warn().Str("event_type", string(inbound.Type)).Msg("Client sent unsupported event type")
		c.replyError(inbound.TempID, errs.NewError(errs.ErrUnsupportedEventType))
	}
}

// handleJoin processes an inbound join request.
func (c *Client) handleJoin(payloadBytes json.RawMessage, tempID string) {
	var joinPayload JoinPayload
	if err := json.Unmarshal(payloadBytes, &joinPayload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JOIN payload")
		c.replyError(tempID, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if customErr := c.session.Join(joinPayload.Username, joinPayload.Room); customErr != nil {
		c.replyError(tempID, customErr)
		return
	}

	c.replyAck(tempID, "")
}

// handleSendMessage processes an inbound text message.
func (c *Client) handleSendMessage(payloadBytes json.RawMessage, tempID string) {
	var textPayload TextPayload
	if err := json.Unmarshal(payloadBytes, &textPayload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid SEND_MESSAGE payload")
		c.replyError(tempID, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if len(textPayload.Text) > MaxContentBytes {
		c.replyError(tempID, errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	ack, customErr := c.session.SendText(textPayload.Text)
	if customErr != nil {
		c.replyError(tempID, customErr)
		return
	}

	c.replyAck(tempID, ack)
}

// handleSendLocation processes an inbound location share.
func (c *Client) handleSendLocation(payloadBytes json.RawMessage, tempID string) {
	var locationPayload LocationPayload
	if err := json.Unmarshal(payloadBytes, &locationPayload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid SEND_LOCATION payload")
		c.replyError(tempID, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if customErr := c.session.SendLocation(locationPayload.Latitude, locationPayload.Longitude); customErr != nil {
		c.replyError(tempID, customErr)
		return
	}

	c.replyAck(tempID, "")
}

// replyAck queues a success reply for an inbound frame.
func (c *Client) replyAck(tempID, message string) {
	c.queueEnvelope(AckEnvelope(tempID, message))
}

// replyError queues an error reply for an inbound frame.
func (c *Client) replyError(tempID string, customErr *errs.CustomError) {
	c.queueEnvelope(ErrorEnvelope(tempID, customErr))
}

// queueEnvelope marshals an envelope and queues it for this connection.
func (c *Client) queueEnvelope(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		c.logger.Error().Err(err).Str("event_type", string(env.Type)).Msg("Error marshaling reply envelope")
		return
	}

	if err := c.Queue(frame); err != nil {
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping reply")
	}
}

// WritePump handles writing frames from the Client.send channel to the
// WebSocket connection, and emits periodic Ping messages to keep the
// connection's heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
