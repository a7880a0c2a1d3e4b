/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, assigning the connection identity, and
initiating the client lifecycle.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request and runs
// the connection's read and write loops. A fresh connection ID and an Unjoined
// session are assigned per upgrade; joining a room happens over the socket.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		session := chat.NewSession(connID, deps.Registry, deps.Broadcaster, deps.Filter)
		client := chat.NewClient(connID, conn, session, deps.Broadcaster, deps.Config.MaxMessageBytes, deps.Config.SendQueueSize)

		go client.WritePump()

		logx.Info("WebSocket connection established", "connection_id", connID)

		client.ReadPump()
	}
}
