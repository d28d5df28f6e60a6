// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"redline/internal/middleware"
	"redline/internal/models"
	"redline/internal/notifications"
	"redline/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Event type tags on outbound WebSocket frames.
const (
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
)

// wsEvent is the frame sent to WebSocket subscribers.
type wsEvent struct {
	Type    string         `json:"type"`
	Payload models.Comment `json:"payload"`
}

// WebSocketCommentsHandler streams live comment events for one thread level
// of a report. The client picks the level with query parameters: report_id
// is required, answered_to selects a reply thread and defaults to the
// top level. Events for other levels of the same report are not delivered.
func (s *Server) WebSocketCommentsHandler() fiber.Handler {
	wsLogger := observability.NewWSLogger("comments")

	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		// Get userID from locals (set by WebSocketAuthRequired middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			wsLogger.LogError(context.Background(), 0, errors.New("unauthenticated connection attempt"), "auth")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		reportID, ok := parseQueryUint(conn, "report_id")
		if !ok || reportID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid report_id"}`))
			_ = conn.Close()
			return
		}

		// Zero and absent both mean the top level, so the subscription key
		// always has the same shape as event keys.
		var answeredTo *uint
		if v, ok := parseQueryUint(conn, "answered_to"); ok && v > 0 {
			answeredTo = &v
		}
		key := notifications.NewFilterKey(reportID, answeredTo)

		client, err := s.hub.Register(userID, conn, key)
		if err != nil {
			wsLogger.LogError(context.Background(), userID, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		// Subscribe for the lifetime of this connection. Cancelling the
		// context tears down both gateway streams.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		added := s.gateway.CommentAdded(ctx, key)
		updated := s.gateway.CommentUpdated(ctx, key)

		wsLogger.LogConnect(ctx, userID, reportID)

		go func() {
			for {
				select {
				case comment, open := <-added:
					if !open {
						return
					}
					forwardEvent(client, EventCommentCreated, comment)
				case comment, open := <-updated:
					if !open {
						return
					}
					forwardEvent(client, EventCommentUpdated, comment)
				case <-ctx.Done():
					return
				}
			}
		}()

		// Send welcome message
		welcome := fiber.Map{
			"type":      "connected",
			"report_id": reportID,
		}
		if answeredTo != nil {
			welcome["answered_to"] = *answeredTo
		}
		if welcomeJSON, err := json.Marshal(welcome); err == nil {
			client.TrySend(welcomeJSON)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking). The
		// stream is outbound-only; inbound frames keep the connection
		// alive but carry no commands.
		client.ReadPump()

		wsLogger.LogDisconnect(ctx, userID, reportID, "connection closed")
	})
}

// forwardEvent serializes one comment event and hands it to the client's
// send buffer. Slow consumers drop frames instead of blocking the stream.
func forwardEvent(client *notifications.Client, eventType string, comment models.Comment) {
	frame, err := json.Marshal(wsEvent{Type: eventType, Payload: comment})
	if err != nil {
		observability.GlobalLogger.Error("marshal event failed",
			"event_type", eventType, "error", err)
		return
	}
	client.TrySend(frame)
}

// parseQueryUint reads a non-negative integer query parameter from an
// upgraded connection. Absent reads as zero; ok is false only when the
// value is present but malformed.
func parseQueryUint(conn *websocket.Conn, name string) (uint, bool) {
	raw := conn.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
