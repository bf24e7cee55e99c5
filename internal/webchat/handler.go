package webchat

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/medcompanion/medcompanion-ai/internal/chat"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

// Handler serves the real-time web chat channel. Every connection gets its
// own conversation session, so concurrent visitors never share history.
type Handler struct {
	sessions *chat.SessionManager
	logger   *logging.Logger
}

// InboundMessage is what the chat widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "message", "typing", "session", "pong", "error"
	Text      string `json:"text,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Refused   bool   `json:"refused,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewHandler creates a web chat handler.
func NewHandler(sessions *chat.SessionManager, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	var engine *chat.Engine
	if sessionID == "" {
		sessionID, engine = h.sessions.NewSession()
	} else {
		engine = h.sessions.Session(sessionID)
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Expected a non-empty message frame.",
			})
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		result := engine.Chat(r.Context(), msg.Text, true)
		if result.Err != nil {
			h.logger.Error("webchat: chat failed", "session_id", sessionID, "error", result.Err)
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Text:      result.Response,
			Role:      chat.RoleAssistant,
			Refused:   result.Refused,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
