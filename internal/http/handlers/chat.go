package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/medcompanion/medcompanion-ai/internal/chat"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

// ChatHandler exposes the chat orchestrator over HTTP.
type ChatHandler struct {
	sessions *chat.SessionManager
	logger   *logging.Logger
	version  string
}

// NewChatHandler creates the chat API handler.
func NewChatHandler(sessions *chat.SessionManager, version string, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		sessions: sessions,
		logger:   logger,
		version:  version,
	}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	// IncludeHistory defaults to true when omitted.
	IncludeHistory *bool `json:"include_history"`
	// SessionID selects an isolated conversation. Empty uses the shared
	// default session.
	SessionID string `json:"session_id"`
}

// ChatResponse is the body returned by the chat endpoints.
type ChatResponse struct {
	Response          string    `json:"response"`
	QueryType         string    `json:"query_type"`
	GuardrailDecision string    `json:"guardrail_decision"`
	IsRefused         bool      `json:"is_refused"`
	Timestamp         time.Time `json:"timestamp"`
	// Detail carries the internal error description on model failure.
	Detail string `json:"detail,omitempty"`
}

// MedicationInfoRequest is the body of POST /api/medication-info.
type MedicationInfoRequest struct {
	MedicationName string `json:"medication_name"`
	SessionID      string `json:"session_id"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	includeHistory := true
	if req.IncludeHistory != nil {
		includeHistory = *req.IncludeHistory
	}

	engine := h.sessions.Session(req.SessionID)
	result := engine.Chat(r.Context(), req.Message, includeHistory)
	h.writeResult(w, result)
}

// MedicationInfo handles POST /api/medication-info.
func (h *ChatHandler) MedicationInfo(w http.ResponseWriter, r *http.Request) {
	var req MedicationInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.MedicationName) == "" {
		http.Error(w, "medication_name is required", http.StatusBadRequest)
		return
	}

	engine := h.sessions.Session(req.SessionID)
	result := engine.MedicationInfo(r.Context(), req.MedicationName)
	h.writeResult(w, result)
}

// ClearHistory handles POST /api/clear-history.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	// An empty body clears the default session.
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.sessions.Session(req.SessionID).ClearHistory()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Conversation history cleared",
	})
}

// Stats handles GET /api/stats.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_length": h.sessions.Session(sessionID).HistoryLen(),
		"timestamp":           time.Now().UTC(),
	})
}

// Health handles GET /health.
func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// writeResult renders a chat result. Model failures keep the user-safe
// response body but surface as HTTP 500 with the error detail attached.
func (h *ChatHandler) writeResult(w http.ResponseWriter, result chat.Result) {
	resp := ChatResponse{
		Response:          result.Response,
		QueryType:         string(result.Category),
		GuardrailDecision: string(result.Decision),
		IsRefused:         result.Refused,
		Timestamp:         time.Now().UTC(),
	}
	status := http.StatusOK
	if result.Err != nil {
		status = http.StatusInternalServerError
		resp.Detail = result.Err.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
