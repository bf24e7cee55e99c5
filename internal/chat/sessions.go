package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/medcompanion/medcompanion-ai/internal/observability/metrics"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

// DefaultSessionID is the session used when a caller does not supply one.
// It preserves the original single-conversation API behavior.
const DefaultSessionID = "default"

// SessionManager hands out one engine per session so concurrent
// conversations never share history.
type SessionManager struct {
	client  LLMClient
	cfg     EngineConfig
	logger  *logging.Logger
	metrics *metrics.ChatMetrics

	mu       sync.Mutex
	sessions map[string]*Engine
}

// NewSessionManager creates a session registry that builds engines around a
// shared model client.
func NewSessionManager(client LLMClient, cfg EngineConfig, logger *logging.Logger, chatMetrics *metrics.ChatMetrics) *SessionManager {
	if client == nil {
		panic("chat: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionManager{
		client:   client,
		cfg:      cfg,
		logger:   logger,
		metrics:  chatMetrics,
		sessions: make(map[string]*Engine),
	}
}

// Session returns the engine for a session ID, creating it on first use.
// An empty ID maps to the default session.
func (m *SessionManager) Session(id string) *Engine {
	if id == "" {
		id = DefaultSessionID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	engine, ok := m.sessions[id]
	if !ok {
		engine = NewEngine(m.client, m.cfg, m.logger, m.metrics)
		m.sessions[id] = engine
	}
	return engine
}

// NewSession creates a fresh session with a generated ID and returns both.
func (m *SessionManager) NewSession() (string, *Engine) {
	id := uuid.NewString()
	return id, m.Session(id)
}

// Drop removes a session and its history. Dropping an unknown ID is a no-op.
func (m *SessionManager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
