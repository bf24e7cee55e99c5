package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/medcompanion/medcompanion-ai/internal/guardrails"
	"github.com/medcompanion/medcompanion-ai/internal/observability/metrics"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

// defaultContextTurns bounds how many past turns are included when building
// model context. Older turns stay in history but are excluded from prompts.
const defaultContextTurns = 3

// modelFailureReply is returned when the external model call fails. The raw
// error never reaches the user.
const modelFailureReply = "I apologize, but I encountered an error. Please try again. " +
	"If the problem persists, contact support."

// Turn is one completed user/assistant exchange. Turns are only created for
// successful, non-refused model calls.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Result is the outcome of one chat call. Refusals are successful policy
// outcomes, not errors: Refused is true and Err is nil.
type Result struct {
	Response string
	Category guardrails.Category
	Decision guardrails.Decision
	Refused  bool
	// Err carries the model-call failure detail, if any. It is internal
	// context for logging; Response already holds the user-safe text.
	Err error
}

// EngineConfig tunes one chat engine.
type EngineConfig struct {
	// ContextTurns overrides the number of history turns included in model
	// context. Zero means the default of 3.
	ContextTurns int
	// MaxTokens caps model output. Zero leaves the provider default.
	MaxTokens int32
	// Temperature for model sampling. Zero leaves the provider default.
	Temperature float32
	// InjectionGuard enables the prompt-injection scan on inbound messages.
	InjectionGuard bool
}

// Engine orchestrates the guardrail pipeline around the model: classify,
// decide, refuse or complete, append disclaimer, record history. Each engine
// owns its history; concurrent sessions get independent engines.
type Engine struct {
	client       LLMClient
	cfg          EngineConfig
	logger       *logging.Logger
	metrics      *metrics.ChatMetrics
	tracer       trace.Tracer
	contextTurns int

	mu      sync.Mutex
	history []Turn
}

// NewEngine creates a chat engine around an injected model client.
func NewEngine(client LLMClient, cfg EngineConfig, logger *logging.Logger, chatMetrics *metrics.ChatMetrics) *Engine {
	if client == nil {
		panic("chat: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	contextTurns := cfg.ContextTurns
	if contextTurns <= 0 {
		contextTurns = defaultContextTurns
	}
	return &Engine{
		client:       client,
		cfg:          cfg,
		logger:       logger,
		metrics:      chatMetrics,
		tracer:       otel.Tracer("medcompanion.internal.chat"),
		contextTurns: contextTurns,
	}
}

// Chat runs one user message through the guardrail pipeline.
func (e *Engine) Chat(ctx context.Context, userMessage string, includeHistory bool) Result {
	ctx, span := e.tracer.Start(ctx, "chat.message")
	defer span.End()

	category := guardrails.Classify(userMessage)
	decision, _ := guardrails.Decide(category)
	e.metrics.ObserveQuery(string(category), string(decision))

	if decision.Refused() {
		e.metrics.ObserveRefusal(string(category))
		e.logger.Info("chat: query refused",
			"category", category,
			"decision", decision,
		)
		return Result{
			Response: guardrails.RefusalText(category),
			Category: category,
			Decision: decision,
			Refused:  true,
		}
	}

	message := userMessage
	if e.cfg.InjectionGuard {
		scan := guardrails.ScanForInjection(userMessage)
		if scan.Blocked {
			e.metrics.ObserveInjectionBlocked()
			e.logger.Warn("chat: message blocked by injection guard",
				"score", scan.Score,
				"reasons", scan.Reasons,
			)
			return Result{
				Response: guardrails.BlockedQueryReply,
				Category: category,
				Decision: decision,
				Refused:  true,
			}
		}
		message = scan.Sanitized
	}

	req := LLMRequest{
		System:      SystemPrompt(),
		Messages:    e.buildMessages(message, includeHistory),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	start := time.Now()
	resp, err := e.complete(ctx, req)
	e.metrics.ObserveModelLatency(time.Since(start).Seconds())
	if err != nil {
		e.metrics.ObserveModelError()
		span.RecordError(err)
		e.logger.Error("chat: model call failed", "error", err, "category", category)
		return Result{
			Response: modelFailureReply,
			Category: category,
			Decision: decision,
			Err:      fmt.Errorf("chat: model call failed: %w", err),
		}
	}

	withDisclaimer := guardrails.AddDisclaimer(resp.Text, category)

	e.mu.Lock()
	e.history = append(e.history, Turn{User: userMessage, Assistant: withDisclaimer})
	e.mu.Unlock()

	return Result{
		Response: withDisclaimer,
		Category: category,
		Decision: decision,
	}
}

func (e *Engine) complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	ctx, span := e.tracer.Start(ctx, "chat.complete")
	defer span.End()
	return e.client.Complete(ctx, req)
}

// buildMessages assembles the bounded conversation context: up to the last
// contextTurns turns as alternating user/assistant messages, then the
// current message.
func (e *Engine) buildMessages(userMessage string, includeHistory bool) []Message {
	var msgs []Message
	if includeHistory {
		e.mu.Lock()
		turns := e.history
		if len(turns) > e.contextTurns {
			turns = turns[len(turns)-e.contextTurns:]
		}
		for _, turn := range turns {
			msgs = append(msgs,
				Message{Role: RoleUser, Content: turn.User},
				Message{Role: RoleAssistant, Content: turn.Assistant},
			)
		}
		e.mu.Unlock()
	}
	return append(msgs, Message{Role: RoleUser, Content: userMessage})
}

// MedicationInfo asks for a fixed-template overview of one medication,
// without conversation history.
func (e *Engine) MedicationInfo(ctx context.Context, name string) Result {
	query := fmt.Sprintf("Provide a brief overview of %s: what it is, what it's used for, and common side effects.", name)
	return e.Chat(ctx, query, false)
}

// ClearHistory resets the conversation. Idempotent.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// HistoryLen reports the number of stored turns.
func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history)
}
