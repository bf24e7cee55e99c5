package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medcompanion/medcompanion-ai/internal/chat"
	"github.com/medcompanion/medcompanion-ai/internal/guardrails"
)

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(_ context.Context, _ chat.LLMRequest) (chat.LLMResponse, error) {
	s.calls++
	if s.err != nil {
		return chat.LLMResponse{}, s.err
	}
	return chat.LLMResponse{Text: s.reply}, nil
}

func newTestHandler(stub *stubLLM) *ChatHandler {
	sessions := chat.NewSessionManager(stub, chat.EngineConfig{}, nil, nil)
	return NewChatHandler(sessions, "1.0.0-test", nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeChatResponse(t *testing.T, rec *httptest.ResponseRecorder) ChatResponse {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestChatEndpointAllowed(t *testing.T) {
	stub := &stubLLM{reply: "Metformin helps control blood sugar."}
	h := newTestHandler(stub)

	rec := postJSON(t, h.Chat, `{"message":"What is Metformin used for?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.Equal(t, "medication_info", resp.QueryType)
	assert.Equal(t, "require_disclaimer", resp.GuardrailDecision)
	assert.False(t, resp.IsRefused)
	assert.Empty(t, resp.Detail)
	assert.True(t, strings.HasPrefix(resp.Response, stub.reply))
	assert.True(t, strings.HasSuffix(resp.Response, guardrails.DisclaimerText(guardrails.CategoryMedicationInfo)))
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChatEndpointRefusedDosage(t *testing.T) {
	stub := &stubLLM{reply: "should never appear"}
	h := newTestHandler(stub)

	rec := postJSON(t, h.Chat, `{"message":"Should I take 500mg or 1000mg?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.Equal(t, "dosage", resp.QueryType)
	assert.Equal(t, "refuse_medical_advice", resp.GuardrailDecision)
	assert.True(t, resp.IsRefused)
	assert.Equal(t, guardrails.RefusalText(guardrails.CategoryDosage), resp.Response)
	assert.Zero(t, stub.calls, "refused queries must not reach the model")
}

func TestChatEndpointRefusedHarmful(t *testing.T) {
	h := newTestHandler(&stubLLM{})

	rec := postJSON(t, h.Chat, `{"message":"How can I overdose on this?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.Equal(t, "harmful", resp.QueryType)
	assert.Equal(t, "refuse_harmful", resp.GuardrailDecision)
	assert.True(t, resp.IsRefused)
	assert.Contains(t, resp.Response, "988")
}

func TestChatEndpointModelFailure(t *testing.T) {
	h := newTestHandler(&stubLLM{err: errors.New("upstream timeout")})

	rec := postJSON(t, h.Chat, `{"message":"What is Metformin used for?"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.False(t, resp.IsRefused)
	assert.Contains(t, resp.Response, "I apologize")
	assert.Contains(t, resp.Detail, "upstream timeout")
	assert.Equal(t, "medication_info", resp.QueryType)
}

func TestChatEndpointValidation(t *testing.T) {
	h := newTestHandler(&stubLLM{})

	rec := postJSON(t, h.Chat, `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Chat, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpointSessionIsolation(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	h := newTestHandler(stub)

	rec := postJSON(t, h.Chat, `{"message":"what is aspirin","session_id":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	statsReq := httptest.NewRequest(http.MethodGet, "/?session_id=a", nil)
	statsRec := httptest.NewRecorder()
	h.Stats(statsRec, statsReq)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats["conversation_length"])

	// Another session has its own empty history.
	statsReq = httptest.NewRequest(http.MethodGet, "/?session_id=b", nil)
	statsRec = httptest.NewRecorder()
	h.Stats(statsRec, statsReq)
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.EqualValues(t, 0, stats["conversation_length"])
}

func TestMedicationInfoEndpoint(t *testing.T) {
	stub := &stubLLM{reply: "Lisinopril is an ACE inhibitor."}
	h := newTestHandler(stub)

	rec := postJSON(t, h.MedicationInfo, `{"medication_name":"Lisinopril"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	// The synthesized overview query asks about side effects, so the
	// classifier reports side_effects rather than medication_info.
	assert.Equal(t, "side_effects", resp.QueryType)
	assert.False(t, resp.IsRefused)
	assert.True(t, strings.HasPrefix(resp.Response, stub.reply))

	rec = postJSON(t, h.MedicationInfo, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearHistoryEndpoint(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	h := newTestHandler(stub)

	postJSON(t, h.Chat, `{"message":"what is aspirin"}`)

	rec := postJSON(t, h.ClearHistory, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ack map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, "success", ack["status"])

	statsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	statsRec := httptest.NewRecorder()
	h.Stats(statsRec, statsReq)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.EqualValues(t, 0, stats["conversation_length"])

	// Clearing an already-empty history is fine.
	rec = postJSON(t, h.ClearHistory, ``)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&stubLLM{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0-test", body["version"])
}

func TestChatEndpointHistoryFlag(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	h := newTestHandler(stub)

	// include_history=false still answers and still records the turn.
	rec := postJSON(t, h.Chat, `{"message":"what is aspirin","include_history":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	statsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	statsRec := httptest.NewRecorder()
	h.Stats(statsRec, statsReq)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats["conversation_length"])
}
