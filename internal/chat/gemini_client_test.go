package chat

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")

	_, err = NewGeminiClient(context.Background(), "   ", DefaultGeminiModel)
	require.Error(t, err)
}

func TestStopReasonUsesEnumName(t *testing.T) {
	// FinishReason is an integer enum; a bare string conversion would yield
	// the rune at that code point instead of the name.
	assert.Equal(t, "FinishReasonStop", stopReason(genai.FinishReasonStop))
	assert.Equal(t, "FinishReasonMaxTokens", stopReason(genai.FinishReasonMaxTokens))
	assert.NotEqual(t, string(rune(genai.FinishReasonStop)), stopReason(genai.FinishReasonStop))
}
