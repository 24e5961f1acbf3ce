package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/store"
)

// recordingProvider captures the history it was given so the prompt
// construction can be asserted on.
type recordingProvider struct {
	answer  string
	err     error
	history []llm.Message
}

func (p *recordingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.history = history
	return p.answer, p.err
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func newTestGenerator(provider llm.LLMProvider) *Generator {
	return NewGenerator(provider, log.New(io.Discard, "", 0))
}

func TestGeneratePromptContainsContextAndQuestion(t *testing.T) {
	provider := &recordingProvider{answer: "  Chloroplasts capture light.  "}
	gen := newTestGenerator(provider)

	answer, err := gen.Generate(context.Background(), "What captures light?", "[1] Chloroplasts capture light.", nil, store.VariantOriginal)
	require.NoError(t, err)
	assert.Equal(t, "Chloroplasts capture light.", answer)

	require.Len(t, provider.history, 1)
	prompt := provider.history[0].Content
	assert.Contains(t, prompt, "[1] Chloroplasts capture light.")
	assert.Contains(t, prompt, "What captures light?")
	assert.Contains(t, prompt, RefusalAnswer)
	assert.NotContains(t, prompt, "translated rendition")
}

func TestGeneratePrependsHistoryBeforePrompt(t *testing.T) {
	provider := &recordingProvider{answer: "ok"}
	gen := newTestGenerator(provider)

	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	_, err := gen.Generate(context.Background(), "follow-up", "[1] excerpt", history, store.VariantOriginal)
	require.NoError(t, err)

	require.Len(t, provider.history, 3)
	assert.Equal(t, "earlier question", provider.history[0].Content)
	assert.Equal(t, "earlier answer", provider.history[1].Content)
	assert.Equal(t, "user", provider.history[2].Role)
	assert.True(t, strings.Contains(provider.history[2].Content, "follow-up"))
}

func TestGenerateTranslatedVariantAddsLanguageGuideline(t *testing.T) {
	provider := &recordingProvider{answer: "ok"}
	gen := newTestGenerator(provider)

	_, err := gen.Generate(context.Background(), "q", "[1] excerpt", nil, store.VariantTranslated)
	require.NoError(t, err)
	assert.Contains(t, provider.history[0].Content, "translated rendition")
}

func TestGenerateSurfacesProviderError(t *testing.T) {
	providerErr := errors.New("backend unreachable")
	provider := &recordingProvider{err: providerErr}
	gen := newTestGenerator(provider)

	_, err := gen.Generate(context.Background(), "q", "[1] excerpt", nil, store.VariantOriginal)
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
}
