package context

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/pkg/store"
)

func newAssembler(excerptLen int) *Assembler {
	return NewAssembler(excerptLen, log.New(io.Discard, "", 0))
}

func results(texts ...string) []store.RetrievalResult {
	out := make([]store.RetrievalResult, len(texts))
	for i, text := range texts {
		out[i] = store.RetrievalResult{
			Chunk: &store.Chunk{Text: text, Ordinal: i * 2},
			Score: 0.9 - float64(i)*0.05,
		}
	}
	return out
}

func TestAssembleNumbersBlocksInRankedOrder(t *testing.T) {
	ctx, refs := newAssembler(0).Assemble(results("alpha text", "beta text", "gamma text"))

	assert.Contains(t, ctx, "[1] alpha text")
	assert.Contains(t, ctx, "[2] beta text")
	assert.Contains(t, ctx, "[3] gamma text")
	assert.True(t, strings.Index(ctx, "[1]") < strings.Index(ctx, "[2]"))

	blocks := strings.Split(ctx, "\n\n")
	assert.Len(t, blocks, 3)

	require.Len(t, refs, 3)
	assert.Equal(t, 0, refs[0].Ordinal)
	assert.Equal(t, 2, refs[1].Ordinal)
	assert.InDelta(t, 0.9, refs[0].Score, 1e-9)
}

func TestAssembleEmptyInputReturnsSentinel(t *testing.T) {
	ctx, refs := newAssembler(0).Assemble(nil)

	assert.Equal(t, NoRelevantContext, ctx)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestAssembleTruncatesExcerpts(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, refs := newAssembler(40).Assemble(results(long))

	require.Len(t, refs, 1)
	assert.Equal(t, strings.Repeat("x", 40)+"...", refs[0].Excerpt)
}

func TestAssembleShortTextKeptVerbatim(t *testing.T) {
	_, refs := newAssembler(40).Assemble(results("short"))

	require.Len(t, refs, 1)
	assert.Equal(t, "short", refs[0].Excerpt)
}
