package context

import (
	"fmt"
	"log"
	"strings"

	"ai-studymate-be/pkg/store"
)

// NoRelevantContext is the sentinel returned when retrieval produced nothing.
// Callers short-circuit on it and answer with a fixed refusal instead of
// invoking the completion provider.
const NoRelevantContext = "NO_RELEVANT_CONTEXT"

// DefaultExcerptLength caps reference excerpts in runes.
const DefaultExcerptLength = 160

// Assembler renders retrieved chunks into a bounded prompt context with
// citation markers plus a parallel, traceable reference list.
type Assembler struct {
	excerptLen int
	logger     *log.Logger
}

func NewAssembler(excerptLen int, logger *log.Logger) *Assembler {
	if excerptLen <= 0 {
		excerptLen = DefaultExcerptLength
	}
	return &Assembler{excerptLen: excerptLen, logger: logger}
}

// Assemble renders each retained chunk as a numbered block in ranked order
// and builds the reference list in the same order. Empty input yields the
// NoRelevantContext sentinel and no references.
func (a *Assembler) Assemble(results []store.RetrievalResult) (string, []store.Reference) {
	if len(results) == 0 {
		return NoRelevantContext, []store.Reference{}
	}

	var b strings.Builder
	references := make([]store.Reference, 0, len(results))

	for i, res := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, res.Chunk.Text)

		references = append(references, store.Reference{
			Ordinal: res.Chunk.Ordinal,
			Score:   res.Score,
			Excerpt: truncate(res.Chunk.Text, a.excerptLen),
		})
	}

	a.logger.Printf("[CONTEXT] Assembled %d blocks (%d characters)", len(results), b.Len())

	return b.String(), references
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
