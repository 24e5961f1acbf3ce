package store

import (
	"fmt"
	"time"
)

// Variant selects which rendition of a material's text backs the index.
// A material may carry both renditions at once; each gets its own index.
type Variant string

const (
	VariantOriginal   Variant = "original"
	VariantTranslated Variant = "translated"
)

// ParseVariant validates a user-supplied variant string. Empty defaults to original.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantOriginal, "":
		return VariantOriginal, nil
	case VariantTranslated:
		return VariantTranslated, nil
	default:
		return "", fmt.Errorf("unknown language variant %q", s)
	}
}

// Chunk is one bounded span of source text plus its embedding vector.
type Chunk struct {
	Text      string
	Embedding []float32
	Ordinal   int // 0-based position in the source document
}

// MaterialIndex is the retrieval state for one (material, variant) pair.
// It is immutable once published: re-initialization replaces the whole value.
type MaterialIndex struct {
	MaterialId    string
	Variant       Variant
	Chunks        []Chunk
	ContentHash   string
	InitializedAt time.Time
}

// RetrievalResult pairs a chunk with its similarity score for one query.
// Results are ephemeral and never persisted.
type RetrievalResult struct {
	Chunk *Chunk
	Score float64
}

// Reference is the caller-facing trace of one retrieved chunk.
type Reference struct {
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}
