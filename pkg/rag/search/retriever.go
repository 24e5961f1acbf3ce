package search

import (
	"log"
	"math"
	"sort"

	"ai-studymate-be/pkg/store"
)

// epsilon substitutes a zero norm in the cosine denominator so a degenerate
// vector scores near zero instead of dividing by zero.
const epsilon = 1e-9

// Config encapsulates retrieval parameters. Threshold and TopK are the
// primary quality/recall knobs and always come from configuration.
type Config struct {
	Threshold float64
	TopK      int
}

// DefaultConfig returns the retrieval defaults.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.75,
		TopK:      5,
	}
}

// Retriever scores every chunk of an index against a query embedding.
type Retriever struct {
	logger *log.Logger
}

func NewRetriever(logger *log.Logger) *Retriever {
	return &Retriever{logger: logger}
}

// Retrieve returns the chunks scoring strictly above cfg.Threshold, sorted
// descending by cosine similarity, truncated to cfg.TopK. Ties break by
// ordinal ascending so results are reproducible across runs. An empty result
// means no relevant content, not a failure.
func (r *Retriever) Retrieve(queryEmbedding []float32, idx *store.MaterialIndex, cfg Config) []store.RetrievalResult {
	if idx == nil || len(idx.Chunks) == 0 {
		return nil
	}

	var results []store.RetrievalResult
	for i := range idx.Chunks {
		chunk := &idx.Chunks[i]
		score := Cosine(queryEmbedding, chunk.Embedding)
		if score > cfg.Threshold {
			results = append(results, store.RetrievalResult{Chunk: chunk, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Ordinal < results[j].Chunk.Ordinal
	})

	if cfg.TopK > 0 && len(results) > cfg.TopK {
		results = results[:cfg.TopK]
	}

	r.logger.Printf("[SEARCH] %d/%d chunks above threshold %.2f", len(results), len(idx.Chunks), cfg.Threshold)

	return results
}

// Cosine computes the cosine similarity dot(a,b) / (|a|*|b|) with float64
// accumulation.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		denom = epsilon
	}
	return dot / denom
}
