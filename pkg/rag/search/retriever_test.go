package search

import (
	"io"
	"log"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func indexWithEmbeddings(embeddings ...[]float32) *store.MaterialIndex {
	chunks := make([]store.Chunk, len(embeddings))
	for i, e := range embeddings {
		chunks[i] = store.Chunk{Text: "chunk", Embedding: e, Ordinal: i}
	}
	return &store.MaterialIndex{
		MaterialId:    "m1",
		Variant:       store.VariantOriginal,
		Chunks:        chunks,
		ContentHash:   "h",
		InitializedAt: time.Now(),
	}
}

func TestCosineIdentity(t *testing.T) {
	a := []float32{0.3, 0.5, 0.1, 0.7}
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
}

func TestCosineOrthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosineZeroVectorDoesNotPanic(t *testing.T) {
	score := Cosine([]float32{0, 0}, []float32{1, 1})
	assert.False(t, math.IsNaN(score))
	assert.False(t, math.IsInf(score, 0))
	assert.InDelta(t, 0.0, score, 1e-6)
}

func TestRetrieveFiltersAndOrders(t *testing.T) {
	// Query along the x axis; chunk scores are the cosine against it.
	query := []float32{1, 0}
	idx := indexWithEmbeddings(
		vecWithCosine(0.9),
		vecWithCosine(0.6),
		vecWithCosine(0.8),
	)

	r := NewRetriever(testLogger())
	results := r.Retrieve(query, idx, Config{Threshold: 0.75, TopK: 5})

	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Chunk.Ordinal)
	assert.InDelta(t, 0.9, results[0].Score, 1e-6)
	assert.Equal(t, 2, results[1].Chunk.Ordinal)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	query := []float32{1, 0}
	idx := indexWithEmbeddings(
		vecWithCosine(0.99),
		vecWithCosine(0.98),
		vecWithCosine(0.97),
		vecWithCosine(0.96),
	)

	r := NewRetriever(testLogger())
	results := r.Retrieve(query, idx, Config{Threshold: 0.5, TopK: 2})

	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Chunk.Ordinal)
	assert.Equal(t, 1, results[1].Chunk.Ordinal)
}

func TestRetrieveTieBreaksByOrdinal(t *testing.T) {
	query := []float32{1, 0}
	same := vecWithCosine(0.9)
	idx := indexWithEmbeddings(same, same, same)

	r := NewRetriever(testLogger())
	results := r.Retrieve(query, idx, Config{Threshold: 0.5, TopK: 5})

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i, res.Chunk.Ordinal)
	}
}

func TestRetrieveEmptyWhenNothingClearsThreshold(t *testing.T) {
	query := []float32{1, 0}
	idx := indexWithEmbeddings(vecWithCosine(0.1), vecWithCosine(0.2))

	r := NewRetriever(testLogger())
	results := r.Retrieve(query, idx, Config{Threshold: 0.75, TopK: 5})

	assert.Empty(t, results)
}

func TestRetrieveIsIdempotent(t *testing.T) {
	query := []float32{1, 0}
	idx := indexWithEmbeddings(vecWithCosine(0.9), vecWithCosine(0.8), vecWithCosine(0.85))

	r := NewRetriever(testLogger())
	cfg := Config{Threshold: 0.5, TopK: 5}

	first := r.Retrieve(query, idx, cfg)
	second := r.Retrieve(query, idx, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Chunk.Ordinal, second[i].Chunk.Ordinal)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

// vecWithCosine returns a unit vector whose cosine similarity against (1,0)
// equals c.
func vecWithCosine(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}
