package index

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/pkg/store"
)

func newIndex(materialId string, variant store.Variant, chunkCount int) *store.MaterialIndex {
	chunks := make([]store.Chunk, chunkCount)
	for i := range chunks {
		chunks[i] = store.Chunk{Text: "chunk", Embedding: []float32{1, 0}, Ordinal: i}
	}
	return &store.MaterialIndex{
		MaterialId:    materialId,
		Variant:       variant,
		Chunks:        chunks,
		ContentHash:   "hash",
		InitializedAt: time.Now(),
	}
}

func TestStorePutGet(t *testing.T) {
	s := NewStore()

	_, found := s.Get("m1", store.VariantOriginal)
	assert.False(t, found)

	s.Put(newIndex("m1", store.VariantOriginal, 3))

	idx, found := s.Get("m1", store.VariantOriginal)
	require.True(t, found)
	assert.Len(t, idx.Chunks, 3)

	// Variants are independent.
	_, found = s.Get("m1", store.VariantTranslated)
	assert.False(t, found)
}

func TestStoreEvictDropsAllVariants(t *testing.T) {
	s := NewStore()
	s.Put(newIndex("m1", store.VariantOriginal, 1))
	s.Put(newIndex("m1", store.VariantTranslated, 1))
	s.Put(newIndex("m2", store.VariantOriginal, 1))

	s.Evict("m1")

	_, found := s.Get("m1", store.VariantOriginal)
	assert.False(t, found)
	_, found = s.Get("m1", store.VariantTranslated)
	assert.False(t, found)
	_, found = s.Get("m2", store.VariantOriginal)
	assert.True(t, found)

	// Evicting again is a no-op.
	s.Evict("m1")
}

func TestStoreConcurrentReplaceIsAtomic(t *testing.T) {
	s := NewStore()
	s.Put(newIndex("m1", store.VariantOriginal, 2))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.Put(newIndex("m1", store.VariantOriginal, 5))
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			idx, found := s.Get("m1", store.VariantOriginal)
			if !found {
				t.Error("index disappeared during replacement")
				return
			}
			// A reader must observe a complete snapshot: 2 chunks or 5, never a mix.
			if got := len(idx.Chunks); got != 2 && got != 5 {
				t.Errorf("observed partial index with %d chunks", got)
				return
			}
		}
	}()

	wg.Wait()
}
