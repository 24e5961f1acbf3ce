package session

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/rag/index"
	"ai-studymate-be/pkg/store"
)

// fakeEmbedder counts batch calls and can fail the first N of them.
type fakeEmbedder struct {
	calls    int32
	delay    time.Duration
	failN    int32
	failWith error
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if n <= f.failN {
		return nil, f.failWith
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func newCoordinator(embedder *fakeEmbedder) (*Coordinator, *index.Store) {
	s := index.NewStore()
	c := NewCoordinator(s, embedder, Config{ChunkSize: 50, EmbedMaxTries: 3}, log.New(io.Discard, "", 0))
	return c, s
}

const testContent = "First sentence of the material. Second sentence here. Third sentence closes it."

func TestEnsureReadyBuildsIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, s := newCoordinator(embedder)

	err := c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.callCount())

	idx, found := s.Get("m1", store.VariantOriginal)
	require.True(t, found)
	assert.NotEmpty(t, idx.Chunks)
	assert.Equal(t, HashContent(testContent), idx.ContentHash)
	for i, chunk := range idx.Chunks {
		assert.Equal(t, i, chunk.Ordinal)
		assert.Len(t, chunk.Embedding, 3)
	}
}

func TestEnsureReadyConcurrentSingleBatch(t *testing.T) {
	embedder := &fakeEmbedder{delay: 50 * time.Millisecond}
	c, _ := newCoordinator(embedder)

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	counts := make([]int, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent)
			if idx, err := c.Snapshot("m1", store.VariantOriginal); err == nil {
				counts[i] = len(idx.Chunks)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, embedder.callCount(), "exactly one embedding batch for N concurrent callers")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, counts[0], counts[i], "all callers see the same chunk count")
	}
	assert.Greater(t, counts[0], 0)
}

func TestEnsureReadySameContentIsNoOp(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, _ := newCoordinator(embedder)

	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))
	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))

	assert.Equal(t, 1, embedder.callCount(), "identical content must not re-embed")
}

func TestEnsureReadyChangedContentReplacesIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, s := newCoordinator(embedder)

	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))
	oldIdx, _ := s.Get("m1", store.VariantOriginal)

	updated := testContent + " A brand new trailing sentence was appended."
	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, updated))

	assert.Equal(t, 2, embedder.callCount())

	newIdx, found := s.Get("m1", store.VariantOriginal)
	require.True(t, found)
	assert.NotEqual(t, oldIdx.ContentHash, newIdx.ContentHash)
	assert.Equal(t, HashContent(updated), newIdx.ContentHash)
}

func TestEnsureReadyVariantsAreIndependent(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, s := newCoordinator(embedder)

	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))
	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantTranslated, "Texto traducido de prueba. Otra frase."))

	assert.Equal(t, 2, embedder.callCount())
	_, found := s.Get("m1", store.VariantOriginal)
	assert.True(t, found)
	_, found = s.Get("m1", store.VariantTranslated)
	assert.True(t, found)
}

func TestEnsureReadyEmptyContentRejected(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, _ := newCoordinator(embedder)

	err := c.EnsureReady(context.Background(), "m1", store.VariantOriginal, "   \n ")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, embedder.callCount())
}

func TestEnsureReadyFailedInitPublishesNothingAndAllowsRetry(t *testing.T) {
	embedder := &fakeEmbedder{failN: 1, failWith: apperror.Provider("embedding", "boom")}
	c, s := newCoordinator(embedder)

	err := c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent)
	require.Error(t, err)
	assert.True(t, apperror.IsProvider(err))

	_, found := s.Get("m1", store.VariantOriginal)
	assert.False(t, found, "failed initialization must not publish an index")

	// The in-flight slot is released; the next call succeeds.
	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))
	_, found = s.Get("m1", store.VariantOriginal)
	assert.True(t, found)
}

func TestEnsureReadyRetriesRateLimit(t *testing.T) {
	embedder := &fakeEmbedder{failN: 1, failWith: apperror.RateLimit("embedding")}
	c, s := newCoordinator(embedder)

	err := c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.callCount(), "rate limited batch is retried with backoff")

	_, found := s.Get("m1", store.VariantOriginal)
	assert.True(t, found)
}

func TestSnapshotBeforeEnsureReadyFails(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, _ := newCoordinator(embedder)

	_, err := c.Snapshot("m1", store.VariantOriginal)
	require.Error(t, err)
	assert.True(t, apperror.IsNotInitialized(err))
}

func TestEvictDropsIndexAndSnapshotFails(t *testing.T) {
	embedder := &fakeEmbedder{}
	c, _ := newCoordinator(embedder)

	require.NoError(t, c.EnsureReady(context.Background(), "m1", store.VariantOriginal, testContent))
	c.Evict("m1")

	_, err := c.Snapshot("m1", store.VariantOriginal)
	assert.True(t, apperror.IsNotInitialized(err))

	// Evicting an unknown material is fine.
	c.Evict("does-not-exist")
}

func TestHashContentStable(t *testing.T) {
	assert.Equal(t, HashContent("abc"), HashContent("abc"))
	assert.NotEqual(t, HashContent("abc"), HashContent("abd"))
	assert.True(t, strings.Count(HashContent("abc"), "") > 32)
}
