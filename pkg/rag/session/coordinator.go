package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/embedding"
	"ai-studymate-be/pkg/rag/chunker"
	"ai-studymate-be/pkg/rag/index"
	"ai-studymate-be/pkg/store"
)

// Config holds the coordinator tunables.
type Config struct {
	// ChunkSize is the soft upper bound on chunk length in runes.
	ChunkSize int
	// EmbedMaxTries bounds embedding-batch attempts when the provider rate
	// limits. Other provider failures are never retried here.
	EmbedMaxTries uint
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:     chunker.DefaultChunkSize,
		EmbedMaxTries: 3,
	}
}

// Coordinator owns the lifecycle of material indexes.
//
// For each (material, variant) pair at most one initialization executes at a
// time: concurrent first-time callers share a single embedding batch through
// the singleflight group and all observe the same published index. A failed
// initialization publishes nothing and releases the in-flight slot so the
// next caller can retry.
type Coordinator struct {
	store    *index.Store
	embedder embedding.Provider
	group    singleflight.Group
	cfg      Config
	logger   *log.Logger
}

func NewCoordinator(store *index.Store, embedder embedding.Provider, cfg Config, logger *log.Logger) *Coordinator {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultChunkSize
	}
	if cfg.EmbedMaxTries == 0 {
		cfg.EmbedMaxTries = 3
	}
	return &Coordinator{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// HashContent digests source text for staleness detection.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// EnsureReady makes the index for (materialId, variant) Ready for the given
// content. A Ready index with a matching content hash is a no-op; a hash
// mismatch rebuilds and atomically replaces the index.
func (c *Coordinator) EnsureReady(ctx context.Context, materialId string, variant store.Variant, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperror.Validation("material content is empty")
	}

	hash := HashContent(content)

	if idx, found := c.store.Get(materialId, variant); found && idx.ContentHash == hash {
		return nil
	}

	key := materialId + "|" + string(variant)
	_, err, shared := c.group.Do(key, func() (interface{}, error) {
		return nil, c.initialize(ctx, materialId, variant, content, hash)
	})
	if err != nil {
		return err
	}
	if shared {
		c.logger.Printf("[SESSION] Joined in-flight initialization for %s", key)
	}
	return nil
}

func (c *Coordinator) initialize(ctx context.Context, materialId string, variant store.Variant, content, hash string) error {
	// A caller that waited on the in-flight slot may find the work done.
	if idx, found := c.store.Get(materialId, variant); found && idx.ContentHash == hash {
		return nil
	}

	texts := chunker.Split(content, c.cfg.ChunkSize)
	if len(texts) == 0 {
		return apperror.Validation("material content produced no chunks")
	}

	started := time.Now()
	vectors, err := c.embedBatch(ctx, texts)
	if err != nil {
		c.logger.Printf("[SESSION] Initialization failed for %s (%s): %v", materialId, variant, err)
		return err
	}

	dimension := len(vectors[0])
	chunks := make([]store.Chunk, len(texts))
	for i, text := range texts {
		if len(vectors[i]) != dimension {
			return apperror.Provider("embedding", "inconsistent dimensions: %d vs %d", len(vectors[i]), dimension)
		}
		chunks[i] = store.Chunk{Text: text, Embedding: vectors[i], Ordinal: i}
	}

	c.store.Put(&store.MaterialIndex{
		MaterialId:    materialId,
		Variant:       variant,
		Chunks:        chunks,
		ContentHash:   hash,
		InitializedAt: time.Now(),
	})

	c.logger.Printf("[SESSION] Indexed %s (%s): %d chunks, dim %d, took %s",
		materialId, variant, len(chunks), dimension, time.Since(started))

	return nil
}

// embedBatch wraps the single-shot gateway with the coordinator's backoff
// policy: rate limits are retried with exponential delay, everything else is
// permanent.
func (c *Coordinator) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	operation := func() ([][]float32, error) {
		vectors, err := c.embedder.EmbedBatch(ctx, texts, embedding.TaskRetrievalDocument)
		if err != nil {
			if apperror.IsRateLimit(err) {
				c.logger.Printf("[SESSION] Embedding batch rate limited, backing off")
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		if len(vectors) != len(texts) {
			return nil, backoff.Permanent(apperror.Provider("embedding", "expected %d vectors, got %d", len(texts), len(vectors)))
		}
		return vectors, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.cfg.EmbedMaxTries),
	)
}

// Snapshot returns the Ready index for the pair. Querying before EnsureReady
// is a precondition violation, not something silently handled.
func (c *Coordinator) Snapshot(materialId string, variant store.Variant) (*store.MaterialIndex, error) {
	idx, found := c.store.Get(materialId, variant)
	if !found {
		return nil, apperror.NotInitialized(materialId, string(variant))
	}
	return idx, nil
}

// Evict drops every variant of the material. Safe in any state.
func (c *Coordinator) Evict(materialId string) {
	c.store.Evict(materialId)
	c.logger.Printf("[SESSION] Evicted material %s", materialId)
}
