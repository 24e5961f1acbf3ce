package index

import (
	"github.com/patrickmn/go-cache"

	"ai-studymate-be/pkg/store"
)

// Store maps (materialId, variant) to a published MaterialIndex.
//
// Publication is atomic: Put replaces the whole value, so a concurrent Get
// sees either the previous index in full or the new one in full, never a
// partially built state. Indexes live for the process lifetime until
// explicitly evicted.
type Store struct {
	cache *cache.Cache
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func key(materialId string, variant store.Variant) string {
	return materialId + "|" + string(variant)
}

// Put publishes a fully built index for the pair, replacing any previous one.
func (s *Store) Put(idx *store.MaterialIndex) {
	s.cache.Set(key(idx.MaterialId, idx.Variant), idx, cache.NoExpiration)
}

// Get returns the published index for the pair. Absence is not an error; the
// caller decides whether to initialize.
func (s *Store) Get(materialId string, variant store.Variant) (*store.MaterialIndex, bool) {
	if x, found := s.cache.Get(key(materialId, variant)); found {
		return x.(*store.MaterialIndex), true
	}
	return nil, false
}

// Evict drops all variants for the material. Safe to call when nothing is
// indexed.
func (s *Store) Evict(materialId string) {
	s.cache.Delete(key(materialId, store.VariantOriginal))
	s.cache.Delete(key(materialId, store.VariantTranslated))
}
