package infer

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"drafter/sketch"
)

// cacheSize bounds how many sketch revisions keep their candidate
// lists. Interactive editing only ever revisits the last few.
const cacheSize = 16

// cacheKey identifies one sketch state. Revision alone is not enough:
// loading a different document can land on a revision number an earlier
// document already used, so the sketch's identity is part of the key.
type cacheKey struct {
	id  uuid.UUID
	rev uint64
}

// Cache memoizes candidate lists by sketch state, so drag previews
// and repeated pointer queries against the same state do not rebuild.
type Cache struct {
	entries *lru.Cache[cacheKey, []Candidate]
}

// NewCache creates an empty candidate cache.
func NewCache() *Cache {
	entries, _ := lru.New[cacheKey, []Candidate](cacheSize)
	return &Cache{entries: entries}
}

// Candidates returns the snap candidates for the sketch, building them
// on first sight of its state.
func (c *Cache) Candidates(sk *sketch.Sketch) []Candidate {
	key := cacheKey{id: sk.ID, rev: sk.Revision}
	if cands, ok := c.entries.Get(key); ok {
		return cands
	}
	cands := Candidates(sk)
	c.entries.Add(key, cands)
	return cands
}

// Len reports how many revisions are currently cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
