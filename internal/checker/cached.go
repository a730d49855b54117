package checker

import (
	"context"
	"encoding/hex"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"github.com/zeebo/blake3"

	"lector/internal/chunk"
)

// Cached memoizes another checker by chunk content. Results live in memory
// for the run and, when a disk cache is given, across runs.
type Cached struct {
	name  string
	inner Checker
	memo  *cache.Cache
	disk  *DiskCache

	hits, misses, failedPuts atomic.Int64
}

// NewCached wraps inner. name must change whenever inner's verdicts may
// change, e.g. with its dictionary.
func NewCached(name string, inner Checker, memo *cache.Cache, disk *DiskCache) *Cached {
	if memo == nil {
		memo = cache.New(cache.NoExpiration, 0)
	}
	return &Cached{name: name, inner: inner, memo: memo, disk: disk}
}

// Key is the cache key of c for the checker called name.
func Key(c *chunk.Chunk, name string) string {
	h := c.Hash()
	buf := make([]byte, 0, len(h)+len(name))
	buf = append(buf, h[:]...)
	buf = append(buf, name...)
	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

func (c *Cached) Check(ctx context.Context, ch *chunk.Chunk) ([]Suggestion, error) {
	key := Key(ch, c.name)
	if v, ok := c.memo.Get(key); ok {
		c.hits.Add(1)
		return clone(v.([]Suggestion)), nil
	}
	var e DiskEntry
	if ok, err := c.disk.Get(key, &e); err == nil && ok && e.Checker == c.name {
		c.hits.Add(1)
		c.memo.Set(key, e.Suggestions, cache.NoExpiration)
		return clone(e.Suggestions), nil
	}

	c.misses.Add(1)
	res, err := c.inner.Check(ctx, ch)
	if err != nil {
		return nil, err
	}
	c.memo.Set(key, clone(res), cache.NoExpiration)
	if err := c.disk.Put(key, &DiskEntry{Checker: c.name, Suggestions: res}); err != nil {
		// кеш необязателен: промах в следующий раз
		c.failedPuts.Add(1)
	}
	return res, nil
}

// Stats reports cache hits, misses and failed disk writes.
func (c *Cached) Stats() (hits, misses, failedPuts int64) {
	return c.hits.Load(), c.misses.Load(), c.failedPuts.Load()
}

func clone(in []Suggestion) []Suggestion {
	if in == nil {
		return nil
	}
	out := make([]Suggestion, len(in))
	for i, s := range in {
		s.Replacements = append([]string(nil), s.Replacements...)
		out[i] = s
	}
	return out
}
