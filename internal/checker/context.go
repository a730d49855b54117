package checker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/patrickmn/go-cache"

	"lector/internal/chunk"
)

// Config selects the active checkers.
type Config struct {
	Enabled  []Kind
	Wordlist WordlistConfig
	Cache    CacheConfig
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Dir      string
	Disabled bool
	// Clear drops every persisted entry before the run.
	Clear bool
}

// DefaultConfig enables the dictionary and repeated word checkers.
func DefaultConfig() Config {
	return Config{
		Enabled: []Kind{KindWordlist, KindRepeat},
		Wordlist: WordlistConfig{
			AllowEmojis:    true,
			MaxSuggestions: 5,
		},
	}
}

type active struct {
	kind    Kind
	checker *Cached
}

// Context owns everything checkers share during one run: dictionaries and
// caches. Create it once with NewContext and release it with Close.
type Context struct {
	memo   *cache.Cache
	disk   *DiskCache
	active []active
	closed atomic.Bool
}

// NewContext loads dictionaries and opens caches for cfg.
func NewContext(cfg Config) (*Context, error) {
	x := &Context{memo: cache.New(cache.NoExpiration, 0)}
	if !cfg.Cache.Disabled {
		disk, err := OpenDiskCache(cfg.Cache.Dir, "lector")
		if err != nil {
			return nil, fmt.Errorf("checker cache: %w", err)
		}
		if cfg.Cache.Clear {
			if err := disk.DropAll(); err != nil {
				return nil, fmt.Errorf("checker cache: %w", err)
			}
		}
		x.disk = disk
	}
	seen := make(map[Kind]bool)
	for _, k := range cfg.Enabled {
		if seen[k] {
			continue
		}
		seen[k] = true
		var (
			c    Checker
			name = k.String()
		)
		switch k {
		case KindWordlist:
			dict, err := LoadDictionary(cfg.Wordlist.Dictionaries, cfg.Wordlist.Words)
			if err != nil {
				return nil, fmt.Errorf("wordlist checker: %w", err)
			}
			wl, err := NewWordlist(dict, cfg.Wordlist)
			if err != nil {
				return nil, err
			}
			c, name = wl, name+":"+wl.Fingerprint()
		case KindRepeat:
			c = Repeat{}
		case KindDummy:
			c = Dummy{}
		default:
			return nil, fmt.Errorf("unknown checker %v", k)
		}
		x.active = append(x.active, active{kind: k, checker: NewCached(name, c, x.memo, x.disk)})
	}
	if len(x.active) == 0 {
		return nil, errors.New("no checker enabled")
	}
	return x, nil
}

// Kinds lists the active checkers in run order.
func (x *Context) Kinds() []Kind {
	out := make([]Kind, len(x.active))
	for i, a := range x.active {
		out[i] = a.kind
	}
	return out
}

// Check runs every active checker on c and returns the suggestions sorted
// by position. The first failing checker aborts with an *Error.
func (x *Context) Check(ctx context.Context, c *chunk.Chunk) ([]Suggestion, error) {
	if x.closed.Load() {
		return nil, errors.New("checker context is closed")
	}
	var out []Suggestion
	for _, a := range x.active {
		res, err := a.checker.Check(ctx, c)
		if err != nil {
			return nil, &Error{Checker: a.kind, Chunk: c.String(), Err: err}
		}
		out = append(out, res...)
	}
	Sort(out)
	return out, nil
}

// CacheStats sums the cache counters of all checkers.
func (x *Context) CacheStats() (hits, misses int64) {
	for _, a := range x.active {
		h, m, _ := a.checker.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Close drops the in-memory results. The context must not be used afterwards.
func (x *Context) Close() error {
	if x.closed.Swap(true) {
		return nil
	}
	x.memo.Flush()
	return nil
}
