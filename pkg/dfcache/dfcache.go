// Package dfcache specializes cache.FileCache into a typed overlay for
// tabular values: process_contents decodes the compressed table payload
// on load, and Append provides an optimistic-retry merge that serializes
// concurrent writers to the same key above the cache-wide lock.
package dfcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marmos91/dfcache/internal/wire"
	"github.com/marmos91/dfcache/pkg/cache"
	"github.com/marmos91/dfcache/pkg/table"
)

// Cache is a cache.FileCache whose resident values are table.Table rather
// than raw bytes.
type Cache struct {
	*cache.FileCache

	keyLocksMu sync.Mutex
	keyLocks   map[string]*refcountedMutex
}

type refcountedMutex struct {
	mu   sync.Mutex
	refs int
}

// New creates a dfcache.Cache rooted at rootPath with the given memory
// budget. Additional cache.Options are applied after the content
// processor override, so WithSuffix/WithMetrics still compose normally.
func New(rootPath string, maxMemory int64, opts ...cache.Option) *Cache {
	allOpts := append([]cache.Option{cache.WithContentProcessor(decodeTable)}, opts...)
	return &Cache{
		FileCache: cache.New(rootPath, maxMemory, allOpts...),
		keyLocks:  make(map[string]*refcountedMutex),
	}
}

func decodeTable(raw []byte) (any, int64, error) {
	tbl, err := wire.DecodeTable(raw)
	if err != nil {
		return nil, 0, err
	}
	return tbl, tbl.MemoryFootprint(), nil
}

// GetTable retrieves the cached table for key and applies a range filter.
// When rangeType is "timestamp", start/end bound the table's Index values
// inclusively; otherwise they are positional slice bounds. A nil start and
// a nil end return the whole table.
func (c *Cache) GetTable(key cache.Key, start, end *int64, rangeType string) (table.Table, error) {
	v, err := c.Get(key)
	if err != nil {
		return table.Table{}, err
	}
	tbl, ok := v.(table.Table)
	if !ok {
		return table.Table{}, fmt.Errorf("dfcache: entry for %s is not a table (got %T)", key, v)
	}

	if start == nil && end == nil {
		return tbl, nil
	}
	if rangeType == wire.RangeTypeTimestamp {
		return tbl.RangeByTimestamp(start, end), nil
	}
	return tbl.Slice(start, end), nil
}

// Append merges incremental into the table stored at key: read current,
// concatenate, sort by index, drop duplicate indices keeping the first
// occurrence, then persist. If a concurrent writer's bytes land first,
// Update reports applied=false and Append retries from the read, so the
// merge is at-least-once and eventually includes incremental. Retries to
// the same key are serialized by a per-key mutex, lazily materialized and
// released once no caller holds it (map access and the refcount are both
// guarded by keyLocksMu, so acquire and release can never interleave to
// hand out a mutex that is mid-deletion), so dfcache never pins keys it
// is not actively merging.
func (c *Cache) Append(ctx context.Context, key cache.Key, incremental table.Table) (table.Table, error) {
	release := c.acquireKeyLock(key)
	defer release()

	for {
		if err := ctx.Err(); err != nil {
			return table.Table{}, err
		}

		current, err := c.GetTable(key, nil, nil, "")
		if err != nil {
			if !errors.Is(err, cache.ErrNotFound) {
				return table.Table{}, err
			}
			current = table.New(nil)
		}

		merged := current.Append(incremental).SortByIndex().DedupeKeepFirst()

		encoded, err := wire.EncodeTable(merged)
		if err != nil {
			return table.Table{}, err
		}

		applied, err := c.Update(key, encoded)
		if err != nil {
			return table.Table{}, err
		}
		if applied {
			return merged, nil
		}
		// A concurrent writer's bytes won; its result is now durable and
		// visible to the next GetTable, so merging on top of it subsumes it.
	}
}

func (c *Cache) acquireKeyLock(key cache.Key) (release func()) {
	ks := key.String()

	c.keyLocksMu.Lock()
	rc, ok := c.keyLocks[ks]
	if !ok {
		rc = &refcountedMutex{}
		c.keyLocks[ks] = rc
	}
	rc.refs++
	c.keyLocksMu.Unlock()

	rc.mu.Lock()

	return func() {
		rc.mu.Unlock()

		c.keyLocksMu.Lock()
		rc.refs--
		if rc.refs == 0 {
			delete(c.keyLocks, ks)
		}
		c.keyLocksMu.Unlock()
	}
}
