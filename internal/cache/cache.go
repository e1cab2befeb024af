// Package cache memoizes idempotent read computations for a bounded time
// window. A Cache is an explicit instance owned by whoever needs it; there
// is no package-level state.
package cache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

// Key builds a cache key from typed arguments. Each part is tagged with its
// Go type and the parts are counted and unit-separated, so Key(1, 2),
// Key(12) and Key("1:2") are all distinct.
func Key(parts ...any) string {
	return strconv.Itoa(len(parts)) + "\x1f" + encode(parts)
}

func encode(parts []any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		fmt.Fprintf(&b, "%T=%v", p, p)
	}
	return b.String()
}

// Memoize returns the cached value for key when its age is below ttl,
// otherwise invokes compute and stores the result. Errors are returned
// without being cached. Stale entries are replaced lazily on the read that
// finds them expired; there is no background sweep.
func Memoize[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < ttl {
		if v, ok := e.value.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	v, err := compute()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: v, storedAt: c.now()}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops one key, leaving the rest of the cache alone.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops every key whose part list begins with the given
// parts, leaving unrelated keys alone.
func (c *Cache) InvalidatePrefix(parts ...any) {
	prefix := encode(parts)
	c.mu.Lock()
	for key := range c.entries {
		sep := strings.IndexByte(key, 0x1f)
		if sep < 0 {
			continue
		}
		rest := key[sep+1:]
		if rest == prefix || strings.HasPrefix(rest, prefix+"\x1f") {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}
