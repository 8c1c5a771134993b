package vault

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FieldState describes a field's plaintext lifecycle: hidden until a decrypt
// is requested, decrypting while the request is in flight, revealed once the
// plaintext is cached.
type FieldState int

const (
	Hidden FieldState = iota
	Decrypting
	Revealed
)

// Key addresses one cache slot. Out-of-order completion of unrelated
// requests cannot corrupt other entries because every write is keyed.
type Key struct {
	Category string
	Field    string
}

func (k Key) flightKey() string {
	return k.Category + "\x00" + k.Field
}

// DecryptCache holds plaintext values retrieved during the current run. It
// is never persisted. An entry exists only after a decrypt succeeded; it is
// removed only by field/category deletion and overwritten only by an
// acknowledged edit.
type DecryptCache struct {
	mu      sync.Mutex
	entries map[Key]string
	loading map[Key]int
	flight  singleflight.Group
}

func NewDecryptCache() *DecryptCache {
	return &DecryptCache{
		entries: make(map[Key]string),
		loading: make(map[Key]int),
	}
}

// Peek reports the cached plaintext and state for a key without triggering
// a fetch.
func (c *DecryptCache) Peek(category, field string) (string, FieldState) {
	k := Key{Category: category, Field: field}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[k]; ok {
		return v, Revealed
	}
	if c.loading[k] > 0 {
		return "", Decrypting
	}
	return "", Hidden
}

// GetOrFetch returns the cached plaintext for the key, fetching it at most
// once across concurrent callers. All callers for the same key observe the
// same result. A failed fetch leaves the slot absent so a later request can
// retry.
func (c *DecryptCache) GetOrFetch(ctx context.Context, category, field string, fetch func(ctx context.Context) (string, error)) (string, error) {
	k := Key{Category: category, Field: field}

	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.loading[k]++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading[k]--
		if c.loading[k] <= 0 {
			delete(c.loading, k)
		}
		c.mu.Unlock()
	}()

	v, err, _ := c.flight.Do(k.flightKey(), func() (any, error) {
		// Re-check: an edit or earlier flight may have filled the slot.
		c.mu.Lock()
		if cached, ok := c.entries[k]; ok {
			c.mu.Unlock()
			return cached, nil
		}
		c.mu.Unlock()

		plaintext, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[k] = plaintext
		c.mu.Unlock()
		return plaintext, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Put overwrites the slot with a newly acknowledged plaintext (edit path).
func (c *DecryptCache) Put(category, field, plaintext string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key{Category: category, Field: field}] = plaintext
}

// Remove drops one field's entry.
func (c *DecryptCache) Remove(category, field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, Key{Category: category, Field: field})
}

// RemoveCategory drops every entry under a category.
func (c *DecryptCache) RemoveCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Category == category {
			delete(c.entries, k)
		}
	}
}
