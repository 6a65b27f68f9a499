package cache

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Cache namespaces and serializes collection snapshots onto a Medium.
//
// Loads fail soft: a missing key, a broken blob, or a blob of the wrong
// shape all fall back to the supplied default and never reach the caller as
// an error. Saves also never return an error; a quota failure surfaces one
// user-facing warning for the whole session and the application continues
// purely in memory.
type Cache struct {
	medium    Medium
	namespace string

	mu          sync.Mutex
	quotaWarned bool
	onQuota     func(err error)
}

// New creates a cache over medium. Keys are prefixed with the versioned
// namespace so a schema bump is introduced by changing the prefix.
// onQuota, when non-nil, is invoked at most once per session when the
// medium reports ErrQuotaExceeded.
func New(medium Medium, namespace string, onQuota func(err error)) *Cache {
	return &Cache{medium: medium, namespace: namespace, onQuota: onQuota}
}

func (c *Cache) key(k string) string { return c.namespace + ":" + k }

func (c *Cache) warnQuotaOnce(err error) {
	c.mu.Lock()
	warned := c.quotaWarned
	c.quotaWarned = true
	c.mu.Unlock()
	if warned {
		return
	}
	zap.L().Warn("Local storage quota exceeded; continuing in memory only", zap.Error(err))
	if c.onQuota != nil {
		c.onQuota(err)
	}
}

// Load reads a collection snapshot, returning def on any miss or failure.
func Load[T any](c *Cache, key string, def []T) []T {
	raw, ok, err := c.medium.Read(c.key(key))
	if err != nil {
		zap.L().Warn("Failed to read cached collection",
			zap.String("collection", key), zap.Error(err))
		return def
	}
	if !ok {
		return def
	}

	var rows []T
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		zap.L().Warn("Cached collection is malformed, using defaults",
			zap.String("collection", key), zap.Error(err))
		return def
	}
	return rows
}

// Save serializes and writes a collection snapshot. Persistence failure
// must not crash the mutation path, so errors are absorbed here.
func Save[T any](c *Cache, key string, rows []T) {
	data, err := json.Marshal(rows)
	if err != nil {
		zap.L().Error("Failed to serialize collection",
			zap.String("collection", key), zap.Error(err))
		return
	}
	c.write(key, data)
}

// LoadValue reads a scalar setting, returning def on any miss or failure.
func LoadValue[T any](c *Cache, key string, def T) T {
	raw, ok, err := c.medium.Read(c.key(key))
	if err != nil || !ok {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def
	}
	return v
}

// SaveValue serializes and writes a scalar setting.
func SaveValue[T any](c *Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("Failed to serialize setting",
			zap.String("key", key), zap.Error(err))
		return
	}
	c.write(key, data)
}

func (c *Cache) write(key string, data []byte) {
	if err := c.medium.Write(c.key(key), string(data)); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			c.warnQuotaOnce(err)
			return
		}
		zap.L().Error("Failed to persist collection",
			zap.String("collection", key), zap.Error(err))
	}
}
