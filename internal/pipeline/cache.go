package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/ogdakke/pathfilter/internal/ignorer"
	"github.com/ogdakke/pathfilter/internal/logger"
)

const defaultCacheSize = 64

// stageCache maps the content hash of ignore-file text to its compiled stage.
// Concurrent requests for the same text share one compilation.
type stageCache struct {
	maxEntries int
	group      singleflight.Group

	mu      sync.RWMutex
	entries map[string]*ignorer.Stage

	compiles atomic.Int64
}

func newStageCache(maxEntries int) *stageCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheSize
	}
	return &stageCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*ignorer.Stage),
	}
}

func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *stageCache) get(text string) *ignorer.Stage {
	key := contentKey(text)

	c.mu.RLock()
	stage, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		logger.Trace("Ignore text cache hit", "key", key[:12])
		return stage
	}

	v, _, shared := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		stage, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return stage, nil
		}

		stage = ignorer.Gitignore(text)
		c.compiles.Add(1)

		c.mu.Lock()
		if len(c.entries) >= c.maxEntries {
			logger.Debug("Ignore text cache full, resetting", "entries", len(c.entries))
			c.entries = make(map[string]*ignorer.Stage)
		}
		c.entries[key] = stage
		c.mu.Unlock()

		logger.Debug("Ignore text compiled", "key", key[:12], "patterns", stage.Len())
		return stage, nil
	})

	if shared {
		logger.Trace("Ignore text compilation shared", "key", key[:12])
	}
	return v.(*ignorer.Stage)
}

func (c *stageCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
