package utils

import (
	"os"
	"sync"
	"time"
)

type fileCacheEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files and drops an entry once the
// file's modification time or size changes
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]fileCacheEntry[V]
	hits    int
	misses  int
}

// NewFileCache creates an empty file cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		entries: make(map[string]fileCacheEntry[V]),
	}
}

// Get returns the cached value for path if the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	var zero V

	info, err := os.Stat(path)
	if err != nil {
		c.Delete(path)
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok || !entry.modTime.Equal(info.ModTime()) || entry.size != info.Size() {
		delete(c.entries, path)
		c.misses++
		return zero, false
	}
	c.hits++
	return entry.value, true
}

// Set caches value for path, recording the file's current state
func (c *FileCache[V]) Set(path string, value V) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = fileCacheEntry[V]{value: value, modTime: info.ModTime(), size: info.Size()}
	return nil
}

// Delete drops the entry for path
func (c *FileCache[V]) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry
func (c *FileCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]fileCacheEntry[V])
}

// CacheStats reports cache usage
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

// Stats returns the current cache statistics
func (c *FileCache[V]) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
