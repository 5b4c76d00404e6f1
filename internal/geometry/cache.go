// Package geometry loads PLY meshes from disk and keeps them for reuse.
package geometry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/plyview/internal/logger"
	"github.com/Faultbox/plyview/pkg/ply"
)

// FileOpenError is returned when a model file cannot be opened.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("opening model %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// Cache maps absolute file paths to decoded meshes.
// Entries are never evicted and meshes are never mutated after insertion.
type Cache struct {
	meshes map[string]*ply.Mesh
	mu     sync.RWMutex
	group  singleflight.Group
	log    *zap.Logger

	// Stats
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		meshes: make(map[string]*ply.Mesh),
		log:    logger.Named("geometry"),
	}
}

// Load returns the mesh for path, reading and decoding the file only on the first request.
// Failed loads are not cached.
func (c *Cache) Load(path string) (*ply.Mesh, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}

	if m, ok := c.get(key); ok {
		c.log.Debug("cache hit", zap.String("path", key))
		return m, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// Another caller may have finished while we waited for the group.
		if m, ok := c.peek(key); ok {
			return m, nil
		}
		m, err := decodeFile(key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.meshes[key] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		c.log.Warn("model load failed", zap.String("path", key), zap.Error(err))
		return nil, err
	}

	m := v.(*ply.Mesh)
	c.log.Info("model loaded",
		zap.String("path", key),
		zap.Uint32("vertices", m.VertexCount),
		zap.Uint32("faces", m.FaceCount),
		zap.Bool("shared", shared),
	)
	return m, nil
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meshes)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *Cache) get(key string) (*ply.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.meshes[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

func (c *Cache) peek(key string) (*ply.Mesh, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.meshes[key]
	return m, ok
}

func decodeFile(path string) (*ply.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	defer f.Close()

	m, err := ply.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}
