// Package cache keeps recently classified trees so re-opening an unchanged
// file skips the traversal.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// Key identifies one version of a file on disk.
type Key struct {
	Path    string
	ModTime time.Time
	Size    int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d:%d", k.Path, k.ModTime.UnixNano(), k.Size)
}

// KeyFor stats path and builds its cache key.
func KeyFor(path string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Key{}, err
	}
	return Key{Path: abs, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// Trees is a bounded LRU of classified trees. Safe for concurrent use.
type Trees struct {
	lru *lru.Cache[Key, *domain.Tree]
}

// New creates a cache holding up to size trees.
func New(size int) (*Trees, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[Key, *domain.Tree](size)
	if err != nil {
		return nil, fmt.Errorf("tree cache: %w", err)
	}
	return &Trees{lru: c}, nil
}

// Get returns a copy of the cached tree for k.
func (t *Trees) Get(k Key) (*domain.Tree, bool) {
	tree, ok := t.lru.Get(k)
	if !ok {
		return nil, false
	}
	return tree.Clone(), true
}

// Put stores a copy of tree under k.
func (t *Trees) Put(k Key, tree *domain.Tree) {
	t.lru.Add(k, tree.Clone())
}

// Forget drops every entry for path, whatever its version.
func (t *Trees) Forget(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	for _, k := range t.lru.Keys() {
		if k.Path == path {
			t.lru.Remove(k)
		}
	}
}

// Len returns the number of cached trees.
func (t *Trees) Len() int {
	return t.lru.Len()
}
