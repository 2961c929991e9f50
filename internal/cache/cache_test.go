package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

func tree(trial string) *domain.Tree {
	return &domain.Tree{Trials: []*domain.TrialNode{{Path: trial, Channels: []*domain.ChannelNode{}}}}
}

func TestTrees_GetPut(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	k := Key{Path: "/a.h5", Size: 10}
	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Put(k, tree("/T1"))
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, "/T1", got.Trials[0].Path)

	got.Trials[0].Path = "mutated"
	again, _ := c.Get(k)
	assert.Equal(t, "/T1", again.Trials[0].Path)
}

func TestTrees_Evicts(t *testing.T) {
	c, err := New(1)
	require.NoError(t, err)
	c.Put(Key{Path: "a"}, tree("/A"))
	c.Put(Key{Path: "b"}, tree("/B"))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(Key{Path: "a"})
	assert.False(t, ok)
}

func TestTrees_Forget(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	c.Put(Key{Path: "a", Size: 1}, tree("/A"))
	c.Put(Key{Path: "a", Size: 2}, tree("/A"))
	c.Put(Key{Path: "b", Size: 1}, tree("/B"))
	c.Forget("a")
	assert.Equal(t, 1, c.Len())
}

func TestTrees_ForgetRelativePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.h5")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))
	k, err := KeyFor(path)
	require.NoError(t, err)

	c, err := New(4)
	require.NoError(t, err)
	c.Put(k, tree("/A"))

	t.Chdir(filepath.Dir(path))
	c.Forget("f.h5")
	assert.Zero(t, c.Len())
}

func TestKeyFor_ChangesWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.h5")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))
	k1, err := KeyFor(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("longer"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	k2, err := KeyFor(path)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1.Path, k2.Path)

	_, err = KeyFor(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
