package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReportsDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.h5")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(WithDebounce(50*time.Millisecond)).Watch(ctx, path)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-ch:
		t.Fatal("burst of writes reported more than once")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.h5")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(WithDebounce(20*time.Millisecond)).Watch(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.h5"), []byte("x"), 0o600))

	select {
	case <-ch:
		t.Fatal("sibling change reported")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := New().Watch(ctx, filepath.Join(dir, "rec.h5"))
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := New().Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "rec.h5"))
	assert.Error(t, err)
}
