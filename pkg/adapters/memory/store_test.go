package memory_test

import (
	"context"
	"testing"

	"github.com/rtxi/analysis-tools/pkg/adapters/memory"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_CopyOnRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := domain.NewSession("s1")
	sess.FilePath = "a.h5"
	require.NoError(t, store.Save(ctx, sess))

	sess.FilePath = "mutated"
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a.h5", loaded.FilePath)
}
