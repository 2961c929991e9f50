package ports

import (
	"context"
	"testing"
	"time"

	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		ch := &domain.ChannelNode{
			Path:         "/Trial1/Synchronous Data/Ch0",
			Trial:        "/Trial1/Synchronous Data",
			AutoSelected: true,
		}
		sess := domain.NewSession(sessionID)
		sess.FilePath = "/data/run.h5"
		sess.Tree = &domain.Tree{
			Trials:   []*domain.TrialNode{{Path: ch.Trial, Channels: []*domain.ChannelNode{ch}}},
			Selected: ch,
		}
		sess.SelectedChannel = ch.Path
		sess.PlotEnabled = true
		sess.Plots.FFT = false

		err := store.Save(ctx, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.FilePath, loaded.FilePath)
		assert.Equal(t, sess.SelectedChannel, loaded.SelectedChannel)
		assert.True(t, loaded.PlotEnabled)
		assert.False(t, loaded.Plots.FFT)
		assert.True(t, loaded.Plots.Scatter)
		require.NotNil(t, loaded.Tree)
		require.Len(t, loaded.Tree.Trials, 1)
		assert.Equal(t, ch.Path, loaded.Tree.Trials[0].Channels[0].Path)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1))
		_ = store.Save(ctx, domain.NewSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
