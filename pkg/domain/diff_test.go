package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	ch := &ChannelNode{Path: "/Trial1/Synchronous Data/Ch0", Trial: "/Trial1/Synchronous Data", AutoSelected: true}
	return &Tree{
		Trials:   []*TrialNode{{Path: "/Trial1/Synchronous Data", Channels: []*ChannelNode{ch}}},
		Selected: ch,
	}
}

func TestDiff(t *testing.T) {
	base := &Session{
		ID:              "sess-1",
		FilePath:        "/data/a.h5",
		Tree:            sampleTree(),
		SelectedChannel: "/Trial1/Synchronous Data/Ch0",
		PlotEnabled:     true,
		Plots:           DefaultPlotOptions(),
	}

	t.Run("Initial Load", func(t *testing.T) {
		d := Diff(nil, base)
		require.NotNil(t, d)
		assert.Equal(t, "sess-1", d.SessionID)
		require.NotNil(t, d.FilePath)
		assert.Equal(t, "/data/a.h5", *d.FilePath)
		require.NotNil(t, d.PlotEnabled)
		assert.True(t, *d.PlotEnabled)
		assert.NotNil(t, d.Tree)
	})

	t.Run("No Changes", func(t *testing.T) {
		assert.Nil(t, Diff(base, base.Clone()))
	})

	t.Run("Plot Toggle", func(t *testing.T) {
		next := base.Clone()
		next.Plots.FFT = false
		d := Diff(base, next)
		require.NotNil(t, d)
		require.NotNil(t, d.Plots)
		assert.False(t, d.Plots.FFT)
		assert.Nil(t, d.Tree)
		assert.Nil(t, d.FilePath)
	})

	t.Run("File Closed", func(t *testing.T) {
		next := base.Clone()
		next.FilePath = ""
		next.Tree = nil
		next.SelectedChannel = ""
		next.PlotEnabled = false
		d := Diff(base, next)
		require.NotNil(t, d)
		require.NotNil(t, d.Tree)
		assert.True(t, d.Tree.Empty())
		assert.Equal(t, "", *d.SelectedChannel)
	})

	t.Run("Empty File Opened", func(t *testing.T) {
		closed := NewSession("sess-1")
		next := closed.Clone()
		next.FilePath = "/data/empty.h5"
		next.Tree = NewTree()
		d := Diff(closed, next)
		require.NotNil(t, d)
		require.NotNil(t, d.Tree)
		assert.True(t, d.Tree.Empty())
		assert.Nil(t, d.PlotEnabled)
	})

	t.Run("Other Empty File Opened", func(t *testing.T) {
		prev := NewSession("sess-1")
		prev.FilePath = "/data/empty.h5"
		prev.Tree = NewTree()
		next := prev.Clone()
		next.FilePath = "/data/other.h5"
		next.Tree = NewTree()
		d := Diff(prev, next)
		require.NotNil(t, d)
		assert.NotNil(t, d.Tree)
	})

	t.Run("Nil New", func(t *testing.T) {
		assert.Nil(t, Diff(base, nil))
	})
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	old := NewSession("s")
	next := old.Clone()
	next.LastError = "boom"

	b, err := json.Marshal(Diff(old, next))
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s","last_error":"boom"}`, string(b))
}
