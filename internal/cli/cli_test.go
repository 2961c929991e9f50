package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/config"
	"github.com/rtxi/analysis-tools/internal/logging"
	"github.com/rtxi/analysis-tools/pkg/adapters/memory"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/observability"
)

func testPanel(t *testing.T) *analysistools.Panel {
	t.Helper()
	tr := memory.NewTraverser().
		AddPaths("/data/rec.h5",
			"g:/Trial1",
			"g:/Trial1/Synchronous Data",
			"d:/Trial1/Synchronous Data/Ch0",
			"d:/Trial1/Synchronous Data/Ch1",
		).
		AddPaths("/data/empty.h5", "g:.").
		SetSamples("/data/rec.h5", "/Trial1/Synchronous Data/Ch1", []float64{0.5, -1, 2e-3})
	p, err := analysistools.New(analysistools.WithTraverser(tr), analysistools.WithDataDir("/data"))
	require.NoError(t, err)
	return p
}

func TestRunTree_Plain(t *testing.T) {
	var out bytes.Buffer
	err := RunTree(context.Background(), testPanel(t), TreeOptions{File: "rec.h5", Out: &out})
	require.NoError(t, err)
	assert.Equal(t,
		"/Trial1/Synchronous Data\n"+
			"  * /Trial1/Synchronous Data/Ch0\n"+
			"    /Trial1/Synchronous Data/Ch1\n",
		out.String())
}

func TestRunTree_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunTree(context.Background(), testPanel(t), TreeOptions{File: "empty.h5", Out: &out}))
	assert.Equal(t, "/data/empty.h5: no trials\n", out.String())
}

func TestRunTree_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunTree(context.Background(), testPanel(t), TreeOptions{File: "rec.h5", JSON: true, Out: &out}))

	var got treeOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "/data/rec.h5", got.File)
	assert.True(t, got.PlotEnabled)
	assert.Equal(t, "/Trial1/Synchronous Data/Ch0", got.Selected)
	assert.Equal(t, 2, got.Tree.ChannelCount())
}

func TestRunTree_JSONError(t *testing.T) {
	var out bytes.Buffer
	err := RunTree(context.Background(), testPanel(t), TreeOptions{File: "missing.h5", JSON: true, Out: &out})
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	var got treeOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotEmpty(t, got.Error)
	assert.False(t, got.PlotEnabled)
}

func TestRunTree_Pretty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunTree(context.Background(), testPanel(t), TreeOptions{File: "rec.h5", Pretty: true, Width: 80, Out: &out}))
	assert.Contains(t, out.String(), "Trial1")
	assert.Contains(t, out.String(), "plotting enabled")
}

type fakeWatcher struct {
	ch chan struct{}
}

func (f *fakeWatcher) Watch(ctx context.Context, file string) (<-chan struct{}, error) {
	return f.ch, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunTree_Watch(t *testing.T) {
	w := &fakeWatcher{ch: make(chan struct{})}
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- RunTree(ctx, testPanel(t), TreeOptions{File: "rec.h5", Watch: true, Watcher: w, Out: out})
	}()

	w.ch <- struct{}{}
	require.Eventually(t, func() bool {
		return bytes.Count([]byte(out.String()), []byte("/Trial1/Synchronous Data/Ch0")) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Change detected")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestRunTree_WatchNeedsWatcher(t *testing.T) {
	var out bytes.Buffer
	err := RunTree(context.Background(), testPanel(t), TreeOptions{File: "rec.h5", Watch: true, Out: &out})
	assert.Error(t, err)
}

func TestRunChannel(t *testing.T) {
	var out bytes.Buffer
	p := testPanel(t)
	require.NoError(t, RunChannel(context.Background(), p, "rec.h5", "/Trial1/Synchronous Data/Ch1", false, &out))
	assert.Equal(t, "0.5\n-1\n0.002\n", out.String())

	out.Reset()
	require.NoError(t, RunChannel(context.Background(), p, "rec.h5", "/Trial1/Synchronous Data/Ch1", true, &out))
	assert.JSONEq(t, `{"path":"/Trial1/Synchronous Data/Ch1","samples":[0.5,-1,0.002]}`, out.String())

	err := RunChannel(context.Background(), p, "rec.h5", "/Trial1", false, &out)
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestRunChannel_Attributes(t *testing.T) {
	tr := memory.NewTraverser().
		AddPaths("/data/rec.h5",
			"g:/Trial1",
			"g:/Trial1/Synchronous Data",
			"d:/Trial1/Synchronous Data/Ch0",
		).
		SetSamples("/data/rec.h5", "/Trial1/Synchronous Data/Ch0", []float64{1}).
		SetAttributes("/data/rec.h5", "/Trial1/Synchronous Data/Ch0", "units")
	p, err := analysistools.New(analysistools.WithTraverser(tr), analysistools.WithDataDir("/data"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RunChannel(context.Background(), p, "rec.h5", "/Trial1/Synchronous Data/Ch0", true, &out))
	assert.JSONEq(t, `{"path":"/Trial1/Synchronous Data/Ch0","attributes":["units"],"samples":[1]}`, out.String())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{context.Canceled, ExitInterrupted},
		{fmt.Errorf("open: %w", domain.ErrFileNotFound), ExitNotFound},
		{domain.ErrSessionNotFound, ExitNotFound},
		{domain.ErrNotHDF5, ExitBadFile},
		{fmt.Errorf("%w: boom", domain.ErrTraversal), ExitBadFile},
		{errors.New("flag error"), ExitError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()
	sess := domain.NewSession("s1")

	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name       string
		cfg        config.StoreConfig
		wantLocker bool
	}{
		{"memory", config.StoreConfig{Backend: "memory"}, false},
		{"default", config.StoreConfig{}, false},
		{"file", config.StoreConfig{Backend: "file", Dir: filepath.Join(dir, "sessions")}, false},
		{"sqlite", config.StoreConfig{Backend: "SQLite", SQLitePath: filepath.Join(dir, "s.db")}, false},
		{"redis", config.StoreConfig{Backend: "redis", RedisURL: "redis://" + mr.Addr(), Prefix: "t:", TTL: time.Hour}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := OpenStore(ctx, tt.cfg, logger)
			require.NoError(t, err)
			defer p.Close()

			assert.Equal(t, tt.wantLocker, p.Locker != nil)
			require.NoError(t, p.Store.Save(ctx, sess))

			ids, err := p.Manager(logger).List(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, "s1")
		})
	}
}

func TestOpenStore_Errors(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StoreConfig{Backend: "etcd"}, logging.NewNop())
	assert.ErrorContains(t, err, "unknown store backend")

	_, err = OpenStore(context.Background(), config.StoreConfig{Backend: "redis", RedisURL: "://bad"}, logging.NewNop())
	assert.Error(t, err)
}

func TestPanelOptions(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = "/data"
	cfg.Plots = domain.PlotOptions{Scatter: true}
	p := &Persistence{Store: memory.NewStore()}

	opts := PanelOptions(cfg, logging.NewNop(), p, observability.NewMetrics())
	opts = append(opts, analysistools.WithTraverser(memory.NewTraverser()), analysistools.WithSessionID("cfg"))
	panel, err := analysistools.New(opts...)
	require.NoError(t, err)

	assert.Equal(t, "/data/x.h5", panel.ResolvePath("x.h5"))
	assert.Equal(t, domain.PlotOptions{Scatter: true}, panel.PlotOptions())

	ids, err := p.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg"}, ids)
}
