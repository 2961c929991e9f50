package analysistools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rtxi/analysis-tools/internal/cache"
	"github.com/rtxi/analysis-tools/internal/classifier"
	"github.com/rtxi/analysis-tools/internal/logging"
	"github.com/rtxi/analysis-tools/pkg/adapters/hdf5"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/observability"
	"github.com/rtxi/analysis-tools/pkg/ports"
	"github.com/rtxi/analysis-tools/pkg/session"
)

// FileExtension is the extension offered by the file filter.
const FileExtension = ".h5"

// ErrReadUnsupported is returned by ReadChannel when the traverser cannot read samples.
var ErrReadUnsupported = errors.New("channel reading not supported by traverser")

// Panel is the high-level entry point of the library.
// It owns the currently open file, its classified tree, the selection and the
// plot toggles, and serializes every mutation so concurrent front-ends cannot
// interleave traversals.
type Panel struct {
	mu sync.Mutex

	traverser ports.Traverser
	reader    ports.ChannelReader
	attrs     ports.AttributeLister
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	metrics   *observability.Metrics
	trees     *cache.Trees
	cacheSize int
	sessions  *session.Manager
	store     ports.SessionStore
	locker    ports.DistributedLocker
	dataDir   string
	listeners []func(*domain.SessionDiff)
	period    time.Duration
	model     *Model

	state *domain.Session
}

// Option defines a functional option for configuring the Panel.
type Option func(*Panel)

// WithTraverser replaces the default HDF5 traverser.
// If t also implements ports.ChannelReader it is used for ReadChannel.
func WithTraverser(t ports.Traverser) Option {
	return func(p *Panel) {
		p.traverser = t
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Panel) {
		p.hooks = hooks
	}
}

// WithStore persists the panel state after every change.
func WithStore(store ports.SessionStore) Option {
	return func(p *Panel) {
		p.store = store
	}
}

// WithLocker serializes saves of the session across processes sharing the store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Panel) {
		p.locker = locker
	}
}

// WithSessionID names the persisted session. A random ID is used otherwise.
func WithSessionID(id string) Option {
	return func(p *Panel) {
		p.state.ID = id
	}
}

// WithCache keeps up to size classified trees, keyed by file identity.
func WithCache(size int) Option {
	return func(p *Panel) {
		p.cacheSize = size
	}
}

// WithMetrics records opens, failures and classification counts.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Panel) {
		p.metrics = m
	}
}

// WithDataDir sets the directory relative file names resolve against.
func WithDataDir(dir string) Option {
	return func(p *Panel) {
		p.dataDir = dir
	}
}

// WithPlotOptions sets the initial plot toggles.
func WithPlotOptions(opts domain.PlotOptions) Option {
	return func(p *Panel) {
		p.state.Plots = opts
	}
}

// WithChangeListener is called with the difference after every state change.
// Listeners run while the panel lock is held and must not block.
func WithChangeListener(fn func(*domain.SessionDiff)) Option {
	return func(p *Panel) {
		p.listeners = append(p.listeners, fn)
	}
}

// WithPeriod sets the initial real-time period of the plugin model.
func WithPeriod(d time.Duration) Option {
	return func(p *Panel) {
		p.period = d
	}
}

// New creates a panel with no file open.
// With a store, a previously saved session with the same ID is restored.
func New(opts ...Option) (*Panel, error) {
	p := &Panel{
		state: domain.NewSession(""),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.state.ID == "" {
		p.state.ID = uuid.NewString()
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	p.logger = p.logger.With("session_id", p.state.ID)

	if p.traverser == nil {
		p.traverser = hdf5.New(hdf5.WithLogger(p.logger))
	}
	if r, ok := p.traverser.(ports.ChannelReader); ok {
		p.reader = r
	}
	if a, ok := p.traverser.(ports.AttributeLister); ok {
		p.attrs = a
	}
	p.model = NewModel(p.period)
	p.model.OnLifecycleEvent(domain.FlagInit, 0)

	if p.dataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			p.dataDir = home
		}
	}
	if p.metrics != nil {
		p.hooks = observability.Chain(observability.Hooks(p.metrics, nil), p.hooks)
	}
	if p.cacheSize > 0 {
		trees, err := cache.New(p.cacheSize)
		if err != nil {
			return nil, err
		}
		p.trees = trees
	}

	if p.store != nil {
		sessOpts := []session.Option{session.WithLogger(p.logger)}
		if p.locker != nil {
			sessOpts = append(sessOpts, session.WithLocker(p.locker))
		}
		p.sessions = session.NewManager(p.store, sessOpts...)
		plots := p.state.Plots
		sess, loaded, err := p.sessions.LoadOrCreate(context.Background(), p.state.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		if !loaded {
			sess.Plots = plots
		}
		p.state = sess
		p.logger.Debug("session ready", "restored", loaded)

		if loaded && sess.FilePath != "" {
			p.reopen(context.Background(), sess.FilePath, sess.SelectedChannel)
		}
	}

	return p, nil
}

// reopen traverses a restored file again so the tree and plot flag reflect
// the file on disk. A failure is recorded in the session like any failed open.
func (p *Panel) reopen(ctx context.Context, path, selected string) {
	tree, err := p.OpenFile(ctx, path)
	if err != nil {
		p.logger.Warn("restored file could not be reopened", "path", path, "err", err)
		return
	}
	if _, ok := tree.Channel(selected); ok && selected != p.Selected() {
		if err := p.Select(ctx, selected); err != nil {
			p.logger.Warn("restored selection lost", "channel", selected, "err", err)
		}
	}
}

// SessionID returns the ID under which the panel state is persisted.
func (p *Panel) SessionID() string {
	return p.state.ID
}

// ResolvePath maps a relative file name onto the data directory.
func (p *Panel) ResolvePath(name string) string {
	if name == "" || filepath.IsAbs(name) || p.dataDir == "" {
		return name
	}
	return filepath.Join(p.dataDir, name)
}

// OpenFile classifies the file at name and makes it the current file.
// On failure the previous tree is discarded and plotting is disabled.
// A file without trials is not an error, but leaves plotting disabled.
func (p *Panel) OpenFile(ctx context.Context, name string) (*domain.Tree, error) {
	path := p.ResolvePath(name)
	if !strings.EqualFold(filepath.Ext(path), FileExtension) {
		p.logger.Warn("file does not match filter", "path", path, "filter", "*"+FileExtension)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	tree, err := p.classify(ctx, path)
	if err != nil {
		emit(ctx, p.hooks.OnError, &domain.ErrorEvent{EventBase: p.event(domain.EventError), Path: path, Err: err})
		p.commit(ctx, func(s *domain.Session) {
			s.FilePath = ""
			s.Tree = nil
			s.SelectedChannel = ""
			s.PlotEnabled = false
			s.LastError = err.Error()
		})
		return nil, err
	}

	elapsed := time.Since(start)
	p.commit(ctx, func(s *domain.Session) {
		s.FilePath = path
		s.Tree = tree
		s.SelectedChannel = ""
		if tree.Selected != nil {
			s.SelectedChannel = tree.Selected.Path
		}
		s.PlotEnabled = !tree.Empty()
		s.LastError = ""
		s.OpenedAt = time.Now()
	})
	emit(ctx, p.hooks.OnFileOpen, &domain.FileEvent{
		EventBase: p.event(domain.EventFileOpen),
		Path:      path,
		Trials:    len(tree.Trials),
		Channels:  tree.ChannelCount(),
		Duration:  elapsed,
	})
	return tree.Clone(), nil
}

func (p *Panel) classify(ctx context.Context, path string) (*domain.Tree, error) {
	var key cache.Key
	if p.trees != nil {
		// A stat failure is left for the traverser to report.
		if k, err := cache.KeyFor(path); err == nil {
			key = k
			tree, hit := p.trees.Get(key)
			if p.metrics != nil {
				p.metrics.CacheLookup(hit)
			}
			if hit {
				p.logger.Debug("tree cache hit", "path", path)
				p.replay(ctx, tree)
				return tree, nil
			}
		}
	}

	firstChannel := true
	tree, err := classifier.Run(ctx, p.traverser, path, func(action classifier.Action, objPath string) {
		switch action {
		case classifier.ActionAddTrial:
			emit(ctx, p.hooks.OnTrial, &domain.NodeEvent{EventBase: p.event(domain.EventTrial), Path: objPath})
		case classifier.ActionAddChannel:
			emit(ctx, p.hooks.OnChannel, &domain.NodeEvent{
				EventBase:    p.event(domain.EventChannel),
				Path:         objPath,
				AutoSelected: firstChannel,
			})
			firstChannel = false
		}
	})
	if err != nil {
		if p.trees != nil {
			p.trees.Forget(path)
		}
		if !domain.IsOpenFailure(err) {
			err = fmt.Errorf("%w: %w", domain.ErrTraversal, err)
		}
		return nil, err
	}

	if p.trees != nil && key.Path != "" {
		p.trees.Put(key, tree)
	}
	return tree, nil
}

// replay emits the node events of a cached tree so hook consumers see the
// same events as after a traversal.
func (p *Panel) replay(ctx context.Context, tree *domain.Tree) {
	for _, trial := range tree.Trials {
		emit(ctx, p.hooks.OnTrial, &domain.NodeEvent{EventBase: p.event(domain.EventTrial), Path: trial.Path})
		for _, ch := range trial.Channels {
			emit(ctx, p.hooks.OnChannel, &domain.NodeEvent{
				EventBase:    p.event(domain.EventChannel),
				Path:         ch.Path,
				AutoSelected: ch.AutoSelected,
			})
		}
	}
}

// CloseFile drops the current file and its tree. Closing with no file open is a no-op.
func (p *Panel) CloseFile(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.state.FilePath
	if path == "" && p.state.Tree == nil {
		return nil
	}
	p.commit(ctx, func(s *domain.Session) {
		s.FilePath = ""
		s.Tree = nil
		s.SelectedChannel = ""
		s.PlotEnabled = false
		s.LastError = ""
	})
	emit(ctx, p.hooks.OnFileClose, &domain.FileEvent{EventBase: p.event(domain.EventFileClose), Path: path})
	return nil
}

// Tree returns a copy of the current tree, or nil when no file is open.
func (p *Panel) Tree() *domain.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Tree.Clone()
}

// FilePath returns the path of the open file, or "".
func (p *Panel) FilePath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.FilePath
}

// PlotEnabled reports whether the last open succeeded with at least one trial.
func (p *Panel) PlotEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.PlotEnabled
}

// Selected returns the selected channel path, or "".
func (p *Panel) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.SelectedChannel
}

// Snapshot returns a copy of the full panel state.
func (p *Panel) Snapshot() *domain.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// Select makes channelPath the current channel.
func (p *Panel) Select(ctx context.Context, channelPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Tree == nil {
		return domain.ErrNoFileOpen
	}
	if _, ok := p.state.Tree.Channel(channelPath); !ok {
		return fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelPath)
	}
	p.commit(ctx, func(s *domain.Session) {
		s.SelectedChannel = channelPath
	})
	return nil
}

// SetPlot toggles one plot kind.
func (p *Panel) SetPlot(ctx context.Context, kind domain.PlotKind, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plots, err := p.state.Plots.With(kind, enabled)
	if err != nil {
		return err
	}
	p.commit(ctx, func(s *domain.Session) {
		s.Plots = plots
	})
	return nil
}

// PlotOptions returns the plot toggles.
func (p *Panel) PlotOptions() domain.PlotOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Plots
}

// ScreenshotEnabled reports whether the screenshot action for kind is available.
func (p *Panel) ScreenshotEnabled(kind domain.PlotKind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.ScreenshotEnabled(kind)
}

// ReadChannel returns the samples of a channel of the open file.
func (p *Panel) ReadChannel(ctx context.Context, channelPath string) ([]float64, error) {
	p.mu.Lock()
	file := p.state.FilePath
	tree := p.state.Tree
	p.mu.Unlock()

	if tree == nil {
		return nil, domain.ErrNoFileOpen
	}
	if _, ok := tree.Channel(channelPath); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelPath)
	}
	if p.reader == nil {
		return nil, ErrReadUnsupported
	}
	return p.reader.ReadChannel(ctx, file, channelPath)
}

// Attributes lists the attribute names of a channel of the open file.
// Traversers that cannot list attributes report none.
func (p *Panel) Attributes(ctx context.Context, channelPath string) ([]string, error) {
	p.mu.Lock()
	file := p.state.FilePath
	tree := p.state.Tree
	p.mu.Unlock()

	if tree == nil {
		return nil, domain.ErrNoFileOpen
	}
	if _, ok := tree.Channel(channelPath); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelPath)
	}
	if p.attrs == nil {
		return nil, nil
	}
	return p.attrs.Attributes(ctx, file, channelPath)
}

// commit applies fn to a copy of the state, persists it and notifies listeners.
// The caller must hold p.mu. Persistence failures are logged, not returned:
// the in-memory panel stays authoritative.
func (p *Panel) commit(ctx context.Context, fn func(*domain.Session)) {
	prev := p.state
	next := prev.Clone()
	fn(next)
	next.UpdatedAt = time.Now()
	p.state = next

	if p.sessions != nil {
		if err := p.sessions.Save(ctx, next); err != nil {
			p.logger.Error("failed to persist session", "err", err)
		}
	}

	if diff := domain.Diff(prev, next); diff != nil {
		for _, l := range p.listeners {
			l(diff)
		}
	}
}

func emit[E any](ctx context.Context, fn func(context.Context, E), e E) {
	if fn != nil {
		fn(ctx, e)
	}
}

func (p *Panel) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: p.state.ID}
}

var _ ports.Panel = (*Panel)(nil)
