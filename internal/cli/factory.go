package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/config"
	"github.com/rtxi/analysis-tools/pkg/adapters/file"
	"github.com/rtxi/analysis-tools/pkg/adapters/memory"
	"github.com/rtxi/analysis-tools/pkg/adapters/redis"
	"github.com/rtxi/analysis-tools/pkg/adapters/sqlite"
	"github.com/rtxi/analysis-tools/pkg/observability"
	"github.com/rtxi/analysis-tools/pkg/ports"
	"github.com/rtxi/analysis-tools/pkg/session"
)

// Backends lists the accepted values of --store.
var Backends = []string{"memory", "file", "redis", "sqlite"}

// Persistence bundles a session store with what it needs at shutdown.
type Persistence struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	closer func() error
}

// Close releases the backend connection, if any.
func (p *Persistence) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer()
}

// Manager returns a session manager over the store, using the distributed
// locker when the backend provides one.
func (p *Persistence) Manager(logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}
	return session.NewManager(p.Store, opts...)
}

// OpenStore builds the session backend selected by cfg.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Persistence, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", "memory":
		return &Persistence{Store: memory.NewStore()}, nil

	case "file":
		return &Persistence{Store: file.New(cfg.Dir)}, nil

	case "redis":
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		store, err := redis.NewFromURL(cfg.RedisURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis store: %w", err)
		}
		logger.Debug("redis store ready", "prefix", store.Prefix())
		return &Persistence{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			closer: store.Close,
		}, nil

	case "sqlite":
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		return &Persistence{Store: store, closer: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q (want one of %s)", cfg.Backend, strings.Join(Backends, ", "))
}

// PanelOptions translates the configuration into panel options.
// persistence and metrics may be nil.
func PanelOptions(cfg config.Config, logger *slog.Logger, persistence *Persistence, metrics *observability.Metrics) []analysistools.Option {
	opts := []analysistools.Option{
		analysistools.WithLogger(logger),
		analysistools.WithDataDir(cfg.DataDir),
		analysistools.WithPlotOptions(cfg.Plots),
		analysistools.WithLifecycleHooks(observability.Hooks(nil, logger)),
	}
	if cfg.Cache.Size > 0 {
		opts = append(opts, analysistools.WithCache(cfg.Cache.Size))
	}
	if persistence != nil {
		opts = append(opts, analysistools.WithStore(persistence.Store))
		if persistence.Locker != nil {
			opts = append(opts, analysistools.WithLocker(persistence.Locker))
		}
	}
	if metrics != nil {
		opts = append(opts, analysistools.WithMetrics(metrics))
	}
	return opts
}
