package observability

import (
	"context"
	"log/slog"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// Hooks returns lifecycle hooks that record into m and log through logger.
// Either argument may be nil.
func Hooks(m *Metrics, logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFileOpen: func(ctx context.Context, e *domain.FileEvent) {
			if m != nil {
				m.FileOpened(e.Duration)
			}
			if logger != nil {
				logger.Info("file opened", "path", e.Path, "trials", e.Trials, "channels", e.Channels, "duration", e.Duration)
			}
		},
		OnFileClose: func(ctx context.Context, e *domain.FileEvent) {
			if logger != nil {
				logger.Info("file closed", "path", e.Path)
			}
		},
		OnTrial: func(ctx context.Context, e *domain.NodeEvent) {
			if m != nil {
				m.TrialAdded()
			}
			if logger != nil {
				logger.Debug("trial", "path", e.Path)
			}
		},
		OnChannel: func(ctx context.Context, e *domain.NodeEvent) {
			if m != nil {
				m.ChannelAdded()
			}
			if logger != nil {
				logger.Debug("channel", "path", e.Path, "trial", e.Trial, "auto_selected", e.AutoSelected)
			}
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			if m != nil {
				m.OpenFailed(e.Err)
			}
			if logger != nil {
				logger.Warn("file open failed", "path", e.Path, "err", e.Err)
			}
		},
	}
}

// Chain merges several hook sets. Each callback fans out in argument order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnFileOpen = chain(out.OnFileOpen, h.OnFileOpen)
		out.OnFileClose = chain(out.OnFileClose, h.OnFileClose)
		out.OnTrial = chain(out.OnTrial, h.OnTrial)
		out.OnChannel = chain(out.OnChannel, h.OnChannel)
		out.OnError = chain(out.OnError, h.OnError)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
