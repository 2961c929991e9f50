package ports

import (
	"context"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// VisitFunc receives one object of a traversal.
// Returning a non-nil error stops the walk.
type VisitFunc func(path string, kind domain.ObjectKind) error

// Traverser walks the object hierarchy of a file.
type Traverser interface {
	// Visit calls fn once per object under file, root included.
	// The order is defined by the implementation.
	Visit(ctx context.Context, file string, fn VisitFunc) error
}

// ChannelReader reads recorded samples.
type ChannelReader interface {
	// ReadChannel returns the samples of the dataset at path.
	ReadChannel(ctx context.Context, file, path string) ([]float64, error)
}

// AttributeLister lists the attribute names attached to a dataset.
type AttributeLister interface {
	Attributes(ctx context.Context, file, path string) ([]string, error)
}

// Watchable notifies when a file changes on disk.
type Watchable interface {
	// Watch returns a channel that is signaled when the file changes.
	Watch(ctx context.Context, file string) (<-chan struct{}, error)
}
