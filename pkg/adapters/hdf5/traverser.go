// Package hdf5 adapts github.com/scigolib/hdf5 to the traversal and channel
// reading ports.
package hdf5

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	h5 "github.com/scigolib/hdf5"

	"github.com/rtxi/analysis-tools/internal/logging"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// Traverser implements ports.Traverser and ports.ChannelReader on HDF5 files.
// Files are opened read-only and closed before each call returns.
type Traverser struct {
	logger *slog.Logger
}

// Option configures a Traverser.
type Option func(*Traverser)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Traverser) {
		t.logger = l
	}
}

// New creates an HDF5 traverser.
func New(opts ...Option) *Traverser {
	t := &Traverser{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var (
	_ ports.Traverser     = (*Traverser)(nil)
	_ ports.ChannelReader = (*Traverser)(nil)
)

// NormalizePath maps library paths to the form the classifier expects:
// the root becomes "." and trailing slashes are dropped.
func NormalizePath(p string) string {
	if p == "" || p == "/" {
		return domain.RootPath
	}
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}
	return domain.RootPath
}

// Visit walks file depth-first and reports every object.
// It stops after the current object when ctx is cancelled or fn fails.
func (t *Traverser) Visit(ctx context.Context, file string, fn ports.VisitFunc) (err error) {
	f, err := t.open(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			t.logger.Warn("close failed", "file", file, "err", cerr)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", domain.ErrTraversal, file, r)
		}
	}()

	if err := walk(ctx, f.Root(), "", fn); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", domain.ErrTraversal, err)
		}
		return err
	}
	return nil
}

func walk(ctx context.Context, g *h5.Group, path string, fn ports.VisitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(NormalizePath(path), domain.KindGroup); err != nil {
		return err
	}
	for _, child := range g.Children() {
		childPath := path + "/" + child.Name()
		if sub, ok := child.(*h5.Group); ok {
			if err := walk(ctx, sub, childPath, fn); err != nil {
				return err
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(childPath, kindOf(child)); err != nil {
			return err
		}
	}
	return nil
}

func kindOf(obj h5.Object) domain.ObjectKind {
	switch obj.(type) {
	case *h5.Group:
		return domain.KindGroup
	case *h5.Dataset:
		return domain.KindDataset
	default:
		return domain.KindUnknown
	}
}

// open checks the file before handing it to the library so that missing or
// unreadable files fail before any object is reported.
func (t *Traverser) open(file string) (f *h5.File, err error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, classifyOSError(file, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrNotHDF5, file)
	}

	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrCorruptFile, file, r)
		}
	}()

	f, err = h5.Open(file)
	if err != nil {
		return nil, classifyOpenError(file, err)
	}
	t.logger.Debug("hdf5 file opened", "file", file, "superblock", f.SuperblockVersion())
	return f, nil
}

func classifyOSError(file string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, file)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, file)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrCorruptFile, file, err)
}

func classifyOpenError(file string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return classifyOSError(file, err)
	case strings.Contains(err.Error(), "not an HDF5 file"):
		return fmt.Errorf("%w: %s", domain.ErrNotHDF5, file)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrCorruptFile, file, err)
}
