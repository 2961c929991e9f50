package hdf5

import (
	"context"
	"fmt"
	"strings"

	h5 "github.com/scigolib/hdf5"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// ReadChannel reads the samples of the dataset at path.
func (t *Traverser) ReadChannel(ctx context.Context, file, path string) (samples []float64, err error) {
	ds, closeFn, err := t.dataset(ctx, file, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: read %s: %v", domain.ErrCorruptFile, path, r)
		}
	}()

	samples, err = ds.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t.logger.Debug("channel read", "file", file, "path", path, "samples", len(samples))
	return samples, nil
}

// Attributes lists the attribute names attached to the dataset at path.
func (t *Traverser) Attributes(ctx context.Context, file, path string) ([]string, error) {
	ds, closeFn, err := t.dataset(ctx, file, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	names, err := ds.ListAttributes()
	if err != nil {
		return nil, fmt.Errorf("attributes %s: %w", path, err)
	}
	return names, nil
}

func (t *Traverser) dataset(ctx context.Context, file, path string) (*h5.Dataset, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := t.open(file)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			t.logger.Warn("close failed", "file", file, "err", cerr)
		}
	}

	obj := lookup(f.Root(), path)
	ds, ok := obj.(*h5.Dataset)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, path)
	}
	return ds, closeFn, nil
}

func lookup(root *h5.Group, path string) h5.Object {
	var cur h5.Object = root
	for _, name := range strings.Split(strings.Trim(path, "/"), "/") {
		if name == "" {
			continue
		}
		g, ok := cur.(*h5.Group)
		if !ok {
			return nil
		}
		var next h5.Object
		for _, child := range g.Children() {
			if child.Name() == name {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
