package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// Traverser implements ports.Traverser, ports.ChannelReader and
// ports.AttributeLister over scripted
// object sequences.
// It replays objects in the order they were registered.
type Traverser struct {
	mu      sync.RWMutex
	files   map[string][]domain.VisitedObject
	fail    map[string]failure
	samples map[string][]float64
	attrs   map[string][]string
	visits  map[string]int
}

type failure struct {
	after int
	err   error
}

// NewTraverser creates an empty traverser. Unknown files fail with domain.ErrFileNotFound.
func NewTraverser() *Traverser {
	return &Traverser{
		files:   make(map[string][]domain.VisitedObject),
		fail:    make(map[string]failure),
		samples: make(map[string][]float64),
		attrs:   make(map[string][]string),
		visits:  make(map[string]int),
	}
}

// AddFile registers the object sequence reported for file.
func (t *Traverser) AddFile(file string, objects ...domain.VisitedObject) *Traverser {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[file] = append([]domain.VisitedObject(nil), objects...)
	return t
}

// AddPaths registers file from "kind:path" shorthand, e.g. "g:/Trial1" or "d:/Trial1/x".
func (t *Traverser) AddPaths(file string, specs ...string) *Traverser {
	objs := make([]domain.VisitedObject, 0, len(specs))
	for _, s := range specs {
		objs = append(objs, ParseObject(s))
	}
	return t.AddFile(file, objs...)
}

// FailAfter makes file fail with err after n objects have been reported.
func (t *Traverser) FailAfter(file string, n int, err error) *Traverser {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail[file] = failure{after: n, err: err}
	return t
}

// SetSamples registers the samples returned by ReadChannel for path.
func (t *Traverser) SetSamples(file, path string, samples []float64) *Traverser {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples[file+"\x00"+path] = append([]float64(nil), samples...)
	return t
}

// SetAttributes registers the attribute names returned by Attributes for path.
func (t *Traverser) SetAttributes(file, path string, names ...string) *Traverser {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attrs[file+"\x00"+path] = append([]string(nil), names...)
	return t
}

// Visits returns how many traversals of file have started.
func (t *Traverser) Visits(file string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visits[file]
}

// Visit replays the objects registered for file.
func (t *Traverser) Visit(ctx context.Context, file string, fn ports.VisitFunc) error {
	t.mu.Lock()
	objs, ok := t.files[file]
	f, hasFail := t.fail[file]
	if ok {
		t.visits[file]++
	}
	t.mu.Unlock()

	if !ok {
		if hasFail && f.after == 0 {
			return f.err
		}
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, file)
	}

	for i, obj := range objs {
		if hasFail && i == f.after {
			return f.err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTraversal, err)
		}
		if err := fn(obj.Path, obj.Kind); err != nil {
			return err
		}
	}
	if hasFail && f.after >= len(objs) {
		return f.err
	}
	return nil
}

// ReadChannel returns the samples registered with SetSamples.
func (t *Traverser) ReadChannel(ctx context.Context, file, path string) ([]float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.samples[file+"\x00"+path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, path)
	}
	return append([]float64(nil), s...), nil
}

// Attributes returns the names registered with SetAttributes, or none.
func (t *Traverser) Attributes(ctx context.Context, file, path string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.attrs[file+"\x00"+path]...), nil
}

// ParseObject parses "g:", "d:", "t:" or "u:" prefixed shorthand.
// A spec without a prefix is treated as a group.
func ParseObject(spec string) domain.VisitedObject {
	if len(spec) >= 2 && spec[1] == ':' {
		kind := domain.KindUnknown
		switch spec[0] {
		case 'g':
			kind = domain.KindGroup
		case 'd':
			kind = domain.KindDataset
		case 't':
			kind = domain.KindNamedDatatype
		}
		return domain.VisitedObject{Path: spec[2:], Kind: kind}
	}
	return domain.VisitedObject{Path: spec, Kind: domain.KindGroup}
}

var (
	_ ports.Traverser     = (*Traverser)(nil)
	_ ports.ChannelReader = (*Traverser)(nil)
	_ ports.SessionStore  = (*Store)(nil)
)
