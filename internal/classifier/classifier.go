// Package classifier turns the object stream of a file traversal into a
// trial -> channel tree.
//
// A trial opens on the first group seen while no trial is open. It is
// confirmed by a later group under the same prefix whose name ends with
// "Synchronous Data", which becomes the trial node. Datasets under the
// confirmed trial's synchronous data group become channels, except the
// "Channel Data" companion dataset.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// Action is the effect of classifying one object.
type Action int

const (
	ActionNone Action = iota
	ActionOpenTrial
	ActionAddTrial
	ActionAddChannel
)

func (a Action) String() string {
	switch a {
	case ActionOpenTrial:
		return "open_trial"
	case ActionAddTrial:
		return "add_trial"
	case ActionAddChannel:
		return "add_channel"
	}
	return "none"
}

// Context carries classification state across the objects of one traversal.
// A fresh Context must be used for every traversal.
type Context struct {
	trialPath            string
	trialOpen            bool
	firstChannelSelected bool
	tree                 *domain.Tree
}

// NewContext returns a reset context with an empty tree.
func NewContext() *Context {
	return &Context{tree: domain.NewTree()}
}

// Tree returns the tree built so far.
func (c *Context) Tree() *domain.Tree {
	return c.tree
}

// TrialPath returns the path of the current trial candidate, or "".
func (c *Context) TrialPath() string {
	return c.trialPath
}

// TrialOpen reports whether a trial candidate awaits its synchronous data group.
func (c *Context) TrialOpen() bool {
	return c.trialOpen
}

// Classify applies the rules to one object. It never fails.
func (c *Context) Classify(path string, kind domain.ObjectKind) Action {
	if domain.IsRoot(path) {
		return ActionNone
	}

	switch kind {
	case domain.KindGroup:
		return c.group(path)
	case domain.KindDataset:
		return c.dataset(path)
	default:
		return ActionNone
	}
}

func (c *Context) group(path string) Action {
	if !c.trialOpen {
		c.trialPath = path
		c.trialOpen = true
		return ActionOpenTrial
	}
	if strings.HasPrefix(path, c.trialPath) && strings.HasSuffix(path, domain.SynchronousDataSuffix) {
		c.trialOpen = false
		c.tree.Trials = append(c.tree.Trials, &domain.TrialNode{
			Path:     path,
			Channels: []*domain.ChannelNode{},
		})
		return ActionAddTrial
	}
	return ActionNone
}

func (c *Context) dataset(path string) Action {
	if c.trialPath == "" || len(c.tree.Trials) == 0 {
		return ActionNone
	}
	if !strings.HasPrefix(path, c.trialPath+"/"+domain.SynchronousDataSuffix) {
		return ActionNone
	}
	if strings.HasSuffix(path, domain.ChannelDataSuffix) {
		return ActionNone
	}

	last := c.tree.Trials[len(c.tree.Trials)-1]
	if !strings.HasPrefix(path, last.Path) {
		return ActionNone
	}

	ch := &domain.ChannelNode{Path: path, Trial: last.Path}
	if !c.firstChannelSelected {
		c.firstChannelSelected = true
		ch.AutoSelected = true
		c.tree.Selected = ch
	}
	last.Channels = append(last.Channels, ch)
	return ActionAddChannel
}

// Observer is notified of every classification that changed the tree.
type Observer func(action Action, path string)

// Run walks file with t and returns the classified tree.
// The walk itself is never interrupted by classification; only driver
// errors and ctx cancellation surface as errors.
func Run(ctx context.Context, t ports.Traverser, file string, observers ...Observer) (*domain.Tree, error) {
	c := NewContext()
	err := t.Visit(ctx, file, func(path string, kind domain.ObjectKind) error {
		action := c.Classify(path, kind)
		if action == ActionNone {
			return nil
		}
		for _, obs := range observers {
			obs(action, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", file, err)
	}
	return c.Tree(), nil
}
