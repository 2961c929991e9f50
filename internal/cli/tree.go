package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/presentation/tui"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// TreeOptions controls the tree command.
type TreeOptions struct {
	File string
	JSON bool
	// Pretty renders markdown through glamour. Set when stdout is a terminal.
	Pretty bool
	Width  int
	// Watcher is required when Watch is set.
	Watch   bool
	Watcher ports.Watchable
	Out     io.Writer
}

type treeOutput struct {
	File        string       `json:"file"`
	Tree        *domain.Tree `json:"tree"`
	Selected    string       `json:"selected,omitempty"`
	PlotEnabled bool         `json:"plot_enabled"`
	Error       string       `json:"error,omitempty"`
}

// RunTree opens the file, prints its tree and, in watch mode, prints it again
// after every change until ctx is done. In watch mode open failures are
// reported and the command keeps waiting for the next change.
func RunTree(ctx context.Context, panel *analysistools.Panel, opts TreeOptions) error {
	err := printTree(ctx, panel, opts)
	if !opts.Watch {
		return err
	}
	if opts.Watcher == nil {
		return errors.New("watch mode needs a watcher")
	}

	path := panel.ResolvePath(opts.File)
	changes, werr := opts.Watcher.Watch(ctx, path)
	if werr != nil {
		return fmt.Errorf("failed to watch %s: %w", path, werr)
	}
	if !opts.JSON {
		PrintSystemMessage(opts.Out, "Watching '%s' for changes.", path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if !opts.JSON {
				PrintSystemMessage(opts.Out, "Change detected in '%s'.", path)
			}
			_ = printTree(ctx, panel, opts)
		}
	}
}

func printTree(ctx context.Context, panel *analysistools.Panel, opts TreeOptions) error {
	tree, err := panel.OpenFile(ctx, opts.File)
	file := panel.ResolvePath(opts.File)

	if opts.JSON {
		out := treeOutput{File: file, Tree: tree, PlotEnabled: panel.PlotEnabled(), Selected: panel.Selected()}
		if err != nil {
			out.Error = err.Error()
		}
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		tui.Status(opts.Out, false, "%s: %v", file, err)
		return err
	}

	if !opts.Pretty {
		if tree.Empty() {
			fmt.Fprintf(opts.Out, "%s: no trials\n", file)
			return nil
		}
		fmt.Fprint(opts.Out, tui.TreeText(tree))
		return nil
	}

	render, rerr := tui.NewRenderer(opts.Width)
	if rerr != nil {
		return fmt.Errorf("failed to create renderer: %w", rerr)
	}
	s, rerr := render(tui.TreeMarkdown(file, tree))
	if rerr != nil {
		return fmt.Errorf("failed to render tree: %w", rerr)
	}
	fmt.Fprint(opts.Out, s)
	tui.Status(opts.Out, !tree.Empty(), "plotting %s", enabledWord(!tree.Empty()))
	return nil
}

type channelOutput struct {
	Path       string    `json:"path"`
	Attributes []string  `json:"attributes,omitempty"`
	Samples    []float64 `json:"samples"`
}

// RunChannel opens file and prints the samples of channel, one per line or
// as a JSON array.
func RunChannel(ctx context.Context, panel *analysistools.Panel, file, channel string, asJSON bool, out io.Writer) error {
	if _, err := panel.OpenFile(ctx, file); err != nil {
		return err
	}
	samples, err := panel.ReadChannel(ctx, channel)
	if err != nil {
		return err
	}
	if asJSON {
		attrs, err := panel.Attributes(ctx, channel)
		if err != nil {
			return err
		}
		return json.NewEncoder(out).Encode(channelOutput{Path: channel, Attributes: attrs, Samples: samples})
	}
	for _, v := range samples {
		fmt.Fprintln(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return nil
}

func enabledWord(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
