package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// TreeMarkdown describes tree as a markdown document: one heading per trial,
// a list of channels, the selected one in bold.
func TreeMarkdown(file string, tree *domain.Tree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", path.Base(file))

	if tree.Empty() {
		b.WriteString("_No trials found. Plotting is disabled._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d trials, %d channels\n\n", len(tree.Trials), tree.ChannelCount())
	for _, trial := range tree.Trials {
		fmt.Fprintf(&b, "## %s\n\n", trialName(trial.Path))
		if len(trial.Channels) == 0 {
			b.WriteString("_no channels_\n\n")
			continue
		}
		for _, ch := range trial.Channels {
			name := "`" + path.Base(ch.Path) + "`"
			if ch.AutoSelected {
				name = "**" + name + "** (selected)"
			}
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TreeText is the plain rendering used when stdout is not a terminal.
func TreeText(tree *domain.Tree) string {
	if tree == nil {
		return ""
	}
	var b strings.Builder
	for _, trial := range tree.Trials {
		fmt.Fprintf(&b, "%s\n", trial.Path)
		for _, ch := range trial.Channels {
			mark := " "
			if ch.AutoSelected {
				mark = "*"
			}
			fmt.Fprintf(&b, "  %s %s\n", mark, ch.Path)
		}
	}
	return b.String()
}

// trialName strips the synchronous data suffix: "/Trial1/Synchronous Data" -> "Trial1".
func trialName(p string) string {
	p = strings.TrimSuffix(p, "/"+domain.SynchronousDataSuffix)
	return strings.TrimPrefix(p, "/")
}
