package domain

// SessionDiff represents the changes between two session snapshots.
// It is serialized to JSON and pushed to stream subscribers.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	FilePath        *string      `json:"file_path,omitempty"`
	SelectedChannel *string      `json:"selected_channel,omitempty"`
	PlotEnabled     *bool        `json:"plot_enabled,omitempty"`
	Plots           *PlotOptions `json:"plots,omitempty"`
	LastError       *string      `json:"last_error,omitempty"`

	// Tree is sent whole. Trees are replaced, never patched.
	Tree *Tree `json:"tree,omitempty"`
}

// Diff calculates the difference between oldSess and newSess.
// If oldSess is nil, it returns a diff representing the entire newSess.
// It returns nil when nothing changed.
func Diff(oldSess, newSess *Session) *SessionDiff {
	if newSess == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSess.ID}

	if oldSess == nil || oldSess.FilePath != newSess.FilePath {
		diff.FilePath = &newSess.FilePath
	}
	if oldSess == nil || oldSess.SelectedChannel != newSess.SelectedChannel {
		diff.SelectedChannel = &newSess.SelectedChannel
	}
	if oldSess == nil || oldSess.PlotEnabled != newSess.PlotEnabled {
		diff.PlotEnabled = &newSess.PlotEnabled
	}
	if oldSess == nil || oldSess.Plots != newSess.Plots {
		plots := newSess.Plots
		diff.Plots = &plots
	}
	if oldSess == nil || oldSess.LastError != newSess.LastError {
		diff.LastError = &newSess.LastError
	}
	// A new file always carries its tree, even when both are empty.
	if oldSess == nil || diff.FilePath != nil || !sameTree(oldSess.Tree, newSess.Tree) {
		diff.Tree = newSess.Tree
		if diff.Tree == nil {
			diff.Tree = NewTree()
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// sameTree compares trees structurally. A nil tree (no file) differs from
// an empty one (a file without trials).
func sameTree(a, b *Tree) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a.Empty() && b.Empty() {
		return true
	}
	if a.Empty() != b.Empty() || len(a.Trials) != len(b.Trials) {
		return false
	}
	for i, ta := range a.Trials {
		tb := b.Trials[i]
		if ta.Path != tb.Path || len(ta.Channels) != len(tb.Channels) {
			return false
		}
		for j, ca := range ta.Channels {
			if *ca != *tb.Channels[j] {
				return false
			}
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.FilePath == nil &&
		d.SelectedChannel == nil &&
		d.PlotEnabled == nil &&
		d.Plots == nil &&
		d.LastError == nil &&
		d.Tree == nil
}
