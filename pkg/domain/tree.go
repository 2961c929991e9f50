package domain

// Names used by RTXI recordings to mark trial data.
const (
	SynchronousDataSuffix = "Synchronous Data"
	ChannelDataSuffix     = "Channel Data"
)

// ChannelNode is a recorded signal under a trial's synchronous data group.
type ChannelNode struct {
	Path         string `json:"path"`
	Trial        string `json:"trial"`
	AutoSelected bool   `json:"auto_selected,omitempty"`
}

// TrialNode is a top-level recording session.
type TrialNode struct {
	Path     string         `json:"path"`
	Channels []*ChannelNode `json:"channels"`
}

// Tree is the classified view of one file.
// It is built by a single traversal and replaced wholesale on the next open.
type Tree struct {
	Trials []*TrialNode `json:"trials"`

	// Selected is the first channel of the traversal, or nil.
	Selected *ChannelNode `json:"selected,omitempty"`
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Trials: []*TrialNode{}}
}

// Empty reports whether no trial was recognized.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Trials) == 0
}

// ChannelCount returns the number of channels across all trials.
func (t *Tree) ChannelCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, trial := range t.Trials {
		n += len(trial.Channels)
	}
	return n
}

// Channel looks up a channel by path.
func (t *Tree) Channel(path string) (*ChannelNode, bool) {
	if t == nil {
		return nil, false
	}
	for _, trial := range t.Trials {
		for _, ch := range trial.Channels {
			if ch.Path == path {
				return ch, true
			}
		}
	}
	return nil, false
}

// Clone returns a deep copy. Selected points into the copy.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Trials: make([]*TrialNode, 0, len(t.Trials))}
	for _, trial := range t.Trials {
		tc := &TrialNode{Path: trial.Path, Channels: make([]*ChannelNode, 0, len(trial.Channels))}
		for _, ch := range trial.Channels {
			cc := *ch
			tc.Channels = append(tc.Channels, &cc)
			if t.Selected != nil && t.Selected.Path == ch.Path {
				out.Selected = tc.Channels[len(tc.Channels)-1]
			}
		}
		out.Trials = append(out.Trials, tc)
	}
	return out
}
