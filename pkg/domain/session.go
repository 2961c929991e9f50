package domain

import "time"

// Session is the persisted state of one panel.
type Session struct {
	ID              string      `json:"id"`
	FilePath        string      `json:"file_path,omitempty"`
	Tree            *Tree       `json:"tree,omitempty"`
	SelectedChannel string      `json:"selected_channel,omitempty"`
	PlotEnabled     bool        `json:"plot_enabled"`
	Plots           PlotOptions `json:"plots"`
	LastError       string      `json:"last_error,omitempty"`
	OpenedAt        time.Time   `json:"opened_at,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewSession creates a session with no file and default plot toggles.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Plots:     DefaultPlotOptions(),
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Tree = s.Tree.Clone()
	return &out
}

// ScreenshotEnabled reports whether the screenshot action for kind is available.
func (s *Session) ScreenshotEnabled(kind PlotKind) bool {
	return s.PlotEnabled && s.Plots.Enabled(kind)
}
