package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFileOpen  EventType = "file_open"
	EventFileClose EventType = "file_close"
	EventTrial     EventType = "trial"
	EventChannel   EventType = "channel"
	EventError     EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// FileEvent is emitted when a file is opened or closed.
type FileEvent struct {
	EventBase
	Path     string        `json:"path"`
	Trials   int           `json:"trials"`
	Channels int           `json:"channels"`
	Duration time.Duration `json:"duration,omitempty"`
}

// NodeEvent is emitted for every trial or channel added to the tree.
type NodeEvent struct {
	EventBase
	Path         string `json:"path"`
	Trial        string `json:"trial,omitempty"`
	AutoSelected bool   `json:"auto_selected,omitempty"`
}

// ErrorEvent is emitted when opening a file fails.
type ErrorEvent struct {
	EventBase
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// LifecycleHooks defines callbacks for panel observability.
type LifecycleHooks struct {
	OnFileOpen  func(context.Context, *FileEvent)
	OnFileClose func(context.Context, *FileEvent)
	OnTrial     func(context.Context, *NodeEvent)
	OnChannel   func(context.Context, *NodeEvent)
	OnError     func(context.Context, *ErrorEvent)
}
