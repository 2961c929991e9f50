package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// StreamManager fans session diffs out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> set of channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for sessionID. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions for sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs := sm.subscribers[sessionID]
	sm.logger.Debug("stream broadcast", "session_id", sessionID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			// Slow client.
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Publish serializes diff and broadcasts it to the diff's session.
// It has the shape expected by analysistools.WithChangeListener.
func (sm *StreamManager) Publish(diff *domain.SessionDiff) {
	if diff == nil {
		return
	}
	b, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("failed to encode session diff", "err", err)
		return
	}
	sm.Broadcast(diff.SessionID, string(b))
}

// matchesWatch reports whether diff touches one of the watched fields.
// An empty watch list matches everything.
func matchesWatch(diff *domain.SessionDiff, watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "file":
			if diff.FilePath != nil {
				return true
			}
		case "tree":
			if diff.Tree != nil {
				return true
			}
		case "selection":
			if diff.SelectedChannel != nil {
				return true
			}
		case "plots":
			if diff.Plots != nil || diff.PlotEnabled != nil {
				return true
			}
		case "error":
			if diff.LastError != nil {
				return true
			}
		}
	}
	return false
}
