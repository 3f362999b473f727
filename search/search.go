// Package search keeps history lookups ordered: keystrokes are debounced and
// every request carries a sequence number so a slow, stale response can never
// overwrite a newer one.
package search

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// Tracker hands out request sequence numbers and remembers the newest
type Tracker struct {
	mu     sync.Mutex
	latest uint64
}

// Begin starts a new request; anything issued earlier becomes stale
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Accept reports whether a response tagged seq is still the newest
func (t *Tracker) Accept(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq != 0 && seq == t.latest
}

// Cancel makes every outstanding request stale
func (t *Tracker) Cancel() {
	t.Begin()
}

// DebounceMsg fires once the quiet period after a keystroke has passed
type DebounceMsg struct {
	Seq   uint64
	Query string
}

// Debouncer delays a lookup until typing pauses. Each keystroke
// supersedes the previous pending one.
type Debouncer struct {
	Delay   time.Duration
	tracker Tracker
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Trigger schedules a DebounceMsg for query
func (d *Debouncer) Trigger(query string) tea.Cmd {
	seq := d.tracker.Begin()
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq, Query: query}
	})
}

// Ready reports whether msg is the last keystroke's timer
func (d *Debouncer) Ready(msg DebounceMsg) bool {
	return d.tracker.Accept(msg.Seq)
}

// Stop drops any pending timer
func (d *Debouncer) Stop() {
	d.tracker.Cancel()
}

// Normalize trims a query; an empty result means "list everything"
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// Filter fuzzy-matches items by key, best matches first. An empty query
// returns items unchanged.
func Filter[T any](query string, items []T, key func(T) string) []T {
	query = Normalize(query)
	if query == "" {
		return items
	}

	targets := make([]string, len(items))
	for i, item := range items {
		targets[i] = key(item)
	}

	matches := fuzzy.Find(query, targets)
	out := make([]T, len(matches))
	for i, match := range matches {
		out[i] = items[match.Index]
	}
	return out
}
