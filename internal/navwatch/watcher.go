// Package navwatch coalesces the host page's overlapping navigation signals
// into one logical navigation event per real transition.
package navwatch

import (
	"strings"
	"time"

	"overlay/internal/types"
)

type Source int

const (
	SourceHistory Source = iota
	SourceHostEvent
	SourceTitle
	SourcePoll
)

func (s Source) String() string {
	switch s {
	case SourceHistory:
		return "history"
	case SourceHostEvent:
		return "host-event"
	case SourceTitle:
		return "title"
	case SourcePoll:
		return "poll"
	default:
		return "unknown"
	}
}

// Event is one logical navigation. SequenceID is monotone for the lifetime
// of the watcher and tags every asynchronous request issued for the page.
type Event struct {
	SequenceID int
	Location   string
	Previous   string
	PageKind   types.PageKind
}

// Watcher tracks the last known location and debounces emission so redundant
// detectors firing for the same transition collapse into a single event.
// It is driven from the UI event loop; Signal records observations and Flush
// emits once the debounce window has passed.
type Watcher struct {
	window       time.Duration
	last         string
	lastKind     types.PageKind
	seq          int
	pending      *Event
	pendingSince time.Time
	signalCounts map[Source]int
}

func New(window time.Duration) *Watcher {
	if window <= 0 {
		window = 60 * time.Millisecond
	}
	return &Watcher{
		window:       window,
		signalCounts: map[Source]int{},
	}
}

// Signal records one raw observation. Returns true when the observation
// opened (or retargeted) a pending transition; an unchanged location is
// always a no-op.
func (w *Watcher) Signal(source Source, location string, kind types.PageKind, now time.Time) bool {
	if w == nil {
		return false
	}
	w.signalCounts[source]++
	location = strings.TrimSpace(location)
	if location == "" || location == w.last {
		return false
	}
	previous := w.last
	w.last = location
	w.lastKind = kind
	if w.pending != nil {
		// A second real change inside the window collapses into the pending
		// event; the original old location is preserved.
		previous = w.pending.Previous
	} else {
		w.seq++
	}
	w.pending = &Event{
		SequenceID: w.seq,
		Location:   location,
		Previous:   previous,
		PageKind:   kind,
	}
	w.pendingSince = now
	return true
}

// Flush emits the pending event once the debounce window has elapsed since
// the last signal for it.
func (w *Watcher) Flush(now time.Time) (Event, bool) {
	if w == nil || w.pending == nil {
		return Event{}, false
	}
	if now.Sub(w.pendingSince) < w.window {
		return Event{}, false
	}
	evt := *w.pending
	w.pending = nil
	return evt, true
}

// Current returns the last known location identifier.
func (w *Watcher) Current() string {
	if w == nil {
		return ""
	}
	return w.last
}

func (w *Watcher) CurrentPageKind() types.PageKind {
	if w == nil {
		return types.PageKindUnknown
	}
	return w.lastKind
}

// SequenceID returns the sequence of the most recent transition, emitted or
// still pending.
func (w *Watcher) SequenceID() int {
	if w == nil {
		return 0
	}
	return w.seq
}

// SignalCount reports how many raw observations a source has delivered.
func (w *Watcher) SignalCount(source Source) int {
	if w == nil {
		return 0
	}
	return w.signalCounts[source]
}
