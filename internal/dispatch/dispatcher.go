// Package dispatch routes physical key tokens to actions: a typing-context
// passthrough first, then the mode's single-key table, then the multi-key
// sequence matcher.
package dispatch

import (
	"strings"
	"time"

	"overlay/internal/keyseq"
	"overlay/internal/session"
)

// Outcome describes what a key produced. Suppress mirrors "prevent default
// handling": set for matched and pending keys, clear otherwise so the host
// environment keeps its own behavior.
type Outcome struct {
	Action   string
	Pending  bool
	Suppress bool
}

// Dispatcher holds the per-mode single-key tables, the typing allow-list and
// the sequence matcher. Single-key tables win over sequences so immediate
// actions (space for play/pause) never wait on the idle timeout.
type Dispatcher struct {
	matcher     *keyseq.Matcher
	tables      map[session.Mode]map[string]string
	typingAllow map[string]string
}

func New(matcher *keyseq.Matcher) *Dispatcher {
	if matcher == nil {
		matcher = keyseq.New(0)
	}
	return &Dispatcher{
		matcher:     matcher,
		tables:      map[session.Mode]map[string]string{},
		typingAllow: map[string]string{},
	}
}

// BindKey registers an immediate single-key action for a mode.
func (d *Dispatcher) BindKey(mode session.Mode, key, action string) {
	if d == nil {
		return
	}
	key = strings.TrimSpace(key)
	action = strings.TrimSpace(action)
	if key == "" || action == "" {
		return
	}
	table := d.tables[mode]
	if table == nil {
		table = map[string]string{}
		d.tables[mode] = table
	}
	table[key] = action
}

// BindSequence registers a multi-key sequence, normal mode only by nature of
// the matcher being consulted after the typing check.
func (d *Dispatcher) BindSequence(sequence, action string) {
	if d == nil {
		return
	}
	d.matcher.Bind(sequence, action)
}

// AllowWhileTyping marks a key interceptable even when an editable field has
// focus, so the user can escape out of an input. Everything else passes
// through unmodified while typing.
func (d *Dispatcher) AllowWhileTyping(key, action string) {
	if d == nil {
		return
	}
	key = strings.TrimSpace(key)
	action = strings.TrimSpace(action)
	if key == "" || action == "" {
		return
	}
	d.typingAllow[key] = action
}

// Dispatch resolves one physical key. typing reports whether the event
// target is a text-input context.
func (d *Dispatcher) Dispatch(key string, typing bool, mode session.Mode, now time.Time) Outcome {
	if d == nil {
		return Outcome{}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Outcome{}
	}
	if typing {
		if action, ok := d.typingAllow[key]; ok {
			d.matcher.Reset()
			return Outcome{Action: action, Suppress: true}
		}
		return Outcome{}
	}
	if table := d.tables[mode]; table != nil {
		if action, ok := table[key]; ok {
			d.matcher.Reset()
			return Outcome{Action: action, Suppress: true}
		}
	}
	result := d.matcher.Feed(key, now)
	switch result.Kind {
	case keyseq.Matched:
		return Outcome{Action: result.Action, Suppress: true}
	case keyseq.Pending:
		return Outcome{Pending: true, Suppress: true}
	default:
		return Outcome{}
	}
}

// ExpireSequence drops a stale pending sequence buffer. Driven by the UI
// tick; a reset here is the normal sequence timeout, not an error.
func (d *Dispatcher) ExpireSequence(now time.Time) bool {
	if d == nil {
		return false
	}
	return d.matcher.ExpireIfIdle(now)
}

// SequencePending reports whether a partial sequence is buffered.
func (d *Dispatcher) SequencePending() bool {
	if d == nil {
		return false
	}
	return d.matcher.PendingLength() > 0
}
