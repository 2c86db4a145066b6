// Package keyseq matches incoming key tokens against registered multi-key
// sequences, vim style. Matching is prefix-based: a token stream either fires
// an action, leaves the buffer pending, or resets.
package keyseq

import (
	"strings"
	"time"
	"unicode"
)

const DefaultIdleTimeout = 900 * time.Millisecond

type ResultKind int

const (
	NoMatch ResultKind = iota
	Pending
	Matched
)

type Result struct {
	Kind   ResultKind
	Action string
}

// Matcher accumulates key tokens and resolves them against bound sequences.
// An exact match fires immediately even when longer sequences share the
// prefix; the buffer resets after every firing and after the idle timeout.
type Matcher struct {
	bindings map[string]string
	buffer   []string
	lastFed  time.Time
	idle     time.Duration
}

func New(idle time.Duration) *Matcher {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Matcher{
		bindings: map[string]string{},
		idle:     idle,
	}
}

// Bind registers a sequence such as "j", "g g" or "shift+g" to an action
// identifier. Later binds for the same sequence replace earlier ones.
func (m *Matcher) Bind(sequence, action string) {
	if m == nil {
		return
	}
	normalized := normalizeSequence(sequence)
	action = strings.TrimSpace(action)
	if normalized == "" || action == "" {
		return
	}
	m.bindings[normalized] = action
}

func (m *Matcher) SetBindings(bindings map[string]string) {
	if m == nil {
		return
	}
	m.bindings = map[string]string{}
	for sequence, action := range bindings {
		m.Bind(sequence, action)
	}
}

// Feed consumes one key token. The clock is passed in so idle expiry is
// deterministic under test.
func (m *Matcher) Feed(token string, now time.Time) Result {
	if m == nil {
		return Result{Kind: NoMatch}
	}
	token = normalizeToken(token)
	if token == "" {
		return Result{Kind: NoMatch}
	}
	if len(m.buffer) > 0 && !m.lastFed.IsZero() && now.Sub(m.lastFed) > m.idle {
		m.buffer = nil
	}
	m.lastFed = now

	hadBuffer := len(m.buffer) > 0
	m.buffer = append(m.buffer, token)
	if result, ok := m.resolve(); ok {
		return result
	}
	// A failed extension of an existing buffer gets one retry with the
	// incoming token as a fresh buffer, so "g x" does not eat a bound "x".
	if hadBuffer {
		m.buffer = []string{token}
		if result, ok := m.resolve(); ok {
			return result
		}
	}
	m.buffer = nil
	return Result{Kind: NoMatch}
}

func (m *Matcher) resolve() (Result, bool) {
	joined := strings.Join(m.buffer, " ")
	if action, ok := m.bindings[joined]; ok {
		m.buffer = nil
		return Result{Kind: Matched, Action: action}, true
	}
	prefix := joined + " "
	for sequence := range m.bindings {
		if strings.HasPrefix(sequence, prefix) {
			return Result{Kind: Pending}, true
		}
	}
	return Result{}, false
}

// ExpireIfIdle resets the buffer once the idle timeout has elapsed without
// input. Returns true when a pending buffer was dropped.
func (m *Matcher) ExpireIfIdle(now time.Time) bool {
	if m == nil || len(m.buffer) == 0 {
		return false
	}
	if m.lastFed.IsZero() || now.Sub(m.lastFed) <= m.idle {
		return false
	}
	m.buffer = nil
	return true
}

func (m *Matcher) PendingLength() int {
	if m == nil {
		return 0
	}
	return len(m.buffer)
}

func (m *Matcher) Reset() {
	if m == nil {
		return
	}
	m.buffer = nil
}

func normalizeSequence(sequence string) string {
	tokens := strings.Fields(sequence)
	if len(tokens) == 0 {
		return ""
	}
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		normalized := normalizeToken(token)
		if normalized == "" {
			return ""
		}
		out = append(out, normalized)
	}
	return strings.Join(out, " ")
}

// normalizeToken lowercases bare letter tokens so sequences compare
// case-insensitively; tokens carrying explicit modifiers ("shift+g",
// "ctrl+d") are preserved verbatim.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.Contains(token, "+") {
		return token
	}
	runes := []rune(token)
	if len(runes) == 1 && unicode.IsLetter(runes[0]) {
		return string(unicode.ToLower(runes[0]))
	}
	return token
}
