// Package session owns the single mutable application state. All mutation
// goes through the named transition functions; everything else reads
// snapshots. Mode is derived, never assigned.
package session

import (
	"overlay/internal/navwatch"
)

// PaletteKind selects what the command palette is listing.
type PaletteKind string

const (
	PaletteCommands PaletteKind = "commands"
	PaletteSeek     PaletteKind = "seek"
)

// Drawer identifies the auxiliary modal; at most one is open at a time.
type Drawer string

const (
	DrawerNone       Drawer = ""
	DrawerTranscript Drawer = "transcript"
	DrawerChapters   Drawer = "chapters"
)

// State is a value snapshot of the session. The zero value is the initial
// state: normal mode, selection at the top, no drawer, no queries.
type State struct {
	PaletteOpen       bool
	PaletteKind       PaletteKind
	FilterActive      bool
	SearchActive      bool
	PaletteQuery      string
	FilterQuery       string
	SearchQuery       string
	SelectionIndex    int
	Drawer            Drawer
	LastNavigationKey int
}

// Mode derives the single active mode from the snapshot fields. The palette
// dominates, then search, then filter.
func (s State) Mode() Mode {
	switch {
	case s.PaletteOpen:
		return ModeCommand
	case s.SearchActive:
		return ModeSearch
	case s.FilterActive:
		return ModeFilter
	default:
		return ModeNormal
	}
}

// Listener observes state changes. Listeners run synchronously inside the
// transition, so they must not call back into the store.
type Listener func(State)

// Store is the exclusive owner of the session state. Transition functions
// are single atomic steps under the event loop; none of them block.
type Store struct {
	state     State
	listeners []Listener
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a read-only copy of the current state.
func (s *Store) Snapshot() State {
	if s == nil {
		return State{}
	}
	return s.state
}

func (s *Store) Subscribe(listener Listener) {
	if s == nil || listener == nil {
		return
	}
	s.listeners = append(s.listeners, listener)
}

func (s *Store) notify() {
	for _, listener := range s.listeners {
		listener(s.state)
	}
}

// OpenPalette enters command mode from normal or filter mode. The palette
// query and selection reset so the palette always opens fresh.
func (s *Store) OpenPalette(kind PaletteKind) bool {
	if s == nil {
		return false
	}
	mode := s.state.Mode()
	if mode != ModeNormal && mode != ModeFilter {
		return false
	}
	s.state.PaletteOpen = true
	s.state.PaletteKind = kind
	s.state.PaletteQuery = ""
	s.state.SelectionIndex = 0
	s.notify()
	return true
}

// ClosePalette returns to normal mode and clears the palette query.
func (s *Store) ClosePalette() bool {
	if s == nil || !s.state.PaletteOpen {
		return false
	}
	s.state.PaletteOpen = false
	s.state.PaletteKind = ""
	s.state.PaletteQuery = ""
	s.notify()
	return true
}

// ToggleFilter switches between normal and filter mode.
func (s *Store) ToggleFilter() bool {
	if s == nil {
		return false
	}
	switch s.state.Mode() {
	case ModeNormal:
		s.state.FilterActive = true
	case ModeFilter:
		s.state.FilterActive = false
		s.state.FilterQuery = ""
	default:
		return false
	}
	s.notify()
	return true
}

// OpenSearch enters search mode from normal mode.
func (s *Store) OpenSearch() bool {
	if s == nil || s.state.Mode() != ModeNormal {
		return false
	}
	s.state.SearchActive = true
	s.state.SearchQuery = ""
	s.notify()
	return true
}

// CloseSearch leaves search mode, keeping the query for n/N style reuse.
func (s *Store) CloseSearch() bool {
	if s == nil || !s.state.SearchActive {
		return false
	}
	s.state.SearchActive = false
	s.notify()
	return true
}

// OnNavigationEvent collapses every transient mode back to normal: the
// palette closes, filter and search clear, the drawer closes, and the
// selection returns to the top. The event's sequence becomes the staleness
// key for everything issued on the new page.
func (s *Store) OnNavigationEvent(evt navwatch.Event) {
	if s == nil {
		return
	}
	s.state.PaletteOpen = false
	s.state.PaletteKind = ""
	s.state.PaletteQuery = ""
	s.state.FilterActive = false
	s.state.FilterQuery = ""
	s.state.SearchActive = false
	s.state.SelectionIndex = 0
	s.state.Drawer = DrawerNone
	s.state.LastNavigationKey = evt.SequenceID
	s.notify()
}

func (s *Store) SetPaletteQuery(query string) {
	if s == nil || !s.state.PaletteOpen {
		return
	}
	s.state.PaletteQuery = query
	s.state.SelectionIndex = 0
	s.notify()
}

func (s *Store) SetFilterQuery(query string) {
	if s == nil || !s.state.FilterActive {
		return
	}
	s.state.FilterQuery = query
	s.state.SelectionIndex = 0
	s.notify()
}

func (s *Store) SetSearchQuery(query string) {
	if s == nil || !s.state.SearchActive {
		return
	}
	s.state.SearchQuery = query
	s.notify()
}

// OpenDrawer opens the auxiliary modal, replacing any other open drawer.
func (s *Store) OpenDrawer(drawer Drawer) {
	if s == nil || drawer == DrawerNone {
		return
	}
	s.state.Drawer = drawer
	s.notify()
}

func (s *Store) CloseDrawer() bool {
	if s == nil || s.state.Drawer == DrawerNone {
		return false
	}
	s.state.Drawer = DrawerNone
	s.notify()
	return true
}

// Move applies a list movement and returns the boundary outcome. The caller
// may use a boundary to trigger load-more or a visual cue; the mode never
// changes here.
func (s *Store) Move(dir Direction, itemCount, pageSize int) Boundary {
	if s == nil {
		return BoundaryNone
	}
	index, boundary := NavigateList(dir, s.state.SelectionIndex, itemCount, pageSize)
	if index != s.state.SelectionIndex {
		s.state.SelectionIndex = index
		s.notify()
	}
	return boundary
}

// ClampSelection keeps the selection meaningful whenever the item list
// length changes underneath it.
func (s *Store) ClampSelection(itemCount int) {
	if s == nil {
		return
	}
	clamped := clampIndex(s.state.SelectionIndex, itemCount)
	if clamped != s.state.SelectionIndex {
		s.state.SelectionIndex = clamped
		s.notify()
	}
}

// SetSelection positions the selection directly, clamped.
func (s *Store) SetSelection(index, itemCount int) {
	if s == nil {
		return
	}
	clamped := clampIndex(index, itemCount)
	if clamped != s.state.SelectionIndex {
		s.state.SelectionIndex = clamped
		s.notify()
	}
}
