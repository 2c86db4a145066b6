package session

import (
	"testing"

	"overlay/internal/navwatch"
)

func TestInitialStateIsNormal(t *testing.T) {
	s := NewStore()
	state := s.Snapshot()
	if state.Mode() != ModeNormal {
		t.Fatalf("expected normal mode, got %s", state.Mode())
	}
	if state.SelectionIndex != 0 || state.Drawer != DrawerNone {
		t.Fatalf("unexpected initial state: %+v", state)
	}
}

func TestOpenPaletteEntersCommandMode(t *testing.T) {
	s := NewStore()
	if !s.OpenPalette(PaletteCommands) {
		t.Fatalf("expected palette to open from normal mode")
	}
	state := s.Snapshot()
	if state.Mode() != ModeCommand {
		t.Fatalf("expected command mode, got %s", state.Mode())
	}
	if state.PaletteQuery != "" || state.SelectionIndex != 0 {
		t.Fatalf("expected palette to open fresh: %+v", state)
	}
}

func TestOpenPaletteFromFilterMode(t *testing.T) {
	s := NewStore()
	s.ToggleFilter()
	if !s.OpenPalette(PaletteCommands) {
		t.Fatalf("expected palette to open from filter mode")
	}
	if s.Snapshot().Mode() != ModeCommand {
		t.Fatalf("expected command mode")
	}
}

func TestOpenPaletteRejectedWhileSearching(t *testing.T) {
	s := NewStore()
	s.OpenSearch()
	if s.OpenPalette(PaletteCommands) {
		t.Fatalf("expected palette rejected in search mode")
	}
}

func TestClosePaletteClearsQuery(t *testing.T) {
	s := NewStore()
	s.OpenPalette(PaletteCommands)
	s.SetPaletteQuery("watch later")
	if !s.ClosePalette() {
		t.Fatalf("expected palette to close")
	}
	state := s.Snapshot()
	if state.Mode() != ModeNormal || state.PaletteQuery != "" {
		t.Fatalf("expected normal mode with cleared query: %+v", state)
	}
}

func TestToggleFilterRoundTrip(t *testing.T) {
	s := NewStore()
	if !s.ToggleFilter() || s.Snapshot().Mode() != ModeFilter {
		t.Fatalf("expected filter mode")
	}
	s.SetFilterQuery("podcast")
	if !s.ToggleFilter() {
		t.Fatalf("expected filter toggle back")
	}
	state := s.Snapshot()
	if state.Mode() != ModeNormal || state.FilterQuery != "" {
		t.Fatalf("expected filter cleared: %+v", state)
	}
}

func TestModeIsDerivedWithExactlyOneActive(t *testing.T) {
	s := NewStore()
	s.ToggleFilter()
	s.OpenPalette(PaletteCommands)
	// Palette dominates filter while both underlying flags could be set.
	if s.Snapshot().Mode() != ModeCommand {
		t.Fatalf("expected command mode to dominate, got %s", s.Snapshot().Mode())
	}
	s.ClosePalette()
	if s.Snapshot().Mode() != ModeFilter {
		t.Fatalf("expected filter mode after palette close, got %s", s.Snapshot().Mode())
	}
}

func TestNavigationCollapsesEverything(t *testing.T) {
	s := NewStore()
	s.OpenPalette(PaletteCommands)
	s.SetPaletteQuery("que")
	s.OpenDrawer(DrawerTranscript)
	s.SetSelection(5, 10)

	s.OnNavigationEvent(navwatch.Event{SequenceID: 7, Location: "/watch?v=x"})

	state := s.Snapshot()
	if state.Mode() != ModeNormal {
		t.Fatalf("expected normal mode after navigation, got %s", state.Mode())
	}
	if state.SelectionIndex != 0 {
		t.Fatalf("expected selection reset, got %d", state.SelectionIndex)
	}
	if state.Drawer != DrawerNone {
		t.Fatalf("expected drawer closed")
	}
	if state.LastNavigationKey != 7 {
		t.Fatalf("expected navigation key recorded, got %d", state.LastNavigationKey)
	}
}

func TestDrawerAtMostOne(t *testing.T) {
	s := NewStore()
	s.OpenDrawer(DrawerTranscript)
	s.OpenDrawer(DrawerChapters)
	if s.Snapshot().Drawer != DrawerChapters {
		t.Fatalf("expected chapters drawer to replace transcript")
	}
	if !s.CloseDrawer() || s.Snapshot().Drawer != DrawerNone {
		t.Fatalf("expected drawer closed")
	}
}

func TestClampSelectionOnShrinkingList(t *testing.T) {
	s := NewStore()
	s.SetSelection(9, 10)
	s.ClampSelection(4)
	if got := s.Snapshot().SelectionIndex; got != 3 {
		t.Fatalf("expected selection clamped to 3, got %d", got)
	}
	s.ClampSelection(0)
	if got := s.Snapshot().SelectionIndex; got != 0 {
		t.Fatalf("expected selection 0 on empty list, got %d", got)
	}
}

func TestSubscribeSeesTransitions(t *testing.T) {
	s := NewStore()
	var observed []Mode
	s.Subscribe(func(state State) {
		observed = append(observed, state.Mode())
	})
	s.OpenPalette(PaletteCommands)
	s.ClosePalette()
	if len(observed) != 2 || observed[0] != ModeCommand || observed[1] != ModeNormal {
		t.Fatalf("unexpected observations: %v", observed)
	}
}

func TestMoveReportsBoundary(t *testing.T) {
	s := NewStore()
	s.SetSelection(9, 10)
	if boundary := s.Move(DirDown, 10, 10); boundary != BoundaryBottom {
		t.Fatalf("expected bottom boundary, got %v", boundary)
	}
	if s.Snapshot().SelectionIndex != 9 {
		t.Fatalf("expected index pinned at 9")
	}
}
