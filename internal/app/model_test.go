package app

import (
	"context"
	"errors"
	"testing"

	"overlay/internal/bridge"
	"overlay/internal/config"
	"overlay/internal/navwatch"
	"overlay/internal/types"
)

type stubBridge struct {
	mutationErr  error
	mutations    []types.MutationKind
	commands     []string
	detailLines  []string
	detailOK     bool
	detailErr    error
	locationResp *bridge.LocationResponse
}

func (s *stubBridge) Location(ctx context.Context) (*bridge.LocationResponse, error) {
	if s.locationResp == nil {
		return nil, errors.New("no location")
	}
	return s.locationResp, nil
}

func (s *stubBridge) FetchDetail(ctx context.Context, kind types.DetailKind, itemID string) ([]string, bool, error) {
	return s.detailLines, s.detailOK, s.detailErr
}

func (s *stubBridge) PerformMutation(ctx context.Context, kind types.MutationKind, itemID string, extra map[string]string) error {
	s.mutations = append(s.mutations, kind)
	return s.mutationErr
}

func (s *stubBridge) PerformCommand(ctx context.Context, name string, args map[string]string) error {
	s.commands = append(s.commands, name)
	return nil
}

func newTestModel(t *testing.T) (*Model, *stubBridge) {
	t.Helper()
	m := NewModel(Options{Settings: config.DefaultSettings()})
	stub := &stubBridge{}
	m.client = stub
	m.ready = true
	m.width = 100
	m.height = 30
	return m, stub
}

func feedPayload(ids ...string) map[string]any {
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{"id": id, "title": "Video " + id, "url": "/watch?v=" + id})
	}
	return map[string]any{"items": items}
}

func navigate(m *Model, seq int, location string) {
	m.handleNavigationEvent(navwatch.Event{
		SequenceID: seq,
		Location:   location,
		PageKind:   types.PageKindBrowse,
	})
}

func TestPushDeliveryForCurrentLocationApplies(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")

	m.applyPushDelivery(types.PushDelivery{
		Kind:     types.PushAPIResponse,
		Location: "/feed",
		Payload:  feedPayload("v1", "v2"),
	})
	if m.reconciler.ItemCount() != 2 {
		t.Fatalf("expected 2 items, got %d", m.reconciler.ItemCount())
	}
}

func TestPushDeliveryForLeftPageDropped(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	navigate(m, 2, "/results?search_query=go")

	m.applyPushDelivery(types.PushDelivery{
		Kind:     types.PushAPIResponse,
		Location: "/feed",
		Payload:  feedPayload("v1"),
	})
	if m.reconciler.ItemCount() != 0 {
		t.Fatalf("expected stale delivery dropped, got %d items", m.reconciler.ItemCount())
	}
	if m.reconciler.Stats().StaleDeliveries != 1 {
		t.Fatalf("expected stale delivery counted, got %+v", m.reconciler.Stats())
	}
}

func TestNavigationEventResetsSessionAndLedger(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1")})

	m.session.OpenSearch()
	m.session.SetSearchQuery("go")
	if _, cmd := m.beginMutation(CmdItemRemove); cmd == nil {
		t.Fatalf("expected mutation command")
	}
	if m.ledger.PendingCount() != 1 {
		t.Fatalf("expected pending mutation")
	}

	navigate(m, 2, "/watch?v=v1")
	snap := m.session.Snapshot()
	if snap.SearchActive || snap.SearchQuery != "" || snap.SelectionIndex != 0 {
		t.Fatalf("expected session reset, got %+v", snap)
	}
	if snap.LastNavigationKey != 2 {
		t.Fatalf("expected navigation key 2, got %d", snap.LastNavigationKey)
	}
	if m.ledger.PendingCount() != 0 {
		t.Fatalf("expected pending mutations invalidated")
	}
}

func TestMutationFailureRollsBack(t *testing.T) {
	m, stub := newTestModel(t)
	stub.mutationErr = &bridge.MutationError{Kind: types.MutationRemove, ItemID: "v1", Reason: "gone"}
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1", "v2", "v3")})

	m.session.SetSelection(1, 3)
	_, cmd := m.beginMutation(CmdItemRemove)
	if cmd == nil {
		t.Fatalf("expected mutation command")
	}
	if m.reconciler.ItemCount() != 2 {
		t.Fatalf("expected optimistic removal, got %d items", m.reconciler.ItemCount())
	}

	msg, ok := cmd().(mutationResultMsg)
	if !ok {
		t.Fatalf("expected mutationResultMsg")
	}
	if msg.err == nil {
		t.Fatalf("expected failed mutation")
	}
	m.handleMutationResult(msg)

	if m.reconciler.ItemCount() != 3 {
		t.Fatalf("expected rollback, got %d items", m.reconciler.ItemCount())
	}
	item, ok := m.reconciler.ItemAt(1)
	if !ok || item.ID != "v2" {
		t.Fatalf("expected v2 restored at original position, got %+v", item)
	}
}

func TestMutationSuccessArmsUndo(t *testing.T) {
	m, stub := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1", "v2")})

	_, cmd := m.beginMutation(CmdItemDismiss)
	msg := cmd().(mutationResultMsg)
	m.handleMutationResult(msg)

	if _, ok := m.ledger.Undoable(); !ok {
		t.Fatalf("expected undo armed after confirmation")
	}

	_, undoCmd := m.beginUndo()
	if undoCmd == nil {
		t.Fatalf("expected undo command")
	}
	undoMsg := undoCmd().(undoResultMsg)
	m.handleUndoResult(undoMsg)
	if len(stub.mutations) != 2 || stub.mutations[1] != types.MutationUndismiss {
		t.Fatalf("expected inverse mutation issued, got %v", stub.mutations)
	}
	if m.reconciler.ItemCount() != 2 {
		t.Fatalf("expected item restored by undo, got %d", m.reconciler.ItemCount())
	}
}

func TestUndoResultAfterNavigationDropped(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1", "v2")})

	_, cmd := m.beginMutation(CmdItemDismiss)
	m.handleMutationResult(cmd().(mutationResultMsg))
	_, undoCmd := m.beginUndo()
	if undoCmd == nil {
		t.Fatalf("expected undo command")
	}

	// The page changes while the inverse call is in flight.
	navigate(m, 2, "/results?search_query=go")
	m.applyPushDelivery(types.PushDelivery{Location: "/results?search_query=go", Payload: feedPayload("r1")})

	m.handleUndoResult(undoCmd().(undoResultMsg))
	if _, _, ok := m.reconciler.ItemByID("v1"); ok {
		t.Fatalf("expected stale undo result dropped, v1 reinserted into new page")
	}
	if m.reconciler.ItemCount() != 1 {
		t.Fatalf("expected new page untouched, got %d items", m.reconciler.ItemCount())
	}
}

func TestConcurrentMutationOnSameItemRejected(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1")})

	if _, cmd := m.beginMutation(CmdItemSave); cmd == nil {
		t.Fatalf("expected first mutation accepted")
	}
	if _, cmd := m.beginMutation(CmdItemRemove); cmd != nil {
		t.Fatalf("expected conflicting mutation rejected")
	}
	if m.ledger.PendingCount() != 1 {
		t.Fatalf("expected single pending record")
	}
}

func TestDetailResultGuardedByItemIdentifier(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1", "v2")})

	openTranscriptFor(t, m, "v1")
	// The user moved on to v2 before v1's result arrived.
	m.reconciler.BeginDetail(types.DetailTranscript, "v2")

	m.handleDetailResult(detailResultMsg{
		kind:      types.DetailTranscript,
		itemID:    "v1",
		lines:     []string{"stale"},
		available: true,
	})
	detail := m.reconciler.Detail(types.DetailTranscript)
	if detail.Status != types.RequestLoading || detail.ItemID != "v2" {
		t.Fatalf("expected stale detail dropped, got %+v", detail)
	}

	m.handleDetailResult(detailResultMsg{
		kind:      types.DetailTranscript,
		itemID:    "v2",
		lines:     []string{"fresh"},
		available: true,
	})
	detail = m.reconciler.Detail(types.DetailTranscript)
	if detail.Status != types.RequestLoaded || len(detail.Lines) != 1 {
		t.Fatalf("expected fresh detail applied, got %+v", detail)
	}
}

func openTranscriptFor(t *testing.T, m *Model, id string) {
	t.Helper()
	_, index, ok := m.reconciler.ItemByID(id)
	if !ok {
		t.Fatalf("item %s not present", id)
	}
	m.session.SetSelection(index, m.reconciler.ItemCount())
	if _, cmd := m.runAction(CmdTranscript); cmd == nil {
		t.Fatalf("expected detail fetch command")
	}
}

func TestFilterNarrowsVisibleItems(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: map[string]any{
		"items": []any{
			map[string]any{"id": "v1", "title": "Go concurrency talk"},
			map[string]any{"id": "v2", "title": "Cooking pasta"},
			map[string]any{"id": "v3", "title": "Go modules deep dive"},
		},
	}})

	m.session.ToggleFilter()
	m.session.SetFilterQuery("go ")
	items := m.visibleItems()
	if len(items) != 2 {
		t.Fatalf("expected 2 filtered items, got %d: %v", len(items), items)
	}

	m.session.ToggleFilter()
	if len(m.visibleItems()) != 3 {
		t.Fatalf("expected full list after filter exit")
	}
}

func TestSearchJumpWrapsAround(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: map[string]any{
		"items": []any{
			map[string]any{"id": "v1", "title": "Go talk"},
			map[string]any{"id": "v2", "title": "Rust talk"},
			map[string]any{"id": "v3", "title": "Go workshop"},
		},
	}})

	m.session.OpenSearch()
	m.session.SetSearchQuery("go")
	m.session.CloseSearch()

	m.session.SetSelection(0, 3)
	m.searchJump(1)
	if got := m.session.Snapshot().SelectionIndex; got != 2 {
		t.Fatalf("expected jump to index 2, got %d", got)
	}
	m.searchJump(1)
	if got := m.session.Snapshot().SelectionIndex; got != 0 {
		t.Fatalf("expected wrap to index 0, got %d", got)
	}
	m.searchJump(-1)
	if got := m.session.Snapshot().SelectionIndex; got != 2 {
		t.Fatalf("expected backward wrap to index 2, got %d", got)
	}
}

func TestScrapeFallbackSkippedWhenItemsPresent(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, 1, "/feed")
	m.applyPushDelivery(types.PushDelivery{Location: "/feed", Payload: feedPayload("v1")})

	if _, cmd := m.handleScrapeFallback(1); cmd != nil {
		t.Fatalf("expected no fallback when items already delivered")
	}
	if _, cmd := m.handleScrapeFallback(99); cmd != nil {
		t.Fatalf("expected no fallback for stale sequence")
	}
}
