package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/session"
	"overlay/internal/types"
)

func detailKindFor(drawer session.Drawer) (types.DetailKind, bool) {
	switch drawer {
	case session.DrawerTranscript:
		return types.DetailTranscript, true
	case session.DrawerChapters:
		return types.DetailChapters, true
	default:
		return "", false
	}
}

// openDrawer opens the auxiliary modal for the selected item and kicks off
// the detail fetch. Opening it again for another item supersedes the
// previous request; the reconciler applies only the newest one's result.
func (m *Model) openDrawer(drawer session.Drawer) (tea.Model, tea.Cmd) {
	kind, ok := detailKindFor(drawer)
	if !ok {
		return m, nil
	}
	item, found := m.selectedItem()
	if !found {
		m.showWarningToast("no item selected")
		return m, nil
	}
	m.session.OpenDrawer(drawer)
	m.reconciler.BeginDetail(kind, item.ID)
	m.resizeDrawer()
	m.refreshDrawerContent()
	return m, m.fetchDetailCmd(kind, item.ID)
}

func (m *Model) closeDrawer() {
	snap := m.session.Snapshot()
	if kind, ok := detailKindFor(snap.Drawer); ok {
		m.reconciler.ClearDetail(kind)
	}
	m.session.CloseDrawer()
}

func (m *Model) handleDetailResult(msg detailResultMsg) {
	if msg.err != nil {
		// A transport failure for the still-current request reads as
		// unavailable; a stale one is dropped by the identifier guard.
		m.reconciler.ResolveDetail(msg.kind, msg.itemID, nil, false)
		m.showWarningToast("loading " + string(msg.kind) + " failed: " + msg.err.Error())
	} else {
		m.reconciler.ResolveDetail(msg.kind, msg.itemID, msg.lines, msg.available)
	}
	m.refreshDrawerContent()
}

func (m *Model) scrollDrawer(dir session.Direction) {
	switch dir {
	case session.DirUp:
		m.drawer.ScrollUp(1)
	case session.DirDown:
		m.drawer.ScrollDown(1)
	case session.DirTop:
		m.drawer.GotoTop()
	case session.DirBottom:
		m.drawer.GotoBottom()
	case session.DirHalfPageUp:
		m.drawer.HalfPageUp()
	case session.DirHalfPageDown:
		m.drawer.HalfPageDown()
	}
}

func (m *Model) resizeDrawer() {
	width := m.width - 4
	if width < minContentWidth {
		width = minContentWidth
	}
	height := m.height - 6
	if height < minContentHeight {
		height = minContentHeight
	}
	m.drawer.SetWidth(width)
	m.drawer.SetHeight(height)
}

// refreshDrawerContent rerenders the drawer body from the current detail
// state for the open drawer.
func (m *Model) refreshDrawerContent() {
	snap := m.session.Snapshot()
	kind, ok := detailKindFor(snap.Drawer)
	if !ok {
		return
	}
	detail := m.reconciler.Detail(kind)
	switch detail.Status {
	case types.RequestLoading:
		m.drawer.SetContent("Loading " + string(kind) + "...")
	case types.RequestUnavailable:
		m.drawer.SetContent("No " + string(kind) + " available for this item.")
	case types.RequestLoaded:
		body := strings.Join(detail.Lines, "\n")
		m.drawer.SetContent(renderMarkdown(body, m.drawer.Width()))
		m.drawer.GotoTop()
	default:
		m.drawer.SetContent("")
	}
}
