package app

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/session"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	mode := m.session.Snapshot().Mode()
	typing := mode != session.ModeNormal

	outcome := m.dispatcher.Dispatch(key, typing, mode, time.Now())
	if outcome.Action != "" {
		return m.runAction(outcome.Action)
	}
	if outcome.Pending {
		return m, nil
	}
	if typing {
		m.editQuery(key, mode)
	}
	return m, nil
}

// editQuery feeds unbound keys into the active text query. Only printable
// single-rune keys, space and backspace edit; everything else is ignored.
func (m *Model) editQuery(key string, mode session.Mode) {
	query := m.activeQuery(mode)
	switch {
	case key == "backspace":
		runes := []rune(query)
		if len(runes) == 0 {
			return
		}
		query = string(runes[:len(runes)-1])
	case key == "space":
		query += " "
	case len([]rune(key)) == 1:
		query += key
	default:
		return
	}
	m.setActiveQuery(mode, query)
}

func (m *Model) activeQuery(mode session.Mode) string {
	snap := m.session.Snapshot()
	switch mode {
	case session.ModeCommand:
		return snap.PaletteQuery
	case session.ModeFilter:
		return snap.FilterQuery
	case session.ModeSearch:
		return snap.SearchQuery
	default:
		return ""
	}
}

func (m *Model) setActiveQuery(mode session.Mode, query string) {
	switch mode {
	case session.ModeCommand:
		m.session.SetPaletteQuery(query)
	case session.ModeFilter:
		m.session.SetFilterQuery(query)
		m.afterItemsChanged()
	case session.ModeSearch:
		m.session.SetSearchQuery(query)
	}
}

func (m *Model) runAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case CmdListUp:
		return m.moveSelection(session.DirUp)
	case CmdListDown:
		return m.moveSelection(session.DirDown)
	case CmdListTop:
		return m.moveSelection(session.DirTop)
	case CmdListBottom:
		return m.moveSelection(session.DirBottom)
	case CmdListHalfUp:
		return m.moveSelection(session.DirHalfPageUp)
	case CmdListHalfDown:
		return m.moveSelection(session.DirHalfPageDown)

	case CmdPalette:
		m.session.OpenPalette(session.PaletteCommands)
		return m, nil
	case CmdSeek:
		m.session.OpenPalette(session.PaletteSeek)
		return m, nil
	case CmdFilter:
		m.session.ToggleFilter()
		m.afterItemsChanged()
		return m, nil
	case CmdSearch:
		m.session.OpenSearch()
		return m, nil
	case CmdSearchNext:
		m.searchJump(1)
		return m, nil
	case CmdSearchPrev:
		m.searchJump(-1)
		return m, nil

	case CmdAccept:
		return m.accept()
	case CmdClose:
		m.closeTopmost()
		return m, nil

	case CmdTranscript:
		return m.openDrawer(session.DrawerTranscript)
	case CmdChapters:
		return m.openDrawer(session.DrawerChapters)

	case CmdPlayerToggle:
		return m, m.performCommandCmd("playPause", nil)

	case CmdItemRemove, CmdItemDismiss, CmdItemSave:
		return m.beginMutation(action)
	case CmdItemUndo:
		return m.beginUndo()
	case CmdCopyLink:
		m.copySelectedLink()
		return m, nil

	case CmdRefresh:
		return m, m.refreshSnapshotCmd(m.reconciler.ActiveSequence())
	case CmdToggleHints:
		if m.prefs != nil {
			m.prefs.ShowHints = !m.prefs.ShowHints
		}
		return m, m.savePrefsCmd()
	case CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	m.log.Debug("unhandled action: " + action)
	return m, nil
}

func (m *Model) moveSelection(dir session.Direction) (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()
	if snap.Drawer != session.DrawerNone {
		m.scrollDrawer(dir)
		return m, nil
	}
	count := len(m.visibleItems())
	if snap.PaletteOpen {
		count = len(paletteMatches(snap.PaletteQuery))
	}
	m.session.Move(dir, count, m.pageSize())
	return m, nil
}

// closeTopmost dismisses the most prominent transient surface, one per
// press: palette, then search, then filter, then the drawer.
func (m *Model) closeTopmost() {
	snap := m.session.Snapshot()
	switch {
	case snap.PaletteOpen:
		m.session.ClosePalette()
	case snap.SearchActive:
		m.session.CloseSearch()
	case snap.FilterActive:
		m.session.ToggleFilter()
		m.afterItemsChanged()
	case snap.Drawer != session.DrawerNone:
		m.closeDrawer()
	}
}

func (m *Model) accept() (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()
	switch snap.Mode() {
	case session.ModeCommand:
		return m.acceptPalette()
	case session.ModeSearch:
		m.session.CloseSearch()
		m.searchJump(1)
		return m, nil
	case session.ModeFilter:
		// Leaving filter mode keeps nothing; the query only narrows the
		// list while active.
		m.session.ToggleFilter()
		m.afterItemsChanged()
		return m, nil
	default:
		item, ok := m.selectedItem()
		if !ok || strings.TrimSpace(item.URL) == "" {
			return m, nil
		}
		return m, m.performCommandCmd("open", map[string]string{"url": item.URL})
	}
}

// searchJump moves the selection to the next item matching the stored search
// query, wrapping around. dir is +1 for forward, -1 for backward.
func (m *Model) searchJump(dir int) {
	query := strings.ToLower(strings.TrimSpace(m.session.Snapshot().SearchQuery))
	if query == "" {
		return
	}
	items := m.visibleItems()
	if len(items) == 0 {
		return
	}
	start := m.session.Snapshot().SelectionIndex
	for step := 1; step <= len(items); step++ {
		index := ((start+dir*step)%len(items) + len(items)) % len(items)
		haystack := strings.ToLower(items[index].Title + " " + items[index].Author)
		if strings.Contains(haystack, query) {
			m.session.SetSelection(index, len(items))
			return
		}
	}
	m.showInfoToast("no match for " + query)
}
