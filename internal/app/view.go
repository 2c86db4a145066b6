package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"overlay/internal/session"
	"overlay/internal/types"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	return v
}

// renderView composes the full frame as a string.
func (m *Model) renderView() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting overlay..."
	}
	width := max(m.width, minContentWidth)
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(m.headerLine(width, snap))
	b.WriteString("\n")

	if snap.Drawer != session.DrawerNone {
		b.WriteString(m.drawerView(width, snap))
	} else {
		b.WriteString(m.listView(width, snap))
	}

	if query := m.queryLine(width, snap); query != "" {
		b.WriteString(query)
		b.WriteString("\n")
	}
	b.WriteString(m.footerLine(width))
	if toast := m.toastLine(width); toast != "" {
		b.WriteString("\n")
		b.WriteString(toast)
	}
	return b.String()
}

func (m *Model) headerLine(width int, snap session.State) string {
	location := m.watcher.Current()
	if location == "" {
		location = "(waiting for page)"
	}
	kind := m.watcher.CurrentPageKind()
	label := " overlay "
	if kind != types.PageKindUnknown {
		label = " overlay · " + string(kind) + " "
	}
	left := headerStyle.Render(label)
	right := modeStyle.Render(" " + strings.ToUpper(snap.Mode().String()) + " ")
	middleWidth := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	middle := metaStyle.Render(" " + truncateToWidth(location, max(1, middleWidth)))
	return left + padToWidth(middle, max(0, width-lipgloss.Width(left)-lipgloss.Width(right))) + right
}

func (m *Model) contentHeight() int {
	// Header, query, footer and toast each take a line.
	height := m.height - 4
	if height < 3 {
		height = 3
	}
	return height
}

func (m *Model) listView(width int, snap session.State) string {
	if snap.PaletteOpen {
		return m.paletteView(width, snap)
	}
	items := m.visibleItems()
	height := m.contentHeight()
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString(metaStyle.Render("  no items yet"))
		b.WriteString(strings.Repeat("\n", height))
		return b.String()
	}

	offset := listOffset(snap.SelectionIndex, len(items), height)
	for row := 0; row < height; row++ {
		index := offset + row
		if index >= len(items) {
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.itemLine(items[index], index == snap.SelectionIndex, width))
		b.WriteString("\n")
	}
	return b.String()
}

// listOffset scrolls the window so the selection stays visible.
func listOffset(selection, count, height int) int {
	if count <= height {
		return 0
	}
	offset := selection - height/2
	if offset < 0 {
		offset = 0
	}
	if offset > count-height {
		offset = count - height
	}
	return offset
}

func (m *Model) itemLine(item types.ContentItem, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "▌ "
	}
	title := item.Title
	if title == "" {
		title = item.ID
	}
	meta := make([]string, 0, 3)
	if item.Author != "" {
		meta = append(meta, item.Author)
	}
	if item.Duration != "" {
		meta = append(meta, item.Duration)
	}
	if item.ViewCount != "" {
		meta = append(meta, item.ViewCount)
	}
	line := title
	if len(meta) > 0 {
		line += "  " + metaStyle.Render(strings.Join(meta, " · "))
	}
	style := itemStyle
	switch {
	case m.ledger.HasPending(item.ID):
		style = pendingItemStyle
	case selected:
		style = selectedItemStyle
	}
	return cursor + style.Render(truncateToWidth(line, max(1, width-3)))
}

func (m *Model) paletteView(width int, snap session.State) string {
	height := m.contentHeight()
	var b strings.Builder
	if snap.PaletteKind == session.PaletteSeek {
		b.WriteString(metaStyle.Render("  seek to a timestamp (seconds, mm:ss or hh:mm:ss)"))
		b.WriteString(strings.Repeat("\n", height))
		return b.String()
	}
	matches := paletteMatches(snap.PaletteQuery)
	for row := 0; row < height; row++ {
		if row >= len(matches) {
			b.WriteString("\n")
			continue
		}
		cursor := "  "
		style := itemStyle
		if row == snap.SelectionIndex {
			cursor = "▌ "
			style = selectedItemStyle
		}
		entry := matches[row]
		line := entry.label + "  " + metaStyle.Render(entry.command)
		b.WriteString(cursor + style.Render(truncateToWidth(line, max(1, width-3))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) drawerView(width int, snap session.State) string {
	title := string(snap.Drawer)
	frame := drawerFrameStyle.Width(max(minContentWidth, width-2))
	body := headerStyle.Render(" "+title+" ") + "\n" + m.drawer.View()
	return frame.Render(body) + "\n"
}

func (m *Model) queryLine(width int, snap session.State) string {
	var prompt, query string
	switch snap.Mode() {
	case session.ModeCommand:
		if snap.PaletteKind == session.PaletteSeek {
			prompt = "seek: "
		} else {
			prompt = ": "
		}
		query = snap.PaletteQuery
	case session.ModeFilter:
		prompt = "filter: "
		query = snap.FilterQuery
	case session.ModeSearch:
		prompt = "/"
		query = snap.SearchQuery
	default:
		return ""
	}
	return queryStyle.Render(truncateToWidth(prompt+query+"█", max(1, width)))
}

func (m *Model) footerLine(width int) string {
	if m.prefs != nil && m.prefs.ShowHints {
		return hintStyle.Render(truncateToWidth(m.hintsLine(), max(1, width)))
	}
	return statusStyle.Render(truncateToWidth(m.status, max(1, width)))
}
