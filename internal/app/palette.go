package app

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/session"
)

type paletteEntry struct {
	command string
	label   string
}

// paletteCommands lists what the command palette offers, in display order.
// Labels are what the user fuzzy-matches against.
var paletteCommands = []paletteEntry{
	{CmdRefresh, "refresh items from page"},
	{CmdTranscript, "open transcript"},
	{CmdChapters, "open chapters"},
	{CmdItemSave, "save item"},
	{CmdItemRemove, "remove item"},
	{CmdItemDismiss, "dismiss item"},
	{CmdItemUndo, "undo last action"},
	{CmdCopyLink, "copy item link"},
	{CmdPlayerToggle, "play / pause"},
	{CmdFilter, "filter list"},
	{CmdSearch, "search list"},
	{CmdToggleHints, "toggle hotkey hints"},
	{CmdQuit, "quit"},
}

// paletteMatches filters the palette entries by a case-insensitive substring
// over label and command id.
func paletteMatches(query string) []paletteEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return paletteCommands
	}
	var out []paletteEntry
	for _, entry := range paletteCommands {
		if strings.Contains(strings.ToLower(entry.label), query) ||
			strings.Contains(strings.ToLower(entry.command), query) {
			out = append(out, entry)
		}
	}
	return out
}

func (m *Model) acceptPalette() (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()
	kind := snap.PaletteKind
	query := snap.PaletteQuery
	selection := snap.SelectionIndex
	m.session.ClosePalette()

	if kind == session.PaletteSeek {
		seconds, err := parseSeekTarget(query)
		if err != nil {
			m.showWarningToast(err.Error())
			return m, nil
		}
		return m, m.performCommandCmd("seek", map[string]string{"to": strconv.Itoa(seconds)})
	}

	matches := paletteMatches(query)
	if len(matches) == 0 {
		m.showInfoToast("no matching command")
		return m, nil
	}
	if selection < 0 || selection >= len(matches) {
		selection = 0
	}
	return m.runAction(matches[selection].command)
}

// parseSeekTarget accepts plain seconds ("90"), mm:ss and hh:mm:ss.
func parseSeekTarget(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("seek target is empty")
	}
	parts := strings.Split(input, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid seek target %q", input)
	}
	total := 0
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid seek target %q", input)
		}
		total = total*60 + value
	}
	return total, nil
}
