package app

import (
	"strings"
)

type hint struct {
	command string
	label   string
}

// footerHints is the short list worth a footer; the palette shows the rest.
var footerHints = []hint{
	{CmdListDown, "down"},
	{CmdListUp, "up"},
	{CmdSearch, "search"},
	{CmdFilter, "filter"},
	{CmdPalette, "palette"},
	{CmdTranscript, "transcript"},
	{CmdItemRemove, "remove"},
	{CmdItemUndo, "undo"},
	{CmdQuit, "quit"},
}

func (m *Model) hintsLine() string {
	parts := make([]string, 0, len(footerHints))
	for _, h := range footerHints {
		key := m.keybindings.KeyFor(h.command)
		if key == "" {
			continue
		}
		parts = append(parts, compactKey(key)+" "+h.label)
	}
	return strings.Join(parts, "  ·  ")
}

// compactKey renders a binding the way vim help does: sequences collapse
// ("g g" reads "gg") and named keys keep their name.
func compactKey(key string) string {
	tokens := strings.Fields(key)
	compact := true
	for _, token := range tokens {
		if len([]rune(token)) != 1 {
			compact = false
			break
		}
	}
	if compact {
		return strings.Join(tokens, "")
	}
	return key
}
