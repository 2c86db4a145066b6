package app

import (
	"sort"
	"strings"

	"overlay/internal/dispatch"
	"overlay/internal/session"
	"overlay/internal/types"
)

const (
	CmdListUp       = "list.up"
	CmdListDown     = "list.down"
	CmdListTop      = "list.top"
	CmdListBottom   = "list.bottom"
	CmdListHalfUp   = "list.halfUp"
	CmdListHalfDown = "list.halfDown"
	CmdPalette      = "ui.palette"
	CmdSeek         = "ui.seek"
	CmdFilter       = "ui.filter"
	CmdSearch       = "ui.search"
	CmdSearchNext   = "search.next"
	CmdSearchPrev   = "search.prev"
	CmdTranscript   = "drawer.transcript"
	CmdChapters     = "drawer.chapters"
	CmdClose        = "ui.close"
	CmdAccept       = "ui.accept"
	CmdPlayerToggle = "player.toggle"
	CmdItemRemove   = "item.remove"
	CmdItemDismiss  = "item.dismiss"
	CmdItemSave     = "item.save"
	CmdItemUndo     = "item.undo"
	CmdCopyLink     = "item.copyLink"
	CmdRefresh      = "ui.refresh"
	CmdToggleHints  = "ui.toggleHints"
	CmdQuit         = "ui.quit"
)

// defaultBindingByCommand maps a command to its key. A binding containing a
// space is a multi-key sequence and goes through the matcher; everything else
// is an immediate single-key action.
var defaultBindingByCommand = map[string]string{
	CmdListUp:       "k",
	CmdListDown:     "j",
	CmdListTop:      "g g",
	CmdListBottom:   "G",
	CmdListHalfUp:   "ctrl+u",
	CmdListHalfDown: "ctrl+d",
	CmdPalette:      ":",
	CmdSeek:         "s",
	CmdFilter:       "f",
	CmdSearch:       "/",
	CmdSearchNext:   "n",
	CmdSearchPrev:   "N",
	CmdTranscript:   "t",
	CmdChapters:     "c",
	CmdClose:        "esc",
	CmdAccept:       "enter",
	CmdPlayerToggle: "space",
	CmdItemRemove:   "d d",
	CmdItemDismiss:  "x",
	CmdItemSave:     "a",
	CmdItemUndo:     "u",
	CmdCopyLink:     "y y",
	CmdRefresh:      "r",
	CmdToggleHints:  "?",
	CmdQuit:         "q",
}

// Keybindings resolve command identifiers to keys, with user overrides from
// the keybindings file layered over the defaults. Unknown commands in the
// overrides are ignored rather than rejected.
type Keybindings struct {
	byCommand map[string]string
}

func DefaultKeybindings() *Keybindings {
	return NewKeybindings(nil)
}

func NewKeybindings(overrides map[string]string) *Keybindings {
	byCommand := make(map[string]string, len(defaultBindingByCommand))
	for command, key := range defaultBindingByCommand {
		byCommand[command] = key
	}
	for command, key := range overrides {
		command = strings.TrimSpace(command)
		key = strings.TrimSpace(key)
		if command == "" || key == "" {
			continue
		}
		if _, ok := defaultBindingByCommand[command]; !ok {
			continue
		}
		byCommand[command] = key
	}
	return &Keybindings{byCommand: byCommand}
}

// FromKeymap builds bindings from the persisted override file contents.
func FromKeymap(keymap *types.Keymap) *Keybindings {
	if keymap == nil {
		return DefaultKeybindings()
	}
	return NewKeybindings(keymap.Bindings)
}

func (k *Keybindings) KeyFor(command string) string {
	if k != nil {
		if key := strings.TrimSpace(k.byCommand[command]); key != "" {
			return key
		}
	}
	return defaultBindingByCommand[command]
}

func KnownCommands() []string {
	out := make([]string, 0, len(defaultBindingByCommand))
	for command := range defaultBindingByCommand {
		out = append(out, command)
	}
	sort.Strings(out)
	return out
}

// installBindings wires the resolved bindings into the dispatcher. List and
// item commands live in the normal-mode table; accept and close also work
// inside the typing modes so the user can always leave an input.
func installBindings(d *dispatch.Dispatcher, k *Keybindings) {
	if d == nil || k == nil {
		return
	}
	for _, command := range KnownCommands() {
		key := k.KeyFor(command)
		if key == "" {
			continue
		}
		if strings.Contains(key, " ") {
			d.BindSequence(key, command)
			continue
		}
		d.BindKey(session.ModeNormal, key, command)
	}
	// Arrow keys always mirror j/k, including inside the palette.
	d.BindKey(session.ModeNormal, "up", CmdListUp)
	d.BindKey(session.ModeNormal, "down", CmdListDown)
	d.AllowWhileTyping(k.KeyFor(CmdClose), CmdClose)
	d.AllowWhileTyping(k.KeyFor(CmdAccept), CmdAccept)
	d.AllowWhileTyping("up", CmdListUp)
	d.AllowWhileTyping("down", CmdListDown)
}
