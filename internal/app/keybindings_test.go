package app

import (
	"testing"

	"overlay/internal/types"
)

func TestKeybindingOverridesApply(t *testing.T) {
	k := NewKeybindings(map[string]string{
		CmdItemRemove: "x x",
		"bogus.cmd":   "z",
		CmdQuit:       "",
	})
	if got := k.KeyFor(CmdItemRemove); got != "x x" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := k.KeyFor(CmdQuit); got != "q" {
		t.Fatalf("expected empty override ignored, got %q", got)
	}
	if got := k.KeyFor(CmdListDown); got != "j" {
		t.Fatalf("expected default binding, got %q", got)
	}
}

func TestFromKeymap(t *testing.T) {
	k := FromKeymap(&types.Keymap{Bindings: map[string]string{CmdSearch: "?"}})
	if got := k.KeyFor(CmdSearch); got != "?" {
		t.Fatalf("expected keymap override, got %q", got)
	}
	if k := FromKeymap(nil); k.KeyFor(CmdSearch) != "/" {
		t.Fatalf("expected defaults for nil keymap")
	}
}

func TestCompactKey(t *testing.T) {
	cases := map[string]string{
		"g g":    "gg",
		"d d":    "dd",
		"ctrl+d": "ctrl+d",
		"q":      "q",
		"g esc":  "g esc",
	}
	for in, want := range cases {
		if got := compactKey(in); got != want {
			t.Fatalf("compactKey(%q): expected %q, got %q", in, want, got)
		}
	}
}
