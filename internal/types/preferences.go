package types

// Preferences are the user settings that outlive a session. Session state
// itself is never persisted; only these knobs and keybinding overrides are.
type Preferences struct {
	PageSize  int  `json:"page_size"`
	ShowHints bool `json:"show_hints"`
}

func DefaultPreferences() *Preferences {
	return &Preferences{
		PageSize:  10,
		ShowHints: true,
	}
}

// Keymap holds user keybinding overrides by command identifier.
type Keymap struct {
	Bindings map[string]string `json:"bindings"`
}

func DefaultKeymap() *Keymap {
	return &Keymap{Bindings: map[string]string{}}
}
