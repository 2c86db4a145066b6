// Package app is the terminal overlay itself: a Bubble Tea model that joins
// the bridge feeds, the navigation watcher, the reconciler, the mutation
// ledger and the session store into one cooperative event loop.
package app

import (
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"overlay/internal/bridge"
	"overlay/internal/config"
	"overlay/internal/dispatch"
	"overlay/internal/keyseq"
	"overlay/internal/ledger"
	"overlay/internal/logging"
	"overlay/internal/navwatch"
	"overlay/internal/reconcile"
	"overlay/internal/scrape"
	"overlay/internal/session"
	"overlay/internal/store"
	"overlay/internal/types"
)

const (
	tickInterval     = 100 * time.Millisecond
	requestTimeout   = 10 * time.Second
	minContentHeight = 8
	minContentWidth  = 40
)

type Model struct {
	cfg config.Settings
	log logging.Logger

	client  bridgeAPI
	streams streamAPI

	session    *session.Store
	reconciler *reconcile.Reconciler
	ledger     *ledger.Ledger
	dispatcher *dispatch.Dispatcher
	watcher    *navwatch.Watcher
	snapshots  snapshotCache

	keybindings *Keybindings
	prefs       *types.Preferences
	prefsStore  store.PreferencesStore

	// locationSeqs maps a location identifier to the navigation sequence
	// that was active when the user last landed on it. Deliveries stamped
	// with a location resolve their sequence through it.
	locationSeqs map[string]int

	pushCh      <-chan types.PushDelivery
	interceptCh <-chan types.InterceptedResponse
	navCh       <-chan types.NavigationSignal
	cancels     []func()

	drawer viewport.Model

	width  int
	height int
	ready  bool

	status        string
	toastText     string
	toastLevel    toastLevel
	toastUntil    time.Time
	startupToasts []queuedToast

	quitting bool
}

type Options struct {
	Settings    config.Settings
	Logger      logging.Logger
	Client      *bridge.Client
	Snapshots   *bridge.SnapshotCache
	Keybindings *Keybindings
	Preferences *types.Preferences
	PrefsStore  store.PreferencesStore
}

func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	prefs := opts.Preferences
	if prefs == nil {
		prefs = types.DefaultPreferences()
	}
	keybindings := opts.Keybindings
	if keybindings == nil {
		keybindings = DefaultKeybindings()
	}

	var snapshots snapshotCache
	var scraper reconcile.Scraper
	if opts.Snapshots != nil {
		snapshots = opts.Snapshots
		s := scrape.New(opts.Snapshots)
		registerScrapeRules(s)
		scraper = s
	}

	drawer := viewport.New(viewport.WithWidth(minContentWidth), viewport.WithHeight(minContentHeight))

	m := &Model{
		cfg:          opts.Settings,
		log:          log,
		session:      session.NewStore(),
		reconciler:   reconcile.New(scraper, log),
		ledger:       ledger.New(),
		watcher:      navwatch.New(opts.Settings.NavigationDebounce()),
		snapshots:    snapshots,
		keybindings:  keybindings,
		prefs:        prefs,
		prefsStore:   opts.PrefsStore,
		locationSeqs: map[string]int{},
		drawer:       drawer,
	}
	if opts.Client != nil {
		m.client = opts.Client
		m.streams = opts.Client
	}
	m.dispatcher = dispatch.New(keyseq.New(opts.Settings.SequenceIdleTimeout()))
	installBindings(m.dispatcher, keybindings)
	return m
}

// Run starts the overlay program. The alternate screen is requested on
// every frame by View.
func Run(opts Options) error {
	model := NewModel(opts)
	p := tea.NewProgram(model)
	_, err := p.Run()
	for _, cancel := range model.cancels {
		cancel()
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.pollLocationCmd()}
	if m.streams != nil {
		cmds = append(cmds, m.openStreamsCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) pageSize() int {
	if m.prefs != nil && m.prefs.PageSize > 0 {
		return m.prefs.PageSize
	}
	return m.cfg.PageSize()
}

// registerScrapeRules installs the per-page selectors the bridge's snapshot
// format exposes. The bridge normalizes host markup into this stable shape.
func registerScrapeRules(s *scrape.Scraper) {
	itemRules := scrape.Rules{
		Item:      "[data-overlay-item]",
		ID:        "data-overlay-item",
		Title:     "[data-overlay-title]",
		Link:      "a[data-overlay-link]",
		Author:    "[data-overlay-author]",
		Duration:  "[data-overlay-duration]",
		ViewCount: "[data-overlay-views]",
	}
	s.Register(types.PageKindBrowse, itemRules)
	s.Register(types.PageKindSearch, itemRules)
	s.Register(types.PageKindWatch, itemRules)
}
