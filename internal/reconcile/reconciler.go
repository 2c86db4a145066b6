// Package reconcile merges the push feed, the intercepted-response feed and
// the on-demand structural scrape into one best-known view of page content.
// The host page remains the real state; this is its shadow copy.
package reconcile

import (
	"fmt"

	"overlay/internal/logging"
	"overlay/internal/types"
)

// Source orders the feeds by freshness trust, highest last so comparisons
// read naturally.
type Source int

const (
	SourceScrape Source = iota
	SourceIntercept
	SourcePush
)

func (s Source) String() string {
	switch s {
	case SourcePush:
		return "push"
	case SourceIntercept:
		return "intercept"
	case SourceScrape:
		return "scrape"
	default:
		return "unknown"
	}
}

// Delivery is one batch of normalized items from a feed, tagged with the
// navigation sequence that was active when the data was produced.
type Delivery struct {
	Source   Source
	Seq      int
	PageKind types.PageKind
	Items    []types.ContentItem
}

// Stats count silently-dropped results. They exist so staleness handling is
// observable under test without being user-visible.
type Stats struct {
	StaleDeliveries int
	StaleDetails    int
	EmptyBatches    int
}

// Scraper pulls items synchronously out of the rendered page structure.
// Implementations fail with a not-ready error when the expected structure is
// absent.
type Scraper interface {
	Scrape(kind types.PageKind) ([]types.ContentItem, error)
}

type fieldSources map[string]Source

// Reconciler owns the current item view for the active navigation plus the
// outstanding per-item detail requests.
type Reconciler struct {
	activeSeq    int
	pageKind     types.PageKind
	items        []types.ContentItem
	sourcesByID  map[string]fieldSources
	details      map[types.DetailKind]*DetailState
	scraper      Scraper
	stats        Stats
	log          logging.Logger
}

func New(scraper Scraper, log logging.Logger) *Reconciler {
	if log == nil {
		log = logging.Nop()
	}
	return &Reconciler{
		sourcesByID: map[string]fieldSources{},
		details:     map[types.DetailKind]*DetailState{},
		scraper:     scraper,
		log:         log,
	}
}

// BeginNavigation resets the view for a new logical page. Everything held
// for the previous navigation is dropped; in-flight results for it will be
// discarded on arrival by the sequence guard.
func (r *Reconciler) BeginNavigation(seq int, kind types.PageKind) {
	if r == nil {
		return
	}
	r.activeSeq = seq
	r.pageKind = kind
	r.items = nil
	r.sourcesByID = map[string]fieldSources{}
	r.details = map[types.DetailKind]*DetailState{}
}

// ActiveSequence returns the navigation sequence the view belongs to.
func (r *Reconciler) ActiveSequence() int {
	if r == nil {
		return 0
	}
	return r.activeSeq
}

func (r *Reconciler) PageKind() types.PageKind {
	if r == nil {
		return types.PageKindUnknown
	}
	return r.pageKind
}

// ApplyDelivery upserts a batch into the current view. Push and intercepted
// deliveries must carry the active navigation sequence; a mismatch is a
// silent drop counted in Stats. Scrape deliveries are inherently current and
// bypass the sequence guard.
func (r *Reconciler) ApplyDelivery(d Delivery) bool {
	if r == nil {
		return false
	}
	if d.Source != SourceScrape && d.Seq != r.activeSeq {
		r.stats.StaleDeliveries++
		r.log.Debug("stale delivery discarded",
			logging.F("source", d.Source),
			logging.F("seq", d.Seq),
			logging.F("active", r.activeSeq))
		return false
	}
	if len(d.Items) == 0 {
		r.stats.EmptyBatches++
		return false
	}
	for _, item := range d.Items {
		if !item.Valid() {
			continue
		}
		r.upsert(item, d.Source)
	}
	return true
}

// CurrentItems returns the best-known-so-far view, synchronously. A page
// kind other than the active one yields nothing.
func (r *Reconciler) CurrentItems(kind types.PageKind) []types.ContentItem {
	if r == nil || kind != r.pageKind {
		return nil
	}
	out := make([]types.ContentItem, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Reconciler) ItemCount() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// ItemAt returns the item at a list position.
func (r *Reconciler) ItemAt(index int) (types.ContentItem, bool) {
	if r == nil || index < 0 || index >= len(r.items) {
		return types.ContentItem{}, false
	}
	return r.items[index], true
}

// ItemByID returns an item and its position.
func (r *Reconciler) ItemByID(id string) (types.ContentItem, int, bool) {
	if r == nil {
		return types.ContentItem{}, 0, false
	}
	for i, item := range r.items {
		if item.ID == id {
			return item, i, true
		}
	}
	return types.ContentItem{}, 0, false
}

// RemoveItem takes an item out of the view for an optimistic mutation,
// returning it with its position so an exact rollback can reinsert it.
func (r *Reconciler) RemoveItem(id string) (types.ContentItem, int, bool) {
	item, index, ok := r.ItemByID(id)
	if !ok {
		return types.ContentItem{}, 0, false
	}
	r.items = append(r.items[:index], r.items[index+1:]...)
	delete(r.sourcesByID, id)
	return item, index, true
}

// InsertItemAt restores an item at its recorded position, clamped to the
// current list length.
func (r *Reconciler) InsertItemAt(item types.ContentItem, index int) {
	if r == nil || !item.Valid() {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(r.items) {
		index = len(r.items)
	}
	r.items = append(r.items, types.ContentItem{})
	copy(r.items[index+1:], r.items[index:])
	r.items[index] = item
}

// ScrapeFallback pulls items out of the rendered page structure. It is used
// when neither push nor interception has produced results, or explicitly on
// demand. The scraper validates the page kind itself.
func (r *Reconciler) ScrapeFallback() error {
	if r == nil || r.scraper == nil {
		return fmt.Errorf("no scraper configured")
	}
	items, err := r.scraper.Scrape(r.pageKind)
	if err != nil {
		return err
	}
	r.ApplyDelivery(Delivery{Source: SourceScrape, PageKind: r.pageKind, Items: items})
	return nil
}

func (r *Reconciler) Stats() Stats {
	if r == nil {
		return Stats{}
	}
	return r.stats
}

// upsert merges one incoming item. A field populated by a higher-precedence
// source is kept unless that source reported it absent; identity is
// preserved and items are never split across sources.
func (r *Reconciler) upsert(incoming types.ContentItem, src Source) {
	_, index, ok := r.ItemByID(incoming.ID)
	if !ok {
		r.items = append(r.items, incoming)
		r.sourcesByID[incoming.ID] = recordSources(incoming, src)
		return
	}
	existing := r.items[index]
	sources := r.sourcesByID[incoming.ID]
	if sources == nil {
		sources = fieldSources{}
		r.sourcesByID[incoming.ID] = sources
	}
	merged := existing
	mergeField(&merged.Title, incoming.Title, "title", sources, src)
	mergeField(&merged.URL, incoming.URL, "url", sources, src)
	mergeField(&merged.Author, incoming.Author, "author", sources, src)
	mergeField(&merged.Duration, incoming.Duration, "duration", sources, src)
	mergeField(&merged.ViewCount, incoming.ViewCount, "view_count", sources, src)
	mergeField(&merged.Published, incoming.Published, "published", sources, src)
	mergeField(&merged.Description, incoming.Description, "description", sources, src)
	r.items[index] = merged
}

// mergeField overwrites when the incoming value is present and either the
// field is empty or the incoming source is at least as trusted as the one
// that populated it. An absent incoming value never clears a populated one.
func mergeField(dst *string, incoming, name string, sources fieldSources, src Source) {
	if incoming == "" {
		return
	}
	if *dst == "" {
		*dst = incoming
		sources[name] = src
		return
	}
	if current, ok := sources[name]; ok && src < current {
		return
	}
	*dst = incoming
	sources[name] = src
}

func recordSources(item types.ContentItem, src Source) fieldSources {
	sources := fieldSources{}
	mark := func(name, value string) {
		if value != "" {
			sources[name] = src
		}
	}
	mark("title", item.Title)
	mark("url", item.URL)
	mark("author", item.Author)
	mark("duration", item.Duration)
	mark("view_count", item.ViewCount)
	mark("published", item.Published)
	mark("description", item.Description)
	return sources
}
