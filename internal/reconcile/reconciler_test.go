package reconcile

import (
	"errors"
	"testing"

	"overlay/internal/types"
)

func item(id, title string) types.ContentItem {
	return types.ContentItem{ID: id, Title: title, URL: "/watch?v=" + id}
}

func TestApplyDeliveryUpsertsByID(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)

	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{item("a", "first"), item("b", "second")}})
	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{item("b", "second updated"), item("c", "third")}})

	items := r.CurrentItems(types.PageKindBrowse)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[1].Title != "second updated" {
		t.Fatalf("expected refresh to preserve identity, got %+v", items[1])
	}
}

func TestPrecedenceMergeKeepsHigherSourceFields(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)

	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{
		{ID: "a", Title: "push title", Duration: "10:00"},
	}})
	r.ApplyDelivery(Delivery{Source: SourceScrape, Items: []types.ContentItem{
		{ID: "a", Title: "scraped title", Author: "scraped author", Duration: "9:59"},
	}})

	items := r.CurrentItems(types.PageKindBrowse)
	if items[0].Title != "push title" {
		t.Fatalf("expected higher-precedence title to survive, got %q", items[0].Title)
	}
	if items[0].Duration != "10:00" {
		t.Fatalf("expected higher-precedence duration to survive, got %q", items[0].Duration)
	}
	if items[0].Author != "scraped author" {
		t.Fatalf("expected lower source to fill absent field, got %q", items[0].Author)
	}
}

func TestLowerSourceNeverClearsPopulatedField(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)

	r.ApplyDelivery(Delivery{Source: SourceIntercept, Seq: 1, Items: []types.ContentItem{
		{ID: "a", Title: "intercepted", ViewCount: "1,234"},
	}})
	r.ApplyDelivery(Delivery{Source: SourceScrape, Items: []types.ContentItem{
		{ID: "a", Title: "scraped"},
	}})

	items := r.CurrentItems(types.PageKindBrowse)
	if items[0].ViewCount != "1,234" {
		t.Fatalf("expected absent scrape field to leave view count, got %q", items[0].ViewCount)
	}
}

func TestHigherSourceOverwritesLowerSourceField(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)

	r.ApplyDelivery(Delivery{Source: SourceScrape, Items: []types.ContentItem{
		{ID: "a", Title: "scraped"},
	}})
	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{
		{ID: "a", Title: "pushed"},
	}})

	if items := r.CurrentItems(types.PageKindBrowse); items[0].Title != "pushed" {
		t.Fatalf("expected push to overwrite scrape, got %q", items[0].Title)
	}
}

func TestStaleDeliveryDiscardedEntirely(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(2, types.PageKindBrowse)

	applied := r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{item("a", "old page")}})
	if applied {
		t.Fatalf("expected stale delivery to be rejected")
	}
	if len(r.CurrentItems(types.PageKindBrowse)) != 0 {
		t.Fatalf("expected stale items not to merge")
	}
	if r.Stats().StaleDeliveries != 1 {
		t.Fatalf("expected stale drop to be counted, got %+v", r.Stats())
	}
}

func TestBeginNavigationResetsView(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)
	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{item("a", "x")}})
	r.BeginDetail(types.DetailTranscript, "a")

	r.BeginNavigation(2, types.PageKindSearch)
	if len(r.CurrentItems(types.PageKindSearch)) != 0 {
		t.Fatalf("expected empty view after navigation")
	}
	if r.Detail(types.DetailTranscript).Status != types.RequestIdle {
		t.Fatalf("expected details cleared after navigation")
	}
}

func TestCurrentItemsForOtherPageKindIsEmpty(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindWatch)
	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{item("a", "x")}})
	if items := r.CurrentItems(types.PageKindBrowse); items != nil {
		t.Fatalf("expected nil for mismatched page kind, got %v", items)
	}
}

func TestDetailLastIssuedWins(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindWatch)

	r.BeginDetail(types.DetailTranscript, "v1")
	r.BeginDetail(types.DetailTranscript, "v2")

	// v1 resolves late; it must not touch the v2 request.
	if r.ResolveDetail(types.DetailTranscript, "v1", []string{"stale line"}, true) {
		t.Fatalf("expected stale detail to be dropped")
	}
	if got := r.Detail(types.DetailTranscript); got.Status != types.RequestLoading || got.ItemID != "v2" {
		t.Fatalf("expected v2 request untouched, got %+v", got)
	}
	if r.Stats().StaleDetails != 1 {
		t.Fatalf("expected stale detail counted, got %+v", r.Stats())
	}

	if !r.ResolveDetail(types.DetailTranscript, "v2", []string{"fresh line"}, true) {
		t.Fatalf("expected current detail to apply")
	}
	if got := r.Detail(types.DetailTranscript); got.Status != types.RequestLoaded || got.Lines[0] != "fresh line" {
		t.Fatalf("unexpected detail state: %+v", got)
	}
}

func TestDetailUnavailable(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindWatch)
	r.BeginDetail(types.DetailChapters, "v1")
	if !r.ResolveDetail(types.DetailChapters, "v1", nil, false) {
		t.Fatalf("expected unavailable result to apply")
	}
	if got := r.Detail(types.DetailChapters); got.Status != types.RequestUnavailable {
		t.Fatalf("unexpected detail state: %+v", got)
	}
}

func TestRemoveAndInsertItemRoundTrip(t *testing.T) {
	r := New(nil, nil)
	r.BeginNavigation(1, types.PageKindBrowse)
	r.ApplyDelivery(Delivery{Source: SourcePush, Seq: 1, Items: []types.ContentItem{
		item("a", "one"), item("b", "two"), item("c", "three"),
	}})

	removed, index, ok := r.RemoveItem("b")
	if !ok || index != 1 {
		t.Fatalf("unexpected removal: %+v %d %v", removed, index, ok)
	}
	if r.ItemCount() != 2 {
		t.Fatalf("expected 2 items after removal")
	}

	r.InsertItemAt(removed, index)
	items := r.CurrentItems(types.PageKindBrowse)
	if items[1].ID != "b" {
		t.Fatalf("expected item restored at original position, got %v", items)
	}
}

type stubScraper struct {
	items []types.ContentItem
	err   error
	calls int
}

func (s *stubScraper) Scrape(kind types.PageKind) ([]types.ContentItem, error) {
	s.calls++
	return s.items, s.err
}

func TestScrapeFallbackAppliesItems(t *testing.T) {
	scraper := &stubScraper{items: []types.ContentItem{item("a", "scraped")}}
	r := New(scraper, nil)
	r.BeginNavigation(1, types.PageKindBrowse)
	if err := r.ScrapeFallback(); err != nil {
		t.Fatalf("scrape fallback: %v", err)
	}
	if r.ItemCount() != 1 {
		t.Fatalf("expected scraped items applied")
	}
}

func TestScrapeFallbackPropagatesError(t *testing.T) {
	wantErr := errors.New("structure not ready")
	r := New(&stubScraper{err: wantErr}, nil)
	r.BeginNavigation(1, types.PageKindBrowse)
	if err := r.ScrapeFallback(); !errors.Is(err, wantErr) {
		t.Fatalf("expected scraper error, got %v", err)
	}
	if r.ItemCount() != 0 {
		t.Fatalf("expected no items on scrape failure")
	}
}
