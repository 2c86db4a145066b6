// Package scrape extracts content items out of the rendered page structure.
// It is the lowest-trust feed: used when push and interception have not
// produced results, or explicitly as a fallback.
package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"overlay/internal/types"
)

// NotReadyError reports that the expected page structure does not exist yet
// (or the visible page is not the expected kind). It is recoverable: the
// caller retries or falls back.
type NotReadyError struct {
	PageKind types.PageKind
	Reason   string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("page %q not ready: %s", string(e.PageKind), e.Reason)
}

// Rules describe how to find items on one page kind. Selectors for concrete
// host pages are wiring concerns; the scraper only owns the mechanics.
type Rules struct {
	Item      string
	ID        string // attribute on the item node carrying the stable id
	Title     string
	Link      string
	Author    string
	Duration  string
	ViewCount string
}

// SnapshotProvider hands out the most recent rendered-page snapshot. The
// bridge keeps it current; reading it is synchronous by construction.
type SnapshotProvider interface {
	PageSnapshot() (html string, kind types.PageKind, ok bool)
}

type Scraper struct {
	snapshots SnapshotProvider
	rules     map[types.PageKind]Rules
}

func New(snapshots SnapshotProvider) *Scraper {
	return &Scraper{
		snapshots: snapshots,
		rules:     map[types.PageKind]Rules{},
	}
}

// Register installs the rules for one page kind, replacing any previous set.
func (s *Scraper) Register(kind types.PageKind, rules Rules) {
	if s == nil || strings.TrimSpace(rules.Item) == "" {
		return
	}
	s.rules[kind] = rules
}

// Scrape parses the current snapshot for the expected page kind. A snapshot
// for a different kind, a missing snapshot, or a page without the expected
// structure all fail with NotReadyError; the DOM may simply not be painted
// yet.
func (s *Scraper) Scrape(kind types.PageKind) ([]types.ContentItem, error) {
	if s == nil || s.snapshots == nil {
		return nil, &NotReadyError{PageKind: kind, Reason: "no snapshot source"}
	}
	html, snapshotKind, ok := s.snapshots.PageSnapshot()
	if !ok || strings.TrimSpace(html) == "" {
		return nil, &NotReadyError{PageKind: kind, Reason: "no snapshot available"}
	}
	if snapshotKind != kind {
		return nil, &NotReadyError{PageKind: kind, Reason: "snapshot is for page kind " + string(snapshotKind)}
	}
	rules, ok := s.rules[kind]
	if !ok {
		return nil, &NotReadyError{PageKind: kind, Reason: "no scrape rules registered"}
	}
	return parseItems(html, rules, kind)
}

func parseItems(html string, rules Rules, kind types.PageKind) ([]types.ContentItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	nodes := doc.Find(rules.Item)
	if nodes.Length() == 0 {
		return nil, &NotReadyError{PageKind: kind, Reason: "no item nodes found"}
	}
	var items []types.ContentItem
	nodes.Each(func(_ int, node *goquery.Selection) {
		item := types.ContentItem{
			ID:        attrOrText(node, rules.ID),
			Title:     selectionText(node, rules.Title),
			Author:    selectionText(node, rules.Author),
			Duration:  selectionText(node, rules.Duration),
			ViewCount: selectionText(node, rules.ViewCount),
		}
		if rules.Link != "" {
			if href, ok := node.Find(rules.Link).First().Attr("href"); ok {
				item.URL = strings.TrimSpace(href)
			}
		}
		if item.ID == "" {
			item.ID = item.URL
		}
		if item.Valid() {
			items = append(items, item)
		}
	})
	return items, nil
}

func attrOrText(node *goquery.Selection, attr string) string {
	if attr == "" {
		return ""
	}
	if value, ok := node.Attr(attr); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func selectionText(node *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(node.Find(selector).First().Text())
}
