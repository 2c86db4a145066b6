package app

import (
	"strings"

	"overlay/internal/types"
)

// visibleItems is the reconciled list narrowed by the filter query when the
// filter is active. Selection indices refer to this slice.
func (m *Model) visibleItems() []types.ContentItem {
	items := m.reconciler.CurrentItems(m.reconciler.PageKind())
	snap := m.session.Snapshot()
	if !snap.FilterActive {
		return items
	}
	query := strings.ToLower(strings.TrimSpace(snap.FilterQuery))
	if query == "" {
		return items
	}
	var out []types.ContentItem
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Author)
		if strings.Contains(haystack, query) {
			out = append(out, item)
		}
	}
	return out
}

func (m *Model) selectedItem() (types.ContentItem, bool) {
	items := m.visibleItems()
	index := m.session.Snapshot().SelectionIndex
	if index < 0 || index >= len(items) {
		return types.ContentItem{}, false
	}
	return items[index], true
}

func (m *Model) copySelectedLink() {
	item, ok := m.selectedItem()
	if !ok {
		m.showWarningToast("no item selected")
		return
	}
	url := strings.TrimSpace(item.URL)
	if url == "" {
		m.showWarningToast("item has no link")
		return
	}
	m.copyWithStatus(url, "link copied")
}
