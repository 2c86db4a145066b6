package bridge

import (
	"context"
	"strings"
	"sync"

	"overlay/internal/types"
)

// SnapshotCache holds the most recent rendered-page snapshot so the scraper
// can read it synchronously. Refresh pulls a new snapshot from the bridge;
// Invalidate drops the cached one when navigation makes it stale. Refresh
// runs off the event loop, so the fields are mutex-guarded.
type SnapshotCache struct {
	client *Client

	mu       sync.Mutex
	html     string
	kind     types.PageKind
	location string
	valid    bool
}

func NewSnapshotCache(client *Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func (s *SnapshotCache) Refresh(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	resp, err := s.client.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = resp.HTML
	s.kind = resp.PageKind
	s.location = resp.Location
	s.valid = strings.TrimSpace(resp.HTML) != ""
	return nil
}

func (s *SnapshotCache) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = ""
	s.kind = types.PageKindUnknown
	s.location = ""
	s.valid = false
}

// PageSnapshot satisfies the scraper's snapshot source.
func (s *SnapshotCache) PageSnapshot() (string, types.PageKind, bool) {
	if s == nil {
		return "", types.PageKindUnknown, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return "", types.PageKindUnknown, false
	}
	return s.html, s.kind, true
}

// Location reports the location the cached snapshot was taken on.
func (s *SnapshotCache) Location() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}
