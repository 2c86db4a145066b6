package bridge

import (
	"testing"

	"overlay/internal/types"
)

func TestItemsFromPayloadNested(t *testing.T) {
	payload := map[string]any{
		"response": map[string]any{
			"contents": []any{
				map[string]any{"video_id": "v1", "name": "First", "channel": "Chan A"},
				map[string]any{"title": "no id or url"},
				"not a map",
			},
		},
	}
	items := ItemsFromPayload(payload)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %v", len(items), items)
	}
	if items[0].ID != "v1" || items[0].Title != "First" || items[0].Author != "Chan A" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestItemsFromPayloadUnknownShape(t *testing.T) {
	payload := map[string]any{"player": map[string]any{"state": "playing"}}
	if items := ItemsFromPayload(payload); items != nil {
		t.Fatalf("expected no items for unknown shape, got %v", items)
	}
	if items := ItemsFromPayload(nil); items != nil {
		t.Fatalf("expected no items for nil payload, got %v", items)
	}
}

func TestPageKindForLocation(t *testing.T) {
	cases := []struct {
		location string
		want     types.PageKind
	}{
		{"/watch?v=abc", types.PageKindWatch},
		{"/results?search_query=go", types.PageKindSearch},
		{"/feed/subscriptions", types.PageKindBrowse},
		{"", types.PageKindUnknown},
	}
	for _, tc := range cases {
		if got := PageKindForLocation(tc.location); got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.location, tc.want, got)
		}
	}
}
