package bridge

import (
	"strings"

	"overlay/internal/types"
)

// ItemsFromPayload extracts content items from a push or intercepted payload.
// Payload shapes vary per endpoint and change without notice on the host
// side, so extraction is tolerant: recognized keys are read, anything else is
// skipped, and an unrecognized shape yields no items rather than an error.
func ItemsFromPayload(payload map[string]any) []types.ContentItem {
	if payload == nil {
		return nil
	}
	raw := itemList(payload)
	if raw == nil {
		return nil
	}
	var items []types.ContentItem
	for _, entry := range raw {
		node, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := itemFromNode(node)
		if item.Valid() {
			items = append(items, item)
		}
	}
	return items
}

func itemList(payload map[string]any) []any {
	for _, key := range []string{"items", "contents", "results", "entries", "videos"} {
		if list, ok := payload[key].([]any); ok {
			return list
		}
	}
	// One level of nesting covers the common envelope shapes.
	for _, key := range []string{"data", "response", "payload"} {
		if inner, ok := payload[key].(map[string]any); ok {
			if list := itemList(inner); list != nil {
				return list
			}
		}
	}
	return nil
}

func itemFromNode(node map[string]any) types.ContentItem {
	return types.ContentItem{
		ID:          stringField(node, "id", "item_id", "video_id"),
		Title:       stringField(node, "title", "name"),
		URL:         stringField(node, "url", "href", "link"),
		Author:      stringField(node, "author", "channel", "owner"),
		Duration:    stringField(node, "duration", "length"),
		ViewCount:   stringField(node, "view_count", "views"),
		Published:   stringField(node, "published", "published_at", "date"),
		Description: stringField(node, "description", "summary"),
	}
}

func stringField(node map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := node[key].(string); ok {
			value = strings.TrimSpace(value)
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// PageKindForLocation classifies a location identifier. The bridge usually
// supplies the kind itself; this is the fallback when a signal arrives
// without one.
func PageKindForLocation(location string) types.PageKind {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return types.PageKindUnknown
	case strings.Contains(location, "/watch"):
		return types.PageKindWatch
	case strings.Contains(location, "/results"), strings.Contains(location, "/search"):
		return types.PageKindSearch
	default:
		return types.PageKindBrowse
	}
}
