package types

import "strings"

// PageKind classifies the host page currently visible. The bridge reports it
// alongside the location identifier; the reconciler keeps items per kind.
type PageKind string

const (
	PageKindUnknown PageKind = ""
	PageKindWatch   PageKind = "watch"
	PageKindBrowse  PageKind = "browse"
	PageKindSearch  PageKind = "search"
)

// ContentItem is the normalized unit of page content: a video, a search
// result, a comment. Identity is the stable ID; fields may be refreshed by a
// later delivery but an item is never split or re-keyed.
type ContentItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	Duration    string `json:"duration"`
	ViewCount   string `json:"view_count"`
	Published   string `json:"published"`
	Description string `json:"description"`
}

func (i ContentItem) Valid() bool {
	return strings.TrimSpace(i.ID) != ""
}

// DetailKind names a per-item asynchronous concern.
type DetailKind string

const (
	DetailTranscript DetailKind = "transcript"
	DetailChapters   DetailKind = "chapters"
)

// RequestStatus is the lifecycle of one outstanding detail fetch.
type RequestStatus string

const (
	RequestIdle        RequestStatus = "idle"
	RequestLoading     RequestStatus = "loading"
	RequestLoaded      RequestStatus = "loaded"
	RequestUnavailable RequestStatus = "unavailable"
)
