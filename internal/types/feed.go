package types

// PushKind tags a payload the host page delivered from its own runtime state.
type PushKind string

const (
	PushInitialData    PushKind = "initialData"
	PushPlayerResponse PushKind = "playerResponse"
	PushAPIResponse    PushKind = "apiResponse"
)

// PushDelivery is one unsolicited payload from the host page. Location is the
// location identifier the bridge observed when the payload was produced; the
// reconciler uses it to discard deliveries for pages the user has left.
type PushDelivery struct {
	Kind     PushKind       `json:"kind"`
	Location string         `json:"location"`
	Payload  map[string]any `json:"payload"`
}

// InterceptedResponse is one captured network response the host page itself
// triggered. Endpoint selects the extraction path (browse, search, next,
// player); unknown endpoints degrade to no items extracted.
type InterceptedResponse struct {
	Endpoint string         `json:"endpoint"`
	Location string         `json:"location"`
	Payload  map[string]any `json:"payload"`
}

// NavigationSignal is one raw "the page may have changed" observation relayed
// by the bridge. Several signals typically fire for a single real transition.
type NavigationSignal struct {
	Source   string   `json:"source"`
	Location string   `json:"location"`
	PageKind PageKind `json:"page_kind"`
}

// MutationKind names a user-initiated remote mutation.
type MutationKind string

const (
	MutationAdd       MutationKind = "add"
	MutationRemove    MutationKind = "remove"
	MutationDismiss   MutationKind = "dismiss"
	MutationUndismiss MutationKind = "undismiss"
)
