package reconcile

import (
	"overlay/internal/logging"
	"overlay/internal/types"
)

// DetailState is one outstanding per-item fetch (transcript, chapter list).
// Its staleness guard is the item identifier, not the navigation sequence: a
// drawer can outlive a navigation in edge cases, so the two guards must not
// be conflated.
type DetailState struct {
	Status types.RequestStatus
	ItemID string
	Lines  []string
}

// BeginDetail marks a detail concern loading for an item. A newer request
// for the same concern supersedes any earlier one: only the result matching
// the identifier recorded here will be applied.
func (r *Reconciler) BeginDetail(kind types.DetailKind, itemID string) {
	if r == nil || itemID == "" {
		return
	}
	r.details[kind] = &DetailState{
		Status: types.RequestLoading,
		ItemID: itemID,
	}
}

// ResolveDetail applies a detail result if and only if the request's item
// identifier still equals the active identifier for that concern. Stale
// results are silently dropped and counted.
func (r *Reconciler) ResolveDetail(kind types.DetailKind, itemID string, lines []string, available bool) bool {
	if r == nil {
		return false
	}
	state := r.details[kind]
	if state == nil || state.ItemID != itemID {
		r.stats.StaleDetails++
		r.log.Debug("stale detail discarded",
			logging.F("kind", string(kind)),
			logging.F("item", itemID))
		return false
	}
	if !available {
		state.Status = types.RequestUnavailable
		state.Lines = nil
		return true
	}
	state.Status = types.RequestLoaded
	state.Lines = lines
	return true
}

// Detail returns the current state for a concern; idle when never requested
// for this navigation.
func (r *Reconciler) Detail(kind types.DetailKind) DetailState {
	if r == nil {
		return DetailState{Status: types.RequestIdle}
	}
	if state := r.details[kind]; state != nil {
		return *state
	}
	return DetailState{Status: types.RequestIdle}
}

// ClearDetail forgets a concern, typically when its drawer closes.
func (r *Reconciler) ClearDetail(kind types.DetailKind) {
	if r == nil {
		return
	}
	delete(r.details, kind)
}
