// Package ledger tracks user-initiated remote mutations applied
// optimistically to the local view. Every record captures the full prior
// snapshot at apply time so a remote failure restores state exactly.
package ledger

import (
	"fmt"

	"overlay/internal/types"
)

type State int

const (
	StatePending State = iota
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the pre-mutation state of an item: the item itself, its list
// position, and whether it was present at all. A boolean flag is not enough
// to reinsert an item where it was.
type Snapshot struct {
	Item    types.ContentItem
	Index   int
	Present bool
}

// Record is one mutation from apply to confirmation or rollback.
type Record struct {
	ID     int
	Kind   types.MutationKind
	ItemID string
	State  State
	Prior  Snapshot
}

// ConflictError reports a second mutation attempted while one is still
// pending for the same item. The caller surfaces it as a no-op with a status
// message; it is never silently dropped and never double-applied.
type ConflictError struct {
	ItemID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mutation already pending for item %s", e.ItemID)
}

// Ledger holds in-flight records by item and a single undo slot for the most
// recent confirmed mutation.
type Ledger struct {
	nextID  int
	pending map[string]*Record
	undo    *Record
}

func New() *Ledger {
	return &Ledger{pending: map[string]*Record{}}
}

// Apply opens a pending record for an optimistic mutation. The caller has
// already captured the prior snapshot and performs the local change itself.
// Opening a new record clears the undo slot.
func (l *Ledger) Apply(kind types.MutationKind, itemID string, prior Snapshot) (*Record, error) {
	if l == nil {
		return nil, fmt.Errorf("ledger is nil")
	}
	if itemID == "" {
		return nil, fmt.Errorf("item id is required")
	}
	if _, exists := l.pending[itemID]; exists {
		return nil, &ConflictError{ItemID: itemID}
	}
	l.nextID++
	record := &Record{
		ID:     l.nextID,
		Kind:   kind,
		ItemID: itemID,
		State:  StatePending,
		Prior:  prior,
	}
	l.pending[itemID] = record
	l.undo = nil
	return record, nil
}

// Confirm transitions a pending record to confirmed and arms the undo slot.
// A record that is no longer pending (the view has since been invalidated)
// is rejected.
func (l *Ledger) Confirm(id int) (*Record, bool) {
	record := l.takePending(id)
	if record == nil {
		return nil, false
	}
	record.State = StateConfirmed
	l.undo = record
	return record, true
}

// Fail discards a pending record and hands back the prior snapshot so the
// caller restores the local state bit for bit.
func (l *Ledger) Fail(id int) (Snapshot, bool) {
	record := l.takePending(id)
	if record == nil {
		return Snapshot{}, false
	}
	record.State = StateFailed
	return record.Prior, true
}

// Undoable returns the record currently occupying the undo slot, if any.
// Only the most recent confirmed mutation is undoable.
func (l *Ledger) Undoable() (*Record, bool) {
	if l == nil || l.undo == nil {
		return nil, false
	}
	return l.undo, true
}

// TakeUndo removes and returns the undoable record. The caller issues the
// inverse remote mutation; on success it restores the record's prior
// snapshot, on failure local state stays whatever the inverse call achieved.
func (l *Ledger) TakeUndo() (*Record, bool) {
	if l == nil || l.undo == nil {
		return nil, false
	}
	record := l.undo
	l.undo = nil
	return record, true
}

// HasPending reports whether an item has an unresolved record.
func (l *Ledger) HasPending(itemID string) bool {
	if l == nil {
		return false
	}
	_, ok := l.pending[itemID]
	return ok
}

func (l *Ledger) PendingCount() int {
	if l == nil {
		return 0
	}
	return len(l.pending)
}

// InvalidatePending drops all pending records without rollback. Used when a
// navigation replaces the view the snapshots were captured against.
func (l *Ledger) InvalidatePending() {
	if l == nil {
		return
	}
	l.pending = map[string]*Record{}
	l.undo = nil
}

func (l *Ledger) takePending(id int) *Record {
	if l == nil {
		return nil
	}
	for itemID, record := range l.pending {
		if record.ID == id {
			delete(l.pending, itemID)
			return record
		}
	}
	return nil
}

// Inverse maps a mutation to the remote call that undoes it.
func Inverse(kind types.MutationKind) (types.MutationKind, bool) {
	switch kind {
	case types.MutationAdd:
		return types.MutationRemove, true
	case types.MutationRemove:
		return types.MutationAdd, true
	case types.MutationDismiss:
		return types.MutationUndismiss, true
	case types.MutationUndismiss:
		return types.MutationDismiss, true
	default:
		return "", false
	}
}
