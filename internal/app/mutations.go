package app

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/ledger"
	"overlay/internal/logging"
	"overlay/internal/types"
)

func mutationKindFor(action string) (types.MutationKind, bool) {
	switch action {
	case CmdItemRemove:
		return types.MutationRemove, true
	case CmdItemDismiss:
		return types.MutationDismiss, true
	case CmdItemSave:
		return types.MutationAdd, true
	default:
		return "", false
	}
}

// removesLocally reports whether a mutation takes the item out of the list
// optimistically. Saving keeps the item in place.
func removesLocally(kind types.MutationKind) bool {
	return kind == types.MutationRemove || kind == types.MutationDismiss
}

// beginMutation applies a mutation optimistically: snapshot the prior state,
// open a ledger record, adjust the local view, then issue the remote call.
func (m *Model) beginMutation(action string) (tea.Model, tea.Cmd) {
	kind, ok := mutationKindFor(action)
	if !ok {
		return m, nil
	}
	item, ok := m.selectedItem()
	if !ok {
		m.showWarningToast("no item selected")
		return m, nil
	}
	_, index, found := m.reconciler.ItemByID(item.ID)
	if !found {
		return m, nil
	}
	prior := ledger.Snapshot{Item: item, Index: index, Present: true}
	record, err := m.ledger.Apply(kind, item.ID, prior)
	if err != nil {
		var conflict *ledger.ConflictError
		if errors.As(err, &conflict) {
			m.showWarningToast("action already pending for this item")
		} else {
			m.showErrorToast(err.Error())
		}
		return m, nil
	}
	if removesLocally(kind) {
		m.reconciler.RemoveItem(item.ID)
		m.afterItemsChanged()
	}
	m.log.Info("mutation applied",
		logging.F("kind", string(kind)),
		logging.F("item", item.ID),
		logging.F("record", record.ID))
	return m, m.performMutationCmd(record)
}

func (m *Model) handleMutationResult(msg mutationResultMsg) {
	if msg.err == nil {
		if _, ok := m.ledger.Confirm(msg.recordID); ok {
			m.showInfoToast(mutationLabel(msg.kind) + " confirmed")
		}
		return
	}
	prior, ok := m.ledger.Fail(msg.recordID)
	if !ok {
		// The view was replaced while the call was in flight; there is
		// nothing to roll back into.
		m.log.Debug("mutation failure for invalidated record",
			logging.F("record", msg.recordID),
			logging.F("error", msg.err))
		return
	}
	if removesLocally(msg.kind) && prior.Present {
		m.reconciler.InsertItemAt(prior.Item, prior.Index)
		m.afterItemsChanged()
	}
	m.showErrorToast(mutationLabel(msg.kind) + " failed: " + msg.err.Error())
}

// beginUndo issues the inverse remote mutation for the most recent confirmed
// one. Only one level of undo exists.
func (m *Model) beginUndo() (tea.Model, tea.Cmd) {
	record, ok := m.ledger.TakeUndo()
	if !ok {
		m.showInfoToast("nothing to undo")
		return m, nil
	}
	inverse, ok := ledger.Inverse(record.Kind)
	if !ok {
		return m, nil
	}
	return m, m.undoMutationCmd(record, inverse, m.reconciler.ActiveSequence())
}

func (m *Model) handleUndoResult(msg undoResultMsg) {
	if msg.seq != m.reconciler.ActiveSequence() {
		// The page changed while the inverse call was in flight; the prior
		// snapshot belongs to a view that no longer exists.
		m.log.Debug("undo result for stale navigation",
			logging.F("seq", msg.seq),
			logging.F("active", m.reconciler.ActiveSequence()))
		return
	}
	if msg.err != nil {
		m.showErrorToast("undo failed: " + msg.err.Error())
		return
	}
	if msg.record != nil && removesLocally(msg.record.Kind) && msg.record.Prior.Present {
		m.reconciler.InsertItemAt(msg.record.Prior.Item, msg.record.Prior.Index)
		m.afterItemsChanged()
	}
	m.showInfoToast("undone")
}

func mutationLabel(kind types.MutationKind) string {
	switch kind {
	case types.MutationAdd:
		return "save"
	case types.MutationRemove:
		return "remove"
	case types.MutationDismiss:
		return "dismiss"
	case types.MutationUndismiss:
		return "restore"
	default:
		return string(kind)
	}
}
