package app

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/bridge"
	"overlay/internal/logging"
	"overlay/internal/navwatch"
	"overlay/internal/reconcile"
	"overlay/internal/scrape"
	"overlay/internal/types"
)

// handleNavigationEvent is the single reset point for a page transition: the
// session collapses to normal mode, the reconciler and ledger drop the old
// page, and the scrape fallback timer is armed for the new one.
func (m *Model) handleNavigationEvent(evt navwatch.Event) tea.Cmd {
	m.session.OnNavigationEvent(evt)
	m.reconciler.BeginNavigation(evt.SequenceID, evt.PageKind)
	m.ledger.InvalidatePending()
	if m.snapshots != nil {
		m.snapshots.Invalidate()
	}
	m.recordLocationSeq(evt.Location, evt.SequenceID)
	m.log.Info("navigation",
		logging.F("location", evt.Location),
		logging.F("previous", evt.Previous),
		logging.F("seq", evt.SequenceID),
		logging.F("kind", string(evt.PageKind)))
	return m.scrapeFallbackTimerCmd(evt.SequenceID)
}

func (m *Model) recordLocationSeq(location string, seq int) {
	// Old entries only matter while their deliveries can still arrive, so
	// the map resets once it outgrows any plausible in-flight window.
	if len(m.locationSeqs) > 64 {
		m.locationSeqs = map[string]int{}
	}
	m.locationSeqs[location] = seq
}

// seqForLocation resolves the navigation sequence a delivery belongs to. An
// unknown location yields a sequence that can never match, so the reconciler
// drops the delivery as stale.
func (m *Model) seqForLocation(location string) int {
	if seq, ok := m.locationSeqs[location]; ok {
		return seq
	}
	return -1
}

func (m *Model) applyNavigationSignal(signal types.NavigationSignal) {
	kind := signal.PageKind
	if kind == types.PageKindUnknown {
		kind = bridge.PageKindForLocation(signal.Location)
	}
	m.watcher.Signal(watcherSource(signal.Source), signal.Location, kind, time.Now())
}

func watcherSource(name string) navwatch.Source {
	switch name {
	case "history":
		return navwatch.SourceHistory
	case "title":
		return navwatch.SourceTitle
	case "poll":
		return navwatch.SourcePoll
	default:
		return navwatch.SourceHostEvent
	}
}

func (m *Model) applyPushDelivery(delivery types.PushDelivery) {
	items := bridge.ItemsFromPayload(delivery.Payload)
	applied := m.reconciler.ApplyDelivery(reconcile.Delivery{
		Source:   reconcile.SourcePush,
		Seq:      m.seqForLocation(delivery.Location),
		PageKind: m.reconciler.PageKind(),
		Items:    items,
	})
	if applied {
		m.afterItemsChanged()
	}
}

func (m *Model) applyInterceptedResponse(resp types.InterceptedResponse) {
	items := bridge.ItemsFromPayload(resp.Payload)
	applied := m.reconciler.ApplyDelivery(reconcile.Delivery{
		Source:   reconcile.SourceIntercept,
		Seq:      m.seqForLocation(resp.Location),
		PageKind: m.reconciler.PageKind(),
		Items:    items,
	})
	if applied {
		m.afterItemsChanged()
	}
}

// afterItemsChanged keeps the selection meaningful after the list length
// moved underneath it.
func (m *Model) afterItemsChanged() {
	m.session.ClampSelection(len(m.visibleItems()))
}

// handleScrapeFallback fires when the fallback timer expires. It is a no-op
// if the page has since changed or the richer feeds already delivered.
func (m *Model) handleScrapeFallback(seq int) (tea.Model, tea.Cmd) {
	if seq != m.reconciler.ActiveSequence() {
		return m, nil
	}
	if m.reconciler.ItemCount() > 0 {
		return m, nil
	}
	return m, m.refreshSnapshotCmd(seq)
}

func (m *Model) handleSnapshotRefreshed(msg snapshotRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.reconciler.ActiveSequence() {
		return m, nil
	}
	if msg.err != nil {
		m.log.Debug("snapshot refresh failed", logging.F("error", msg.err))
		return m, nil
	}
	if err := m.reconciler.ScrapeFallback(); err != nil {
		var notReady *scrape.NotReadyError
		if errors.As(err, &notReady) {
			m.log.Debug("scrape not ready", logging.F("reason", notReady.Reason))
		} else {
			m.log.Warn("scrape failed", logging.F("error", err))
		}
		return m, nil
	}
	m.afterItemsChanged()
	m.log.Info("scrape fallback applied",
		logging.F("location", m.snapshots.Location()),
		logging.F("items", m.reconciler.ItemCount()))
	return m, nil
}
