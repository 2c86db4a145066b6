package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/bridge"
	"overlay/internal/logging"
	"overlay/internal/navwatch"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeDrawer()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case streamsOpenedMsg:
		if msg.err != nil {
			m.log.Error("bridge streams unavailable", logging.F("error", msg.err))
			message := "opening bridge streams failed: " + msg.err.Error()
			if bridge.IsUnreachable(msg.err) {
				message = "bridge unreachable: " + msg.err.Error()
			}
			m.enqueueStartupToast(toastLevelError, message)
			return m, nil
		}
		m.pushCh = msg.push
		m.interceptCh = msg.intercept
		m.navCh = msg.nav
		m.cancels = append(m.cancels, msg.cancels...)
		m.enqueueStartupToast(toastLevelInfo, "connected to bridge")
		return m, tea.Batch(m.waitPushCmd(), m.waitInterceptCmd(), m.waitNavCmd())

	case pushDeliveryMsg:
		if !msg.ok {
			m.log.Warn("push stream closed")
			m.pushCh = nil
			return m, nil
		}
		m.applyPushDelivery(msg.delivery)
		return m, m.waitPushCmd()

	case interceptedMsg:
		if !msg.ok {
			m.log.Warn("intercept stream closed")
			m.interceptCh = nil
			return m, nil
		}
		m.applyInterceptedResponse(msg.resp)
		return m, m.waitInterceptCmd()

	case navSignalMsg:
		if !msg.ok {
			m.log.Warn("navigation stream closed")
			m.navCh = nil
			return m, nil
		}
		m.applyNavigationSignal(msg.signal)
		return m, m.waitNavCmd()

	case locationPollMsg:
		if msg.err != nil {
			m.log.Debug("location poll failed", logging.F("error", msg.err))
		} else if msg.resp != nil {
			m.watcher.Signal(navwatch.SourcePoll, msg.resp.Location, msg.resp.PageKind, time.Now())
		}
		return m, m.pollLocationCmd()

	case scrapeFallbackMsg:
		return m.handleScrapeFallback(msg.seq)

	case snapshotRefreshedMsg:
		return m.handleSnapshotRefreshed(msg)

	case detailResultMsg:
		m.handleDetailResult(msg)
		return m, nil

	case mutationResultMsg:
		m.handleMutationResult(msg)
		return m, nil

	case undoResultMsg:
		m.handleUndoResult(msg)
		return m, nil

	case commandResultMsg:
		if msg.err != nil {
			m.showErrorToast(msg.err.Error())
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.showWarningToast("saving preferences failed: " + msg.err.Error())
		}
		return m, nil
	}

	return m, nil
}

// handleTick drives everything time-based in one place: the navigation
// debounce flush, sequence idle expiry, toast rotation.
func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if evt, ok := m.watcher.Flush(now); ok {
		if cmd := m.handleNavigationEvent(evt); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.dispatcher.ExpireSequence(now)
	if !m.toastActive(now) && m.toastText != "" {
		m.clearToast()
	}
	m.maybeShowNextStartupToast(now)
	cmds = append(cmds, tickCmd())
	return m, tea.Batch(cmds...)
}
