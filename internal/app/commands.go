package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"overlay/internal/ledger"
	"overlay/internal/types"
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) openStreamsCmd() tea.Cmd {
	streams := m.streams
	return func() tea.Msg {
		ctx := context.Background()
		push, cancelPush, err := streams.PushStream(ctx)
		if err != nil {
			return streamsOpenedMsg{err: err}
		}
		intercept, cancelIntercept, err := streams.InterceptStream(ctx)
		if err != nil {
			cancelPush()
			return streamsOpenedMsg{err: err}
		}
		nav, cancelNav, err := streams.NavigationStream(ctx)
		if err != nil {
			cancelPush()
			cancelIntercept()
			return streamsOpenedMsg{err: err}
		}
		return streamsOpenedMsg{
			push:      push,
			intercept: intercept,
			nav:       nav,
			cancels:   []func(){cancelPush, cancelIntercept, cancelNav},
		}
	}
}

func (m *Model) waitPushCmd() tea.Cmd {
	ch := m.pushCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		delivery, ok := <-ch
		return pushDeliveryMsg{delivery: delivery, ok: ok}
	}
}

func (m *Model) waitInterceptCmd() tea.Cmd {
	ch := m.interceptCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		resp, ok := <-ch
		return interceptedMsg{resp: resp, ok: ok}
	}
}

func (m *Model) waitNavCmd() tea.Cmd {
	ch := m.navCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		signal, ok := <-ch
		return navSignalMsg{signal: signal, ok: ok}
	}
}

func (m *Model) pollLocationCmd() tea.Cmd {
	client := m.client
	interval := m.cfg.LocationPollInterval()
	if client == nil {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Location(ctx)
		return locationPollMsg{resp: resp, err: err}
	})
}

func (m *Model) fetchDetailCmd(kind types.DetailKind, itemID string) tea.Cmd {
	client := m.client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		lines, available, err := client.FetchDetail(ctx, kind, itemID)
		return detailResultMsg{kind: kind, itemID: itemID, lines: lines, available: available, err: err}
	}
}

func (m *Model) performMutationCmd(record *ledger.Record) tea.Cmd {
	client := m.client
	if client == nil || record == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.PerformMutation(ctx, record.Kind, record.ItemID, nil)
		return mutationResultMsg{recordID: record.ID, itemID: record.ItemID, kind: record.Kind, err: err}
	}
}

func (m *Model) undoMutationCmd(record *ledger.Record, inverse types.MutationKind, seq int) tea.Cmd {
	client := m.client
	if client == nil || record == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.PerformMutation(ctx, inverse, record.ItemID, nil)
		return undoResultMsg{record: record, seq: seq, err: err}
	}
}

func (m *Model) performCommandCmd(name string, args map[string]string) tea.Cmd {
	client := m.client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return commandResultMsg{name: name, err: client.PerformCommand(ctx, name, args)}
	}
}

func (m *Model) scrapeFallbackTimerCmd(seq int) tea.Cmd {
	return tea.Tick(m.cfg.ScrapeFallbackDelay(), func(time.Time) tea.Msg {
		return scrapeFallbackMsg{seq: seq}
	})
}

func (m *Model) refreshSnapshotCmd(seq int) tea.Cmd {
	snapshots := m.snapshots
	if snapshots == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := snapshots.Refresh(ctx)
		return snapshotRefreshedMsg{seq: seq, err: err}
	}
}

func (m *Model) savePrefsCmd() tea.Cmd {
	prefsStore := m.prefsStore
	prefs := m.prefs
	if prefsStore == nil || prefs == nil {
		return nil
	}
	snapshot := *prefs
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return prefsSavedMsg{err: prefsStore.Save(ctx, &snapshot)}
	}
}
