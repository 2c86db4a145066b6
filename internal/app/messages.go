package app

import (
	"time"

	"overlay/internal/bridge"
	"overlay/internal/ledger"
	"overlay/internal/types"
)

type tickMsg time.Time

type streamsOpenedMsg struct {
	push      <-chan types.PushDelivery
	intercept <-chan types.InterceptedResponse
	nav       <-chan types.NavigationSignal
	cancels   []func()
	err       error
}

type pushDeliveryMsg struct {
	delivery types.PushDelivery
	ok       bool
}

type interceptedMsg struct {
	resp types.InterceptedResponse
	ok   bool
}

type navSignalMsg struct {
	signal types.NavigationSignal
	ok     bool
}

type locationPollMsg struct {
	resp *bridge.LocationResponse
	err  error
}

type detailResultMsg struct {
	kind      types.DetailKind
	itemID    string
	lines     []string
	available bool
	err       error
}

type mutationResultMsg struct {
	recordID int
	itemID   string
	kind     types.MutationKind
	err      error
}

type undoResultMsg struct {
	record *ledger.Record
	seq    int
	err    error
}

type scrapeFallbackMsg struct {
	seq int
}

type snapshotRefreshedMsg struct {
	seq int
	err error
}

type commandResultMsg struct {
	name string
	err  error
}

type prefsSavedMsg struct {
	err error
}
