package app

import (
	"context"

	"overlay/internal/bridge"
	"overlay/internal/types"
)

// bridgeAPI is the request surface of the bridge the model depends on.
// Narrowed to an interface so tests drive the model without a live bridge.
type bridgeAPI interface {
	Location(ctx context.Context) (*bridge.LocationResponse, error)
	FetchDetail(ctx context.Context, kind types.DetailKind, itemID string) ([]string, bool, error)
	PerformMutation(ctx context.Context, kind types.MutationKind, itemID string, extra map[string]string) error
	PerformCommand(ctx context.Context, name string, args map[string]string) error
}

type streamAPI interface {
	PushStream(ctx context.Context) (<-chan types.PushDelivery, func(), error)
	InterceptStream(ctx context.Context) (<-chan types.InterceptedResponse, func(), error)
	NavigationStream(ctx context.Context) (<-chan types.NavigationSignal, func(), error)
}

type snapshotCache interface {
	Refresh(ctx context.Context) error
	Invalidate()
	Location() string
}
