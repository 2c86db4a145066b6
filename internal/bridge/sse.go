package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"overlay/internal/logging"
	"overlay/internal/types"
)

const streamBuffer = 256

// PushStream subscribes to the bridge's push feed: embedded initial data and
// player/API responses forwarded as the host page receives them. The channel
// closes when the stream ends; call cancel to stop early.
func (c *Client) PushStream(ctx context.Context) (<-chan types.PushDelivery, func(), error) {
	ch := make(chan types.PushDelivery, streamBuffer)
	cancel, err := c.stream(ctx, "/v1/stream/push", func(data []byte) {
		var delivery types.PushDelivery
		if err := json.Unmarshal(data, &delivery); err != nil {
			c.log.Warn("bridge: bad push event", logging.F("error", err))
			return
		}
		select {
		case ch <- delivery:
		default:
			c.log.Warn("bridge: push stream backlogged, dropping event")
		}
	}, func() { close(ch) })
	if err != nil {
		return nil, nil, err
	}
	return ch, cancel, nil
}

// InterceptStream subscribes to intercepted network responses for the
// endpoints the bridge watches (continuation fetches, search, browse).
func (c *Client) InterceptStream(ctx context.Context) (<-chan types.InterceptedResponse, func(), error) {
	ch := make(chan types.InterceptedResponse, streamBuffer)
	cancel, err := c.stream(ctx, "/v1/stream/intercept", func(data []byte) {
		var resp types.InterceptedResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Warn("bridge: bad intercept event", logging.F("error", err))
			return
		}
		select {
		case ch <- resp:
		default:
			c.log.Warn("bridge: intercept stream backlogged, dropping event")
		}
	}, func() { close(ch) })
	if err != nil {
		return nil, nil, err
	}
	return ch, cancel, nil
}

// NavigationStream subscribes to navigation signals from the bridge's history
// hook, host navigation events and title observer. The location poller covers
// whatever these miss.
func (c *Client) NavigationStream(ctx context.Context) (<-chan types.NavigationSignal, func(), error) {
	ch := make(chan types.NavigationSignal, streamBuffer)
	cancel, err := c.stream(ctx, "/v1/stream/navigation", func(data []byte) {
		var sig types.NavigationSignal
		if err := json.Unmarshal(data, &sig); err != nil {
			c.log.Warn("bridge: bad navigation event", logging.F("error", err))
			return
		}
		select {
		case ch <- sig:
		default:
			c.log.Warn("bridge: navigation stream backlogged, dropping event")
		}
	}, func() { close(ch) })
	if err != nil {
		return nil, nil, err
	}
	return ch, cancel, nil
}

func (c *Client) stream(ctx context.Context, path string, onData func([]byte), onClose func()) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp)
		resp.Body.Close()
		cancel()
		return nil, apiErr
	}

	go func() {
		defer onClose()
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var data strings.Builder
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if data.Len() > 0 {
					onData([]byte(data.String()))
					data.Reset()
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				chunk := strings.TrimPrefix(line, "data:")
				chunk = strings.TrimPrefix(chunk, " ")
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(chunk)
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.log.Warn("bridge: stream closed", logging.F("path", path), logging.F("error", err))
		}
	}()

	return cancel, nil
}
