// Package bridge talks to the companion process that sits inside the host
// page: it relays the push feed, intercepted network responses, navigation
// signals, rendered-page snapshots and the remote mutation API over local
// HTTP and SSE. The core never touches the host page directly.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"overlay/internal/logging"
	"overlay/internal/types"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func New(baseURL string, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type LocationResponse struct {
	Location string         `json:"location"`
	PageKind types.PageKind `json:"page_kind"`
}

// Location polls the host page's current location identifier. It backs the
// lowest-frequency navigation detector.
func (c *Client) Location(ctx context.Context) (*LocationResponse, error) {
	var resp LocationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/location", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type SnapshotResponse struct {
	HTML     string         `json:"html"`
	Location string         `json:"location"`
	PageKind types.PageKind `json:"page_kind"`
}

// Snapshot fetches the rendered page structure for the structural scraper.
func (c *Client) Snapshot(ctx context.Context) (*SnapshotResponse, error) {
	var resp SnapshotResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/snapshot", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type detailResponse struct {
	Available bool     `json:"available"`
	Lines     []string `json:"lines"`
}

// FetchDetail loads a per-item concern (transcript, chapters). available is
// false when the host page has none for the item; that is a terminal state
// for the request, not an error.
func (c *Client) FetchDetail(ctx context.Context, kind types.DetailKind, itemID string) (lines []string, available bool, err error) {
	path := fmt.Sprintf("/v1/items/%s/%s", itemID, string(kind))
	var resp detailResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, false, err
	}
	return resp.Lines, resp.Available, nil
}

// MutationError is a rejected or failed remote mutation. The caller rolls
// the optimistic state back and surfaces a transient message.
type MutationError struct {
	Kind   types.MutationKind
	ItemID string
	Reason string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %s on %s failed: %s", string(e.Kind), e.ItemID, e.Reason)
}

type mutationRequest struct {
	Kind   types.MutationKind `json:"kind"`
	ItemID string             `json:"item_id"`
	Extra  map[string]string  `json:"extra,omitempty"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PerformMutation issues a remote mutation (add/remove/dismiss/undismiss).
func (c *Client) PerformMutation(ctx context.Context, kind types.MutationKind, itemID string, extra map[string]string) error {
	var resp mutationResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/mutations", mutationRequest{Kind: kind, ItemID: itemID, Extra: extra}, &resp)
	if err != nil {
		return &MutationError{Kind: kind, ItemID: itemID, Reason: err.Error()}
	}
	if !resp.Success {
		reason := strings.TrimSpace(resp.Error)
		if reason == "" {
			reason = "rejected"
		}
		return &MutationError{Kind: kind, ItemID: itemID, Reason: reason}
	}
	return nil
}

type commandRequest struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// PerformCommand runs a host-page command that mutates nothing the overlay
// shadows: seeking the player, toggling playback. Failures surface as a
// transient message only.
func (c *Client) PerformCommand(ctx context.Context, name string, args map[string]string) error {
	var resp mutationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/commands", commandRequest{Name: name, Args: args}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		reason := strings.TrimSpace(resp.Error)
		if reason == "" {
			reason = "rejected"
		}
		return fmt.Errorf("command %s failed: %s", name, reason)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("bridge error (%d): %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// IsUnreachable reports a transport-level failure as opposed to a bridge
// response. Used to distinguish "bridge down" from "bridge said no".
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var mutErr *MutationError
	return !errors.As(err, &mutErr)
}
