package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
)

// Client is the typed client of the analogdpad API server.
type Client struct{ transport *Transport }

// New constructs a client for the server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client on top of t, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

func (c *Client) Ping(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// GetSettings returns the settings the server uses when a request does not
// carry its own.
func (c *Client) GetSettings(ctx context.Context) (*dpad.Settings, error) {
	raw, err := c.transport.DoCtx(ctx, "config/get", nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := parse[apitypes.SettingsResponse](raw)
	if err != nil {
		return nil, err
	}
	return &resp.Settings, nil
}

// SetSettings persists s on the server. Invalid settings fail with a 422
// *apitypes.ApiError listing every violation.
func (c *Client) SetSettings(ctx context.Context, s dpad.Settings) (*dpad.Settings, error) {
	raw, err := c.transport.DoCtx(ctx, "config/set", s, nil)
	if err != nil {
		return nil, err
	}
	resp, err := parse[apitypes.SettingsResponse](raw)
	if err != nil {
		return nil, err
	}
	return &resp.Settings, nil
}

// History lists saved settings revisions, newest first. It fails with a 501
// *apitypes.ApiError when the server store keeps no history.
func (c *Client) History(ctx context.Context, limit int) (*apitypes.HistoryResponse, error) {
	var payload any
	if limit > 0 {
		payload = apitypes.HistoryRequest{Limit: limit}
	}
	raw, err := c.transport.DoCtx(ctx, "config/history", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.HistoryResponse](raw)
}

// Rollback activates an earlier revision and returns its settings.
func (c *Client) Rollback(ctx context.Context, revisionID string) (*dpad.Settings, error) {
	raw, err := c.transport.DoCtx(ctx, "config/rollback", apitypes.RollbackRequest{ID: revisionID}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := parse[apitypes.SettingsResponse](raw)
	if err != nil {
		return nil, err
	}
	return &resp.Settings, nil
}

// Classify classifies one sample. A nil s uses the server settings.
func (c *Client) Classify(ctx context.Context, mode dpad.Mode, sample dpad.Sample, s *dpad.Settings) (*apitypes.ClassifyResponse, error) {
	req := apitypes.ClassifyRequest{X: sample.X, Y: sample.Y, Settings: s}
	raw, err := c.transport.DoCtx(ctx, "classify/{mode}", req, map[string]string{"mode": string(mode)})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ClassifyResponse](raw)
}

func (c *Client) ClassifyBatch(ctx context.Context, mode dpad.Mode, samples []dpad.Sample, s *dpad.Settings) (*apitypes.ClassifyBatchResponse, error) {
	req := apitypes.ClassifyBatchRequest{Samples: samples, Settings: s}
	raw, err := c.transport.DoCtx(ctx, "classify/{mode}/batch", req, map[string]string{"mode": string(mode)})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ClassifyBatchResponse](raw)
}

// Preview fetches the classification raster as PNG bytes.
func (c *Client) Preview(ctx context.Context, mode dpad.Mode, req apitypes.PreviewRequest) (*apitypes.PreviewResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "preview/{mode}", req, map[string]string{"mode": string(mode)})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PreviewResponse](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
