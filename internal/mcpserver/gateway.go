// Package mcpserver adapts the REST surface of the OAuth service to MCP
// tools and resources consumable by an AI agent.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Gateway is the HTTP client for the OAuth service's REST surface. Responses
// are passed through as raw JSON; the agent gets exactly what the REST layer
// returns.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewGateway points the gateway at the OAuth service.
func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthStatus asks the OAuth service whether a user is authenticated.
func (g *Gateway) AuthStatus(ctx context.Context) (bool, string, error) {
	raw, err := g.get(ctx, "/auth/status", nil)
	if err != nil {
		return false, "Failed to connect to OAuth server", err
	}
	var body struct {
		Authenticated bool   `json:"authenticated"`
		Message       string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return false, "", fmt.Errorf("decode auth status: %w", err)
	}
	return body.Authenticated, body.Message, nil
}

// CurrentGlucose returns the latest reading.
func (g *Gateway) CurrentGlucose(ctx context.Context) (json.RawMessage, error) {
	return g.get(ctx, "/api/glucose/current", nil)
}

// GlucoseRange returns readings between two timestamps.
func (g *Gateway) GlucoseRange(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return g.get(ctx, "/api/glucose/range", url.Values{
		"startDate": {startDate},
		"endDate":   {endDate},
	})
}

// Statistics returns the glucose summary for the trailing period.
func (g *Gateway) Statistics(ctx context.Context, days int) (json.RawMessage, error) {
	return g.get(ctx, "/api/statistics", url.Values{"days": {strconv.Itoa(days)}})
}

// Devices lists the user's CGM devices.
func (g *Gateway) Devices(ctx context.Context) (json.RawMessage, error) {
	return g.get(ctx, "/api/devices", nil)
}

// DataRange returns the available data window.
func (g *Gateway) DataRange(ctx context.Context) (json.RawMessage, error) {
	return g.get(ctx, "/api/data-range", nil)
}

func (g *Gateway) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth server unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The REST layer returns {"error","message"} on failures.
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
			}
			return nil, fmt.Errorf("%s", apiErr.Error)
		}
		return nil, fmt.Errorf("oauth server returned %d for %s", resp.StatusCode, path)
	}
	return body, nil
}
