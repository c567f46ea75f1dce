package dexcom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// TokenProvider supplies bearer credentials for outbound calls.
type TokenProvider interface {
	// ValidAccessToken returns a usable token or "" when none is available.
	ValidAccessToken(ctx context.Context) string
	// RefreshAccessToken forces one refresh and returns the new token.
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Client calls the Dexcom data API. Every request goes through an explicit
// auth decorator composed here at construction time: inject the current
// token, and on a 401 perform exactly one refresh and one retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	mockMode   bool
}

// NewClient builds a client for the given API base URL.
func NewClient(baseURL string, tokens TokenProvider, mockMode bool) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		mockMode:   mockMode,
	}
}

// GlucoseValues fetches EGVs between start and end (Dexcom time format).
func (c *Client) GlucoseValues(ctx context.Context, startDate, endDate string) ([]GlucoseReading, error) {
	if c.mockMode {
		log.Printf("🧪 MOCK MODE: generating synthetic glucose data")
		return MockReadings(startDate, endDate)
	}

	query := url.Values{"startDate": {startDate}, "endDate": {endDate}}
	var body struct {
		EGVs    []GlucoseReading `json:"egvs"`
		Records []GlucoseReading `json:"records"`
	}
	if err := c.getJSON(ctx, "/v3/users/self/egvs", query, &body); err != nil {
		return nil, err
	}
	// v3 responses use "records"; older ones used "egvs".
	if body.EGVs != nil {
		return body.EGVs, nil
	}
	return body.Records, nil
}

// CurrentGlucose returns the most recent reading in the trailing 15-minute
// window, or nil when there is none.
func (c *Client) CurrentGlucose(ctx context.Context) (*GlucoseReading, error) {
	end := time.Now()
	start := end.Add(-15 * time.Minute)

	readings, err := c.GlucoseValues(ctx, FormatTime(start), FormatTime(end))
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[len(readings)-1], nil
}

// Devices lists the user's CGM devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	if c.mockMode {
		return MockDevices(), nil
	}

	var body struct {
		Devices []Device `json:"devices"`
	}
	if err := c.getJSON(ctx, "/v3/users/self/devices", nil, &body); err != nil {
		return nil, err
	}
	return body.Devices, nil
}

// DataRange returns the span of data available for the user.
func (c *Client) DataRange(ctx context.Context) (*DataRange, error) {
	if c.mockMode {
		return MockDataRange(), nil
	}

	var body DataRange
	if err := c.getJSON(ctx, "/v3/users/self/dataRange", nil, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.doAuthenticated(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Log the vendor body for diagnosis; surface only the status.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("❌ Dexcom API %s returned %d: %s", path, resp.StatusCode, detail)
		return fmt.Errorf("dexcom api returned %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// doAuthenticated is the auth decorator. The retry is bounded to depth 1 per
// logical request: a second 401 is returned as-is, and a failed refresh
// propagates the original failure unchanged.
func (c *Client) doAuthenticated(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	token := c.tokens.ValidAccessToken(ctx)
	resp, err := c.doRequest(ctx, path, query, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	newToken, err := c.tokens.RefreshAccessToken(ctx)
	if err != nil {
		log.Printf("❌ Token refresh after 401 failed, user needs to re-authenticate")
		return resp, nil
	}

	resp.Body.Close()
	log.Printf("🔄 Retrying %s with refreshed token", path)
	return c.doRequest(ctx, path, query, newToken)
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	return resp, nil
}
