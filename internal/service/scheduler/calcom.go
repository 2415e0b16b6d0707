package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultCalBaseURL = "https://api.cal.com/v2"

// Calendar executes scheduling actions against an external provider. The
// provider's slot granularity and time-zone rules are opaque here.
type Calendar interface {
	CheckAvailability(ctx context.Context, window AvailabilityWindow) (json.RawMessage, error)
	BookMeeting(ctx context.Context, booking Booking) (json.RawMessage, error)
}

// CalClient talks to the Cal.com v2 HTTP API.
type CalClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCalClient(baseURL, apiKey string, timeout time.Duration) *CalClient {
	if baseURL == "" {
		baseURL = defaultCalBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CalClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *CalClient) CheckAvailability(ctx context.Context, window AvailabilityWindow) (json.RawMessage, error) {
	query := url.Values{
		"startTime": {window.StartWindow.UTC().Format(time.RFC3339)},
		"endTime":   {window.EndWindow.UTC().Format(time.RFC3339)},
	}
	return c.do(ctx, http.MethodGet, "/slots/available?"+query.Encode(), nil)
}

func (c *CalClient) BookMeeting(ctx context.Context, booking Booking) (json.RawMessage, error) {
	payload := map[string]any{
		"start": booking.Start.UTC().Format(time.RFC3339),
		"end":   booking.End.UTC().Format(time.RFC3339),
		"attendee": map[string]string{
			"name":  booking.Name,
			"email": booking.Email,
		},
	}
	if booking.Title != "" {
		payload["title"] = booking.Title
	}
	return c.do(ctx, http.MethodPost, "/bookings", payload)
}

func (c *CalClient) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode calendar request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar provider returned status %d", resp.StatusCode)
	}
	return json.RawMessage(raw), nil
}
