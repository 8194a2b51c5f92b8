package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error reports a relay that is unreachable or returned a non-success
// status.
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relay unreachable: %v", e.Err)
	}
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Client posts feed URLs to a relay server and returns the normalized rows.
type Client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRows asks the relay to fetch and normalize feedURL, returning the
// plaintext CSV rows.
func (c *Client) FetchRows(ctx context.Context, feedURL string) (string, error) {
	body, err := json.Marshal(parseRequest{URL: feedURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/parse-rss", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", &Error{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Status: resp.StatusCode, Msg: strings.TrimSpace(string(data))}
	}
	return string(data), nil
}
