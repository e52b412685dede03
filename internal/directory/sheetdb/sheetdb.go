// Package sheetdb implements the Login Directory on top of the SheetDB REST API
// (a spreadsheet exposed as a JSON table).
package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to one SheetDB table.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	now func() time.Time
}

var _ directory.Directory = (*Client)(nil)

// NewClient returns a client for the table at baseURL, e.g. https://sheetdb.io/api/v1/<id>.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// CreateRecord appends a row {username, time}.
func (c *Client) CreateRecord(ctx context.Context, identity domain.Identity) error {
	raw, err := json.Marshal(directory.NewRecord(identity, c.now()))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// Exists searches rows by username.
func (c *Client) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	q := url.Values{"username": {identity.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}

	var rows []map[string]any
	if err := c.do(req, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// DeleteRecord deletes every row whose username column equals identity.
func (c *Client) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	endpoint := c.BaseURL + "/username/" + url.QueryEscape(identity.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sheetdb: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sheetdb: decode response: %w", err)
	}
	return nil
}
