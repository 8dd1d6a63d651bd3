// Package forms relays lead-capture submissions (contact, volunteer, newsletter) to
// the hosted forms service.
package forms

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
)

var ErrNotConfigured = errors.New("form is not configured")

// Client posts submissions to {baseURL}/f/{formID}.
type Client struct {
	baseURL string
	ids     map[string]string
	http    *http.Client
}

// NewClient takes the form name to form id mapping. Names with an empty id are treated
// as unconfigured.
func NewClient(baseURL string, ids map[string]string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ids:     ids,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the named form has an id.
func (c *Client) Configured(name string) bool {
	return c.ids[name] != ""
}

// Submit forwards payload as JSON. Any non-2xx answer is an error.
func (c *Client) Submit(ctx context.Context, name string, payload any) error {
	id := c.ids[name]
	if id == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s form: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/f/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit %s form: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("submit %s form: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
