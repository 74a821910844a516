// Package renderdeploy triggers Render deploy hooks so the public
// verification site picks up newly backed-up registrations.
package renderdeploy

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
	hookURL    string
}

func NewClient(hookURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		hookURL:    hookURL,
	}
}

// Configured reports whether a deploy hook is set; deploys are skipped
// entirely when it is not.
func (c *Client) Configured() bool {
	return c.hookURL != ""
}

func (c *Client) Trigger(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.hookURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("triggering deploy hook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("triggering deploy hook: unexpected status %s", resp.Status)
	}
	return nil
}
