package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"beholder/internal/config"
)

type trackerClient struct {
	baseURL string
	key     string
	token   string
	client  *http.Client
}

func newTrackerClient(cfg config.Tracker) *trackerClient {
	return &trackerClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.Key,
		token:   cfg.Token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *trackerClient) postComment(ctx context.Context, ref, text string) error {
	if text == "" {
		text = "Failed to retrieve comment text."
	}
	endpoint := fmt.Sprintf("%s/1/cards/%s/actions/comments", c.baseURL, url.PathEscape(ref))
	params := c.authParams()
	params.Set("text", text)
	return c.do(ctx, http.MethodPost, endpoint, params)
}

func (c *trackerClient) moveCard(ctx context.Context, ref, listID string) error {
	endpoint := fmt.Sprintf("%s/1/cards/%s", c.baseURL, url.PathEscape(ref))
	params := c.authParams()
	params.Set("idList", listID)
	return c.do(ctx, http.MethodPut, endpoint, params)
}

func (c *trackerClient) authParams() url.Values {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("token", c.token)
	return params
}

func (c *trackerClient) do(ctx context.Context, method, endpoint string, params url.Values) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send tracker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tracker returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
