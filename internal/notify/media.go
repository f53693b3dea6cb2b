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

type mediaClient struct {
	baseURL string
	token   string
	library string
	client  *http.Client
}

func newMediaClient(cfg config.MediaServer) *mediaClient {
	return &mediaClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		library: cfg.Library,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *mediaClient) refresh(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/library/sections/%s/refresh", c.baseURL, url.PathEscape(c.library))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("X-Media-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh media library: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("media server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
