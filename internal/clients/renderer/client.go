// Package renderer talks to the external headless-browser renderer that
// turns a page URL into screenshot bytes.
package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type Client interface {
	// Screenshot renders pageURL at the given viewport width and returns
	// the encoded image bytes.
	Screenshot(ctx context.Context, pageURL string, width int) ([]byte, error)
}

type client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	base := envutil.Str("RENDERER_BASE_URL", "")
	if base == "" {
		return nil, fmt.Errorf("missing env var RENDERER_BASE_URL")
	}
	return NewClientWithBaseURL(log, base), nil
}

func NewClientWithBaseURL(log *logger.Logger, baseURL string) Client {
	return &client{
		log:     log.With("client", "Renderer"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *client) Screenshot(ctx context.Context, pageURL string, width int) ([]byte, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	if width > 0 {
		q.Set("width", strconv.Itoa(width))
	}
	endpoint := fmt.Sprintf("%s/screenshot?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build screenshot request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screenshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned %d for %s", resp.StatusCode, pageURL)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read screenshot body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("renderer returned empty body for %s", pageURL)
	}
	return data, nil
}
