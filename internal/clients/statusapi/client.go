// Package statusapi fetches status metadata from the remote lookup API
// (vxtwitter wire shape) and raw media bytes from their source URLs.
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

const defaultBaseURL = "https://api.vxtwitter.com"

// maxMediaBytes bounds a single media download; anything larger than this
// is not thumbnail material.
const maxMediaBytes = 32 << 20

type MediaSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type MediaDescriptor struct {
	URL  string    `json:"url"`
	Type string    `json:"type"`
	Size MediaSize `json:"size"`
}

type Status struct {
	UserName   string
	ScreenName string
	Text       string
	AvatarURL  string
	DateEpoch  int64
	Likes      int
	Replies    int
	Retweets   int
	Views      *int
	Media      []MediaDescriptor
}

// ImageMedia filters the attachments down to still images.
func (s *Status) ImageMedia() []MediaDescriptor {
	var out []MediaDescriptor
	for _, m := range s.Media {
		if strings.EqualFold(m.Type, "image") {
			out = append(out, m)
		}
	}
	return out
}

type Client interface {
	GetStatus(ctx context.Context, account, statusID string) (*Status, error)
	FetchMedia(ctx context.Context, mediaURL string) ([]byte, error)
}

type client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

func NewClient(log *logger.Logger) Client {
	return NewClientWithBaseURL(log, envutil.Str("STATUS_API_BASE_URL", defaultBaseURL))
}

func NewClientWithBaseURL(log *logger.Logger, baseURL string) Client {
	return &client{
		log:     log.With("client", "StatusAPI"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiStatus struct {
	UserName      string  `json:"user_name"`
	ScreenName    string  `json:"user_screen_name"`
	AvatarURL     string  `json:"user_profile_image_url"`
	Text          string  `json:"text"`
	DateEpoch     int64   `json:"date_epoch"`
	Likes         int     `json:"likes"`
	Replies       int     `json:"replies"`
	Retweets      int     `json:"retweets"`
	Views         *int    `json:"view_count"`
	MediaExtended []media `json:"media_extended"`
}

type media struct {
	URL  string    `json:"url"`
	Type string    `json:"type"`
	Size MediaSize `json:"size"`
}

func (c *client) GetStatus(ctx context.Context, account, statusID string) (*Status, error) {
	endpoint := fmt.Sprintf("%s/%s/status/%s",
		c.baseURL, url.PathEscape(account), url.PathEscape(statusID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status lookup returned %d for %s/%s", resp.StatusCode, account, statusID)
	}

	var raw apiStatus
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	out := &Status{
		UserName:   raw.UserName,
		ScreenName: raw.ScreenName,
		AvatarURL:  raw.AvatarURL,
		Text:       raw.Text,
		DateEpoch:  raw.DateEpoch,
		Likes:      raw.Likes,
		Replies:    raw.Replies,
		Retweets:   raw.Retweets,
		Views:      raw.Views,
	}
	for _, m := range raw.MediaExtended {
		out.Media = append(out.Media, MediaDescriptor(m))
	}
	return out, nil
}

func (c *client) FetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned %d for %s", resp.StatusCode, mediaURL)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}
	return data, nil
}
