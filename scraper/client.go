// Package scraper reads play-by-play feeds from basketball.bg game pages.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RyanBlaney/courtside/logging"
	"github.com/RyanBlaney/courtside/plays"
)

const (
	defaultBaseURL     = "https://comps.basketball.bg"
	defaultUserAgent   = "courtside/dev"
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 3
	defaultRetryDelay  = 2 * time.Second
	playPath           = "game_play.inc.php"
)

// Config describes the scraper client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	Retries    int
	// RetryDelay zero uses the default; negative retries immediately.
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// Client fetches and parses game pages.
type Client struct {
	baseURL    *url.URL
	userAgent  string
	retries    int
	retryDelay time.Duration
	http       *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("scraper: parse base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	retries := cfg.Retries
	if retries < 1 {
		retries = defaultRetries
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = 0
	} else if delay == 0 {
		delay = defaultRetryDelay
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		retries:    retries,
		retryDelay: delay,
		http:       client,
	}, nil
}

// GameURL returns the play-by-play page address for a game.
func (c *Client) GameURL(gameID string) string {
	endpoint := c.baseURL.JoinPath(playPath)
	endpoint.RawQuery = url.Values{"g_id": {gameID}}.Encode()
	return endpoint.String()
}

// Scrape fetches a game page and returns its events in page order.
func (c *Client) Scrape(ctx context.Context, gameID string) ([]plays.Event, error) {
	if c == nil {
		return nil, errors.New("scraper: client is nil")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, errors.New("scraper: game id is required")
	}

	body, err := c.fetch(ctx, c.GameURL(gameID))
	if err != nil {
		return nil, err
	}

	events, err := Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scraper: game %s: %w", gameID, err)
	}

	logging.Info("Play-by-play scraped", logging.Fields{
		"component": "scraper",
		"game_id":   gameID,
		"events":    len(events),
	})
	return events, nil
}

func (c *Client) fetch(ctx context.Context, target string) (string, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "scraper",
		"function":  "fetch",
		"url":       target,
	})

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		body, err := c.get(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == c.retries {
			break
		}

		logger.Warn("Request failed, retrying", logging.Fields{
			"attempt": attempt,
			"error":   err.Error(),
			"delay":   c.retryDelay.String(),
		})
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return "", fmt.Errorf("scraper: fetch %s after %d attempts: %w", target, c.retries, lastErr)
}

func (c *Client) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
