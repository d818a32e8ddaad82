// Package wikipedia fetches English Wikipedia articles and turns them into
// paragraph documents.
package wikipedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wikichat/internal/domain"
)

// SourceName is shown to users next to the article title.
const SourceName = "Wikipedia"

const maxPageBytes = 8 << 20

var errNotFound = errors.New("no such article")

// Config holds the client settings. Zero values select defaults.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerOpen is how long the breaker stays open before a trial request.
	BreakerOpen time.Duration
	HTTPClient  *http.Client
}

// Client is a rate-limited, circuit-broken article fetcher.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

var _ domain.Source = (*Client)(nil)

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://en.wikipedia.org/wiki/"
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "wikichat/1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerOpen == 0 {
		cfg.BreakerOpen = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      hc,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "wikipedia",
		Timeout: cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
		IsSuccessful: func(err error) bool {
			// a missing article says nothing about the health of the site
			return err == nil || errors.Is(err, errNotFound)
		},
	})
	return c
}

// ArticleName turns a free-form topic into an article path segment:
// lowercased, first letter capitalised, words joined with underscores.
func ArticleName(topic string) string {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return ""
	}
	r, size := utf8.DecodeRuneInString(words[0])
	words[0] = string(unicode.ToUpper(r)) + words[0][size:]
	return strings.Join(words, "_")
}

// Fetch downloads the article for topic and extracts its paragraphs.
// Every failure wraps domain.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context, topic string) (domain.Document, error) {
	name := ArticleName(topic)
	if name == "" {
		return domain.Document{}, fmt.Errorf("%w: empty topic", domain.ErrSourceUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, name)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return domain.Document{}, fmt.Errorf("%w: no article named %q", domain.ErrSourceUnavailable, name)
		}
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	title, paragraphs, err := Extract(bytes.NewReader(res.([]byte)))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: parse %s: %v", domain.ErrSourceUnavailable, name, err)
	}
	if title == "" {
		title = strings.ReplaceAll(name, "_", " ")
	}
	c.logger.Info("fetched article",
		zap.String("article", name),
		zap.String("title", title),
		zap.Int("paragraphs", len(paragraphs)),
		zap.Duration("elapsed", time.Since(start)))
	return domain.Document{Source: SourceName, Title: title, Paragraphs: paragraphs}, nil
}

func (c *Client) get(ctx context.Context, name string) ([]byte, error) {
	link := c.baseURL + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s failed: %s", link, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}
