package orgsocial

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
)

// leveledSlog adapts slog to the retryablehttp logger interface
type leveledSlog struct {
	inner *slog.Logger
}

// Retried failures are reported as warnings
func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

// Fetcher downloads followed feeds
type Fetcher struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
}

type FetcherOption func(*Fetcher)

// WithTimeout bounds one FetchAll call
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithHTTPClient replaces the retrying client, used by tests
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher builds a fetcher on a retrying HTTP client with short retry
// windows suited to an interactive client.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	logger := slog.Default().With("subsystem", "fetcher")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger})

	client := retryClient.StandardClient()
	client.Timeout = 15 * time.Second

	f := &Fetcher{
		client:      client,
		userAgent:   ClientName,
		timeout:     10 * time.Second,
		concurrency: 8,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchFeed downloads and parses one social.org
func (f *Fetcher) FetchFeed(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	feed, err := Parse(resp.Body, url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	if feed.Profile.Nick == "" {
		for i := range feed.Posts {
			feed.Posts[i].Author = url
		}
	}
	return feed, nil
}

// FetchResult is the outcome of fetching one followed feed
type FetchResult struct {
	Follow Follow
	Feed   *Feed
	Err    error
}

// FetchAll downloads every followed feed concurrently within the fetcher
// timeout. A failing feed does not cancel the others; results keep the
// order of follows.
func (f *Fetcher) FetchAll(ctx context.Context, follows []Follow) []FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results := make([]FetchResult, len(follows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, follow := range follows {
		g.Go(func() error {
			feed, err := f.FetchFeed(gctx, follow.URL)
			if err != nil {
				f.logger.Warn("Feed fetch failed", "url", follow.URL, "error", err)
			} else {
				f.logger.Debug("Feed fetched", "url", follow.URL, "posts", len(feed.Posts))
			}
			results[i] = FetchResult{Follow: follow, Feed: feed, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
