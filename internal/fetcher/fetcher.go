// Package fetcher retrieves the HTML document under assessment with an
// explicit timeout budget and normalizes failure modes into typed errors.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrTimeout reports that the fetch exceeded its timeout budget.
var ErrTimeout = errors.New("fetcher: request timed out")

// ErrInvalidURL reports unusable caller input. Unlike the other fetch
// failures this one is not recoverable by degrading the assessment.
var ErrInvalidURL = errors.New("fetcher: invalid url")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d", e.Code)
}

// NetworkError reports a transport-level failure (DNS, connect, TLS, reset).
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return "fetcher: network error: " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// Document is the fetched page plus the measurements the scorers need.
// Immutable once returned; discarded after feature extraction.
type Document struct {
	URL     string
	HTML    string
	Latency time.Duration
	Secure  bool
}

// Options configures the HTTP fetcher.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Limiter   *rate.Limiter
}

// HTTPFetcher fetches documents over HTTP. It performs exactly one attempt
// per call; retry policy belongs to the caller.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; MaruWebsiteAudit/1.0)"
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(20, 20)
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: limiter,
	}
}

// Fetch retrieves rawURL, returning the document with its fetch latency.
// The request is cancelled once the timeout budget elapses.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetcher: rate limiter wait")
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidURL, err.Error())
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			zap.L().Warn("fetcher: timed out",
				zap.String("url", normalized),
				zap.Duration("budget", f.opts.Timeout),
			)
			return nil, ErrTimeout
		}
		return nil, &NetworkError{Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &NetworkError{Cause: err}
	}
	latency := time.Since(start)

	zap.L().Debug("fetcher: document retrieved",
		zap.String("url", normalized),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", latency),
	)

	return &Document{
		URL:     normalized,
		HTML:    string(body),
		Latency: latency,
		Secure:  strings.HasPrefix(normalized, "https://"),
	}, nil
}

// NormalizeURL validates rawURL and defaults to secure transport when the
// scheme is missing.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", eris.Wrap(ErrInvalidURL, "empty url")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", eris.Wrap(ErrInvalidURL, rawURL)
	}
	return parsed.String(), nil
}
