// Package sources holds the upstream contest adapters and the HTTP fetcher
// they share.
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/utils"
)

// Source produces raw contests for one platform.
type Source interface {
	Platform() domain.Platform
	Fetch(ctx context.Context) ([]domain.RawContest, error)
}

// maxBody caps how much of an upstream response is read.
const maxBody = 8 << 20

// StatusError is returned when upstream answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.Code)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Timeout   time.Duration // per attempt
	Retries   int           // total attempts, at least 1
	RetryWait time.Duration // grows linearly with the attempt number
	UserAgent string
}

// Fetcher performs JSON requests with retries on transport errors,
// 429 and 5xx answers. Other 4xx answers fail immediately.
type Fetcher struct {
	client *http.Client
	opts   FetcherOptions
	log    logger.Logger
}

func NewFetcher(opts FetcherOptions, log logger.Logger) *Fetcher {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		log:    log,
	}
}

// GetJSON fetches url and decodes the body into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	return f.do(ctx, http.MethodGet, url, nil, out)
}

// PostJSON sends payload as JSON and decodes the answer into out.
func (f *Fetcher) PostJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return f.do(ctx, http.MethodPost, url, body, out)
}

func (f *Fetcher) do(ctx context.Context, method, url string, payload []byte, out any) error {
	var lastErr error

	for attempt := 1; attempt <= f.opts.Retries; attempt++ {
		if attempt > 1 {
			wait := f.opts.RetryWait * time.Duration(attempt-1)
			f.log.Debug("retrying upstream request",
				logger.String("url", url),
				logger.Int("attempt", attempt),
				logger.Duration("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return fmt.Errorf("%s %s: %w (last error: %v)", method, url, err, lastErr)
			}
		}

		body, err := f.once(ctx, method, url, payload)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", url, err)
			}
			return nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		f.log.Warn("upstream request failed",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.Error(err))
	}

	return fmt.Errorf("%s %s failed after %d attempts: %w", method, url, f.opts.Retries, lastErr)
}

func (f *Fetcher) once(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.CloseLogged(resp.Body, f.log, "response body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
