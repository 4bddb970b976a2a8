package dataset

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DownloadOptions configures the Downloader.
type DownloadOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int // retries after the first attempt; 0 means a single attempt
	RatePerSec float64
	BaseDelay  time.Duration // first retry delay, doubled per attempt
}

// Downloader fetches the occupation file over HTTP with rate limiting and
// retries on transport errors, 429 and 5xx responses.
type Downloader struct {
	client  *http.Client
	opts    DownloadOptions
	limiter *rate.Limiter
}

// NewDownloader creates a Downloader, filling zero options with defaults.
func NewDownloader(opts DownloadOptions) *Downloader {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "career-explorer/1.0"
	}
	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

// DownloadToFile fetches url and atomically writes the body to path.
// Returns bytes written.
func (d *Downloader) DownloadToFile(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, eris.Wrap(err, "download: create request")
	}
	req.Header.Set("User-Agent", d.opts.UserAgent)

	resp, err := d.doWithRetry(ctx, req)
	if err != nil {
		return 0, eris.Wrapf(err, "download: %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("download: unexpected status %d from %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, eris.Wrap(err, "download: create temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return n, eris.Wrap(err, "download: write body")
	}
	if err := tmp.Close(); err != nil {
		return n, eris.Wrap(err, "download: close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return n, eris.Wrapf(err, "download: move to %s", path)
	}

	zap.L().Info("dataset downloaded", zap.String("url", url), zap.String("path", path), zap.Int64("bytes", n))
	return n, nil
}

func (d *Downloader) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	attempts := d.opts.MaxRetries + 1
	for attempt := range attempts {
		if attempt > 0 {
			d.backoff(ctx, attempt-1)
		}
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		resp, err := d.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("download request failed",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("download server error",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

func (d *Downloader) backoff(ctx context.Context, attempt int) {
	delay := time.Duration(float64(d.opts.BaseDelay) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	if half := int64(delay) / 2; half > 0 {
		delay += time.Duration(rand.Int64N(half))
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
