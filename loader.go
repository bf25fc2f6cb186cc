package skintile

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/webp" // Register WebP format
	"golang.org/x/sync/singleflight"
)

const (
	// UserAgent is sent with every HTTP image request.
	UserAgent = "skintile/1.0"

	// DefaultFetchTimeout bounds a single image request.
	DefaultFetchTimeout = 30 * time.Second
)

// Fetcher retrieves and decodes an image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (image.Image, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Timeout for a single request. If zero, DefaultFetchTimeout is used.
	Timeout time.Duration

	// Client is used for http and https URLs. If nil, a client with
	// Timeout is created.
	Client *http.Client

	Logger hclog.Logger
}

// Loader fetches images from http(s) URLs, file URLs and local paths.
// Concurrent requests for the same URL share a single fetch; nothing is
// kept once the fetch completes.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	logger  hclog.Logger
	group   singleflight.Group
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{
		client:  client,
		timeout: timeout,
		logger:  logger.Named("loader"),
	}
}

// Fetch implements Fetcher. The shared request is not tied to ctx, so one
// tile giving up does not fail the others waiting on the same URL.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	ch := l.group.DoChan(rawURL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.load(fetchCtx, rawURL)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Trace("shared in-flight fetch", "url", rawURL)
		}
		return res.Val.(image.Image), nil
	}
}

func (l *Loader) load(ctx context.Context, rawURL string) (image.Image, error) {
	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		data, err = l.fetchHTTP(ctx, rawURL)
	default:
		data, err = readFile(rawURL)
	}
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", rawURL, err)
	}
	l.logger.Debug("image loaded", "url", rawURL, "format", format,
		"size", img.Bounds().Size(), "elapsed", time.Since(start))
	return img, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func readFile(rawURL string) ([]byte, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %q: %w", rawURL, err)
		}
		path = u.Path
	}
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from the skin catalog
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}
