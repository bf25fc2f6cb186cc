package skintile

import (
	"context"
	"image"

	"github.com/hashicorp/go-hclog"
)

type loadResult struct {
	gen uint64
	url string
	img image.Image
	err error
}

// Preloader tracks the background image of one tile. Begin starts a load
// in the background; Poll applies finished loads on the caller's goroutine.
// Every Begin bumps a generation counter and a result is only applied if
// it carries the current generation.
type Preloader struct {
	fetcher Fetcher
	logger  hclog.Logger

	url       string
	gen       uint64
	readiness Readiness
	img       image.Image
	cancel    context.CancelFunc

	results chan loadResult
	done    chan struct{}
	closed  bool

	stats preloadStats
}

type preloadStats struct {
	applied   int
	failed    int
	discarded int // stale or abandoned
}

// NewPreloader creates a Preloader with no image.
func NewPreloader(fetcher Fetcher, logger hclog.Logger) *Preloader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Preloader{
		fetcher: fetcher,
		logger:  logger,
		results: make(chan loadResult, 4),
		done:    make(chan struct{}),
	}
}

// Begin switches to url. The preloader is NotReady until url has been
// decoded. Calling Begin with the current url does nothing. It returns the
// readiness right after the call.
func (p *Preloader) Begin(url string) Readiness {
	if p.closed || (url == p.url && p.gen != 0) {
		return p.readiness
	}

	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	p.url = url
	p.readiness = NotReady
	p.img = nil

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	gen := p.gen
	p.logger.Debug("loading background", "url", url, "generation", gen)
	go func() {
		img, err := p.fetcher.Fetch(ctx, url)
		select {
		case p.results <- loadResult{gen: gen, url: url, img: img, err: err}:
		case <-p.done:
		}
	}()
	return p.readiness
}

// Poll applies every finished load without blocking.
func (p *Preloader) Poll() {
	for {
		select {
		case res := <-p.results:
			p.apply(res)
		default:
			return
		}
	}
}

func (p *Preloader) apply(res loadResult) {
	if p.closed || res.gen != p.gen {
		p.stats.discarded++
		p.logger.Trace("discarding stale load", "url", res.url, "generation", res.gen, "current", p.gen)
		return
	}
	if res.err != nil {
		// No retry. The tile keeps showing its placeholder.
		p.stats.failed++
		p.logger.Warn("background image failed to load", "url", res.url, "error", res.err)
		return
	}
	if res.img == nil {
		p.stats.failed++
		p.logger.Warn("fetcher returned no image", "url", res.url)
		return
	}
	p.stats.applied++
	p.img = res.img
	p.readiness = Ready
}

// Readiness reports whether the current URL has been decoded.
func (p *Preloader) Readiness() Readiness {
	return p.readiness
}

// Loading is Readiness() != Ready.
func (p *Preloader) Loading() bool {
	return p.readiness != Ready
}

// Image returns the decoded image of the current URL, or nil.
func (p *Preloader) Image() image.Image {
	return p.img
}

// URL returns the current URL.
func (p *Preloader) URL() string {
	return p.url
}

// Close abandons pending loads. Results arriving afterwards are dropped and
// their goroutines exit.
func (p *Preloader) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
	close(p.done)
}
