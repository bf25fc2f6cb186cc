package skintile

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

type fetchOutcome struct {
	img image.Image
	err error
}

// gateFetcher blocks every Fetch until the test releases that URL. It
// ignores cancellation so a superseded load can still complete, the way a
// decode that was already under way would.
type gateFetcher struct {
	mu       sync.Mutex
	gates    map[string]chan fetchOutcome
	calls    map[string]int
	returned map[string]int
}

func newGateFetcher() *gateFetcher {
	return &gateFetcher{
		gates:    make(map[string]chan fetchOutcome),
		calls:    make(map[string]int),
		returned: make(map[string]int),
	}
}

func (f *gateFetcher) gate(url string) chan fetchOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[url]
	if !ok {
		ch = make(chan fetchOutcome, 8)
		f.gates[url] = ch
	}
	return ch
}

func (f *gateFetcher) Fetch(_ context.Context, url string) (image.Image, error) {
	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()

	o := <-f.gate(url)

	f.mu.Lock()
	f.returned[url]++
	f.mu.Unlock()
	return o.img, o.err
}

func (f *gateFetcher) complete(url string) {
	f.gate(url) <- fetchOutcome{img: testImage()}
}

func (f *gateFetcher) fail(url string, err error) {
	f.gate(url) <- fetchOutcome{err: err}
}

func (f *gateFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *gateFetcher) returnedCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.returned[url]
}

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	return img
}

// eventually polls cond until it holds or two seconds pass.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

type scrollCall struct {
	rect image.Rectangle
	opts ScrollOptions
}

type recordingScroller struct {
	calls []scrollCall
}

func (s *recordingScroller) ScrollIntoView(r image.Rectangle, opts ScrollOptions) {
	s.calls = append(s.calls, scrollCall{rect: r, opts: opts})
}

type clickLog struct {
	skins   []SkinID
	chromas [][2]int64
}

func (c *clickLog) onSkin(id SkinID) {
	c.skins = append(c.skins, id)
}

func (c *clickLog) onChroma(skin SkinID, chroma ChromaID) {
	c.chromas = append(c.chromas, [2]int64{int64(skin), int64(chroma)})
}
