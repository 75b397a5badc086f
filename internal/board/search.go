package board

import (
	"context"
	"sync"
	"time"

	"github.com/masadamsahid/zol-track/internal/apps"
)

// DefaultDebounce is the pause after the last keystroke before a list
// request is issued.
const DefaultDebounce = 400 * time.Millisecond

// Lister fetches applications matching a filter. The real implementation is
// GET /applications behind the query contract.
type Lister interface {
	List(ctx context.Context, f apps.Filter) ([]apps.Application, error)
}

// SearchController debounces filter input and guards against out-of-order
// responses: each issued request carries a generation number, and a response
// is dropped unless its generation is still the latest. A slow stale
// response can therefore never overwrite a newer one — the guard is the
// token, not the timer.
type SearchController struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer

	delay    time.Duration
	lister   Lister
	onResult func(State)
	onError  func(error)
}

// NewSearchController returns a controller delivering fetched board states to
// onResult. onError may be nil; delay <= 0 falls back to DefaultDebounce.
func NewSearchController(lister Lister, delay time.Duration, onResult func(State), onError func(error)) *SearchController {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &SearchController{
		delay:    delay,
		lister:   lister,
		onResult: onResult,
		onError:  onError,
	}
}

// Query schedules a fetch for the given filter after the debounce window.
// Each call supersedes any pending or in-flight one.
func (c *SearchController) Query(ctx context.Context, f apps.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.fetch(ctx, gen, f)
	})
}

// Flush runs any pending query immediately. Used on explicit submit (Enter)
// and in tests.
func (c *SearchController) Flush(ctx context.Context, f apps.Filter) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.fetch(ctx, gen, f)
}

func (c *SearchController) fetch(ctx context.Context, gen uint64, f apps.Filter) {
	list, err := c.lister.List(ctx, f)

	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		if c.onError != nil {
			c.onError(err)
		}
		return
	}
	c.onResult(Build(list))
}
