// Package console implements the interaction pattern every resource page
// repeats: debounced search, filter state, server-driven pagination,
// delay-gated loading presentation and mutation flows that reload the
// current query on success.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tripdesk.io/internal/gateway"
)

var (
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("console: cancelled")
	// ErrStatusUpdateFailed reports that both the dedicated status endpoint
	// and the generic-update fallback failed.
	ErrStatusUpdateFailed = errors.New("console: status update failed")
)

const (
	// DefaultDebounceWindow is the quiet gap after the last keystroke
	// before a search fires.
	DefaultDebounceWindow = 300 * time.Millisecond
	// DefaultSkeletonDelay gates the slow-loading indicator: responses
	// faster than this never flash a skeleton.
	DefaultSkeletonDelay = 400 * time.Millisecond
)

// Phase of a page's load cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

// Fetcher loads one page of records for a query. The gateway's typed list
// methods fit directly.
type Fetcher[T any] func(ctx context.Context, q gateway.Query) ([]T, error)

type settings struct {
	debounce time.Duration
	skeleton time.Duration
	pageSize int
}

// ControllerOption configures a Controller.
type ControllerOption func(*settings)

// WithDebounceWindow overrides the search debounce window.
func WithDebounceWindow(d time.Duration) ControllerOption {
	return func(s *settings) { s.debounce = d }
}

// WithSkeletonDelay overrides the slow-loading threshold.
func WithSkeletonDelay(d time.Duration) ControllerOption {
	return func(s *settings) { s.skeleton = d }
}

// WithPageSize overrides the fixed page size.
func WithPageSize(n int) ControllerOption {
	return func(s *settings) { s.pageSize = n }
}

// Controller owns one page's collection and query state. Loads carry a
// monotonically increasing request token; a response whose token is no
// longer the latest is discarded, so the last issued request always wins
// even when an earlier, slower response arrives late.
type Controller[T any] struct {
	mu    sync.Mutex
	fetch Fetcher[T]

	query gateway.Query
	items []T
	phase Phase
	err   error

	seq           atomic.Uint64
	debounce      *Debouncer
	skeletonAfter time.Duration
	skeletonTimer *time.Timer
	showSkeleton  bool
}

// NewController creates a controller around a fetcher.
func NewController[T any](fetch Fetcher[T], opts ...ControllerOption) *Controller[T] {
	cfg := settings{
		debounce: DefaultDebounceWindow,
		skeleton: DefaultSkeletonDelay,
		pageSize: gateway.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller[T]{
		fetch:         fetch,
		query:         gateway.Query{Page: 1, Limit: cfg.pageSize},
		debounce:      NewDebouncer(cfg.debounce),
		skeletonAfter: cfg.skeleton,
	}
}

// Load runs the current query immediately: initial mount and explicit
// refresh actions.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.load(ctx)
}

// Refresh is an alias for Load kept for call-site readability after
// mutations.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

// SetSearch updates the free-text search, resets to page 1 and schedules a
// debounced reload.
func (c *Controller[T]) SetSearch(ctx context.Context, text string) {
	c.mu.Lock()
	c.query.Search = text
	c.query.Page = 1
	c.mu.Unlock()
	c.debounce.Trigger(func() { _ = c.load(ctx) })
}

// SetFilter updates one filter field, resets to page 1 and schedules a
// debounced reload. An empty value removes the filter entirely.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	c.query = c.query.WithFilter(key, value)
	c.query.Page = 1
	c.mu.Unlock()
	c.debounce.Trigger(func() { _ = c.load(ctx) })
}

// SetSort updates the sort field and order, resets to page 1 and schedules a debounced
// reload.
func (c *Controller[T]) SetSort(ctx context.Context, field, order string) {
	c.mu.Lock()
	c.query.SortBy = field
	c.query.SortOrder = order
	c.query.Page = 1
	c.mu.Unlock()
	c.debounce.Trigger(func() { _ = c.load(ctx) })
}

// SetPage moves the pagination cursor and reloads immediately.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.query.Page = page
	c.mu.Unlock()
	return c.load(ctx)
}

// Close stops pending debounced work. In-flight requests are not cancelled;
// their responses are discarded by the token guard.
func (c *Controller[T]) Close() {
	c.debounce.Stop()
}

// Items returns a copy of the displayed collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// CurrentPhase returns the load-cycle phase.
func (c *Controller[T]) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Err returns the last load error, nil after a successful load.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ShowSkeleton reports whether the current load has run past the
// slow-loading threshold. Fast responses resolve before the gate opens, so
// nothing flickers.
func (c *Controller[T]) ShowSkeleton() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showSkeleton
}

// Query returns the current query state.
func (c *Controller[T]) Query() gateway.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Submit runs a create or update produced by an editor and reloads the
// current query on success. On failure the error is returned untouched so
// the editor can stay open and display it.
func (c *Controller[T]) Submit(ctx context.Context, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Delete runs a delete after interactive confirmation. On success matching
// records are filtered out of the in-memory collection immediately, then
// the query reloads to converge with the backend.
func (c *Controller[T]) Delete(ctx context.Context, confirm func() bool, del func(context.Context) error, match func(T) bool) error {
	if confirm == nil || !confirm() {
		return ErrCancelled
	}
	if err := del(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// UpdateStatus attempts the dedicated status endpoint and falls back to a
// generic update carrying just the status field. Auth failures are terminal
// and never retried through the fallback.
func (c *Controller[T]) UpdateStatus(ctx context.Context, primary, fallback func(context.Context) error) error {
	err := primary(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return err
		}
		if fbErr := fallback(ctx); fbErr != nil {
			return fmt.Errorf("%w: %s; %s", ErrStatusUpdateFailed, err, fbErr)
		}
	}
	return c.Refresh(ctx)
}

func (c *Controller[T]) load(ctx context.Context) error {
	token := c.seq.Add(1)

	c.mu.Lock()
	c.phase = PhaseLoading
	c.showSkeleton = false
	if c.skeletonTimer != nil {
		c.skeletonTimer.Stop()
	}
	c.skeletonTimer = time.AfterFunc(c.skeletonAfter, func() {
		c.mu.Lock()
		if c.phase == PhaseLoading && c.seq.Load() == token {
			c.showSkeleton = true
		}
		c.mu.Unlock()
	})
	q := c.query
	c.mu.Unlock()

	items, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq.Load() != token {
		// A newer request has been issued since; this response is stale
		// and must not overwrite fresher data.
		return nil
	}
	c.skeletonTimer.Stop()
	c.showSkeleton = false
	if err != nil {
		c.phase = PhaseFailure
		c.err = err
		// The prior collection stays on screen.
		return err
	}
	c.phase = PhaseSuccess
	c.err = nil
	c.items = items
	return nil
}
