// Package notify polls the notification feed for the current identity.
// There is no push channel; the unread count refreshes on a fixed interval
// and the poller is torn down when its owner stops it or the identity goes
// away.
package notify

import (
	"context"
	"sync"
	"time"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/gateway"
	"tripdesk.io/internal/obs"
)

// DefaultInterval between unread-count refreshes.
const DefaultInterval = 60 * time.Second

// Feed is the slice of the gateway the poller needs.
type Feed interface {
	UnreadCount(ctx context.Context) (int, error)
	Notifications(ctx context.Context, q gateway.Query) ([]agency.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Poller owns the unread counter and the fetched feed.
type Poller struct {
	mu       sync.Mutex
	feed     Feed
	interval time.Duration
	active   func() bool

	unread int
	items  []agency.Notification

	stopOnce sync.Once
	stop     chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides the refresh interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithActiveCheck gates polling on an identity being present; when the
// check turns false the polling loop exits.
func WithActiveCheck(fn func() bool) PollerOption {
	return func(p *Poller) { p.active = fn }
}

// NewPoller creates a poller over the feed.
func NewPoller(feed Feed, opts ...PollerOption) *Poller {
	p := &Poller{feed: feed, interval: DefaultInterval, stop: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start polls immediately, then on every tick until Stop, context
// cancellation or the identity going away. In-flight requests are not
// cancelled on teardown; only future ticks stop.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		p.poll(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				if p.active != nil && !p.active() {
					return
				}
				p.poll(ctx)
			}
		}
	}()
}

// Stop tears the polling loop down. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Unread returns the last fetched unread count.
func (p *Poller) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

// Items returns a copy of the last fetched feed.
func (p *Poller) Items() []agency.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]agency.Notification, len(p.items))
	copy(out, p.items)
	return out
}

// RefreshFeed fetches the notification list itself, for the dropdown view.
func (p *Poller) RefreshFeed(ctx context.Context, q gateway.Query) error {
	items, err := p.feed.Notifications(ctx, q)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return nil
}

// MarkRead marks one notification read and decrements the counter.
func (p *Poller) MarkRead(ctx context.Context, id string) error {
	if err := p.feed.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	if p.unread > 0 {
		p.unread--
	}
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].Read = true
		}
	}
	p.mu.Unlock()
	return nil
}

// MarkAllRead zeroes the counter. Calling it again when everything is
// already read is a no-op on the backend and stays at zero here.
func (p *Poller) MarkAllRead(ctx context.Context) error {
	if err := p.feed.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	p.unread = 0
	for i := range p.items {
		p.items[i].Read = true
	}
	p.mu.Unlock()
	return nil
}

// poll refreshes the unread count. Failures keep the previous value on
// screen and are only logged.
func (p *Poller) poll(ctx context.Context) {
	count, err := p.feed.UnreadCount(ctx)
	if err != nil {
		obs.LogEvent(map[string]any{"level": "warn", "msg": "notification poll failed", "error": err.Error()})
		return
	}
	p.mu.Lock()
	p.unread = count
	p.mu.Unlock()
}
