package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/gateway"
)

type stubFeed struct {
	mu           sync.Mutex
	unread       int
	unreadErr    error
	countCalls   int
	markAllCalls int
	items        []agency.Notification
}

func (s *stubFeed) UnreadCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	return s.unread, s.unreadErr
}

func (s *stubFeed) Notifications(ctx context.Context, q gateway.Query) ([]agency.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items, nil
}

func (s *stubFeed) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unread > 0 {
		s.unread--
	}
	return nil
}

func (s *stubFeed) MarkAllNotificationsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markAllCalls++
	s.unread = 0
	return nil
}

func (s *stubFeed) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCalls
}

func TestPollerRefreshesOnInterval(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{unread: 3}
	p := NewPoller(feed, WithInterval(20*time.Millisecond))
	defer p.Stop()

	p.Start(context.Background())
	time.Sleep(90 * time.Millisecond)

	if p.Unread() != 3 {
		t.Fatalf("unread = %d, want 3", p.Unread())
	}
	if feed.calls() < 2 {
		t.Fatalf("count calls = %d, want at least initial poll plus one tick", feed.calls())
	}
}

func TestPollerStopsWhenIdentityGone(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{unread: 1}
	var mu sync.Mutex
	loggedIn := true
	p := NewPoller(feed,
		WithInterval(15*time.Millisecond),
		WithActiveCheck(func() bool { mu.Lock(); defer mu.Unlock(); return loggedIn }),
	)
	defer p.Stop()

	p.Start(context.Background())
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	loggedIn = false
	mu.Unlock()
	time.Sleep(40 * time.Millisecond)
	settled := feed.calls()
	time.Sleep(60 * time.Millisecond)

	if feed.calls() != settled {
		t.Fatalf("polling must stop once the identity is gone")
	}
}

func TestPollFailureKeepsPreviousCount(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{unread: 5}
	p := NewPoller(feed, WithInterval(time.Hour))
	defer p.Stop()

	p.poll(context.Background())
	if p.Unread() != 5 {
		t.Fatalf("unread = %d, want 5", p.Unread())
	}

	feed.mu.Lock()
	feed.unreadErr = errors.New("backend down")
	feed.mu.Unlock()
	p.poll(context.Background())

	if p.Unread() != 5 {
		t.Fatalf("failed poll must keep the previous count, got %d", p.Unread())
	}
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{unread: 4, items: []agency.Notification{{ID: "n1"}, {ID: "n2"}}}
	p := NewPoller(feed, WithInterval(time.Hour))
	defer p.Stop()

	ctx := context.Background()
	p.poll(ctx)
	if err := p.RefreshFeed(ctx, gateway.Query{}); err != nil {
		t.Fatalf("refresh feed: %v", err)
	}

	if err := p.MarkAllRead(ctx); err != nil {
		t.Fatalf("first mark all read: %v", err)
	}
	if p.Unread() != 0 {
		t.Fatalf("unread = %d, want 0", p.Unread())
	}

	if err := p.MarkAllRead(ctx); err != nil {
		t.Fatalf("second mark all read must not error: %v", err)
	}
	if p.Unread() != 0 {
		t.Fatalf("unread = %d, want 0 after the second call too", p.Unread())
	}
	for _, item := range p.Items() {
		if !item.Read {
			t.Fatalf("all items must be read: %+v", item)
		}
	}
}

func TestMarkReadDecrementsCounter(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{unread: 2, items: []agency.Notification{{ID: "n1"}}}
	p := NewPoller(feed, WithInterval(time.Hour))
	defer p.Stop()

	ctx := context.Background()
	p.poll(ctx)
	if err := p.RefreshFeed(ctx, gateway.Query{}); err != nil {
		t.Fatalf("refresh feed: %v", err)
	}

	if err := p.MarkRead(ctx, "n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if p.Unread() != 1 {
		t.Fatalf("unread = %d, want 1", p.Unread())
	}
	if items := p.Items(); !items[0].Read {
		t.Fatalf("item must flip to read")
	}
}
