package console

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/gateway"
)

type recordedQuery struct {
	mu      sync.Mutex
	queries []gateway.Query
}

func (r *recordedQuery) add(q gateway.Query) {
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
}

func (r *recordedQuery) all() []gateway.Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gateway.Query, len(r.queries))
	copy(out, r.queries)
	return out
}

func TestSearchIsDebouncedToOneRequest(t *testing.T) {
	t.Parallel()

	rec := &recordedQuery{}
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Booking, error) {
		rec.add(q)
		return nil, nil
	}, WithDebounceWindow(40*time.Millisecond))
	defer c.Close()

	ctx := context.Background()
	c.SetSearch(ctx, "Paris")
	time.Sleep(10 * time.Millisecond) // still inside the quiet window
	c.SetSearch(ctx, "Paris T")

	time.Sleep(150 * time.Millisecond)

	queries := rec.all()
	if len(queries) != 1 {
		t.Fatalf("requests = %d, want exactly 1", len(queries))
	}
	if got := queries[0].Search; got != "Paris T" {
		t.Fatalf("search = %q, want the final text %q", got, "Paris T")
	}
}

func TestFilterChangeResetsPageAndReloadsOnce(t *testing.T) {
	t.Parallel()

	rec := &recordedQuery{}
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Booking, error) {
		rec.add(q)
		return nil, nil
	}, WithDebounceWindow(20*time.Millisecond))
	defer c.Close()

	ctx := context.Background()
	if err := c.SetPage(ctx, 4); err != nil {
		t.Fatalf("set page: %v", err)
	}
	c.SetFilter(ctx, "status", "confirmed")

	time.Sleep(100 * time.Millisecond)

	queries := rec.all()
	if len(queries) != 2 { // page move + debounced filter reload
		t.Fatalf("requests = %d, want 2", len(queries))
	}
	last := queries[len(queries)-1]
	if last.Page != 1 {
		t.Fatalf("page = %d, want reset to 1", last.Page)
	}
	if last.Filters["status"] != "confirmed" {
		t.Fatalf("filters = %v", last.Filters)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		if q.Search == "slow" {
			<-release
			return []agency.Customer{{ID: "stale"}}, nil
		}
		return []agency.Customer{{ID: "fresh"}}, nil
	}, WithDebounceWindow(0))
	defer c.Close()

	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	c.mu.Lock()
	c.query.Search = "slow"
	c.mu.Unlock()
	go func() {
		defer wg.Done()
		_ = c.Load(ctx) // issued first, answers last
	}()
	time.Sleep(20 * time.Millisecond)

	c.mu.Lock()
	c.query.Search = "fast"
	c.mu.Unlock()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("fast load: %v", err)
	}

	close(release)
	wg.Wait()

	items := c.Items()
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("items = %+v, stale response must not overwrite fresher data", items)
	}
}

func TestSkeletonGatedByDelay(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		<-block
		return nil, nil
	}, WithSkeletonDelay(30*time.Millisecond))
	defer c.Close()

	done := make(chan struct{})
	go func() {
		_ = c.Load(context.Background())
		close(done)
	}()

	time.Sleep(80 * time.Millisecond)
	if !c.ShowSkeleton() {
		t.Fatalf("slow load must show the skeleton after the threshold")
	}

	close(block)
	<-done
	if c.ShowSkeleton() {
		t.Fatalf("skeleton must clear once the load resolves")
	}
}

func TestFastLoadNeverShowsSkeleton(t *testing.T) {
	t.Parallel()

	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		return nil, nil
	}, WithSkeletonDelay(50*time.Millisecond))
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if c.ShowSkeleton() {
		t.Fatalf("fast response must not flash a skeleton")
	}
}

func TestLoadFailureKeepsPriorCollection(t *testing.T) {
	t.Parallel()

	fail := false
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return []agency.Customer{{ID: "c1"}}, nil
	}, WithDebounceWindow(0))
	defer c.Close()

	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	fail = true
	if err := c.Load(ctx); err == nil {
		t.Fatalf("expected load failure")
	}

	if c.CurrentPhase() != PhaseFailure {
		t.Fatalf("phase = %v, want failure", c.CurrentPhase())
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID != "c1" {
		t.Fatalf("prior collection must stay intact, got %+v", items)
	}
}

func TestSubmitReloadsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		loads.Add(1)
		return nil, nil
	}, WithDebounceWindow(0))
	defer c.Close()

	ctx := context.Background()
	submitErr := errors.New("email already exists")
	if err := c.Submit(ctx, func(context.Context) error { return submitErr }); !errors.Is(err, submitErr) {
		t.Fatalf("err = %v, want the editor's error", err)
	}
	if loads.Load() != 0 {
		t.Fatalf("failed submit must not reload")
	}

	if err := c.Submit(ctx, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if loads.Load() != 1 {
		t.Fatalf("loads = %d, want 1 after success", loads.Load())
	}
}

func TestDeleteRequiresConfirmationAndFiltersOptimistically(t *testing.T) {
	t.Parallel()

	deleted := false
	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Customer, error) {
		return []agency.Customer{{ID: "c1"}, {ID: "c2"}}, nil
	}, WithDebounceWindow(0))
	defer c.Close()

	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := c.Delete(ctx, func() bool { return false },
		func(context.Context) error { deleted = true; return nil },
		func(customer agency.Customer) bool { return customer.ID == "c1" })
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if deleted {
		t.Fatalf("declined confirmation must not delete")
	}

	if err := c.Delete(ctx, func() bool { return true },
		func(context.Context) error { deleted = true; return nil },
		func(customer agency.Customer) bool { return customer.ID == "c1" }); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("confirmed delete must run")
	}
}

func TestUpdateStatusFallsBackToGenericUpdate(t *testing.T) {
	t.Parallel()

	c := NewController(func(ctx context.Context, q gateway.Query) ([]agency.Booking, error) {
		return nil, nil
	}, WithDebounceWindow(0))
	defer c.Close()

	ctx := context.Background()
	fallbackUsed := false
	err := c.UpdateStatus(ctx,
		func(context.Context) error { return &gateway.APIError{Status: 404, Message: "no status endpoint"} },
		func(context.Context) error { fallbackUsed = true; return nil })
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !fallbackUsed {
		t.Fatalf("fallback must run when the dedicated endpoint is unavailable")
	}

	err = c.UpdateStatus(ctx,
		func(context.Context) error { return errors.New("primary down") },
		func(context.Context) error { return errors.New("fallback down") })
	if !errors.Is(err, ErrStatusUpdateFailed) {
		t.Fatalf("err = %v, want ErrStatusUpdateFailed", err)
	}
}
