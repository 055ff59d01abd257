package catalog

import (
	"context"
	"sync"
	"testing"
)

func seed(t *testing.T, m *MemoryProductsModel, id, owner string) {
	t.Helper()
	if err := m.Insert(context.Background(), &Products{Id: id, UserId: owner, Title: "Desk", Price: 50, Status: StatusAvailable}); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestConcurrentReserveHasOneWinner(t *testing.T) {
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")

	const n = 64
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[Outcome]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := m.Reserve(context.Background(), "p1", "s1", "")
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			mu.Lock()
			outcomes[o]++
			mu.Unlock()
		}()
	}
	wg.Wait()
	if outcomes[Applied] != 1 || outcomes[Conflict] != n-1 {
		t.Fatalf("unexpected outcomes: %v", outcomes)
	}
}

func TestReserveChecksOwner(t *testing.T) {
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")
	if o, _ := m.Reserve(context.Background(), "p1", "intruder", "o1"); o != Conflict {
		t.Fatalf("expected conflict, got %v", o)
	}
	if o, _ := m.Reserve(context.Background(), "missing", "s1", "o1"); o != NotFound {
		t.Fatalf("expected not found, got %v", o)
	}
	p, _ := m.FindOne(context.Background(), "p1")
	if p.Status != StatusAvailable {
		t.Fatalf("owner mismatch changed status to %s", p.Status)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")
	if o, _ := m.Reserve(ctx, "p1", "s1", "o1"); o != Applied {
		t.Fatalf("reserve: %v", o)
	}
	for i := 0; i < 2; i++ {
		o, err := m.Release(ctx, "p1", "o1")
		if err != nil || o != Applied {
			t.Fatalf("release %d: %v %v", i, o, err)
		}
	}
	p, _ := m.FindOne(ctx, "p1")
	if p.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", p.Status)
	}
}

func TestFinalizeTransitions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")
	if o, _ := m.Finalize(ctx, "p1", "o1"); o != Conflict {
		t.Fatalf("finalize of available product: %v", o)
	}
	_, _ = m.Reserve(ctx, "p1", "s1", "o1")
	if o, _ := m.Finalize(ctx, "p1", "o1"); o != Applied {
		t.Fatalf("finalize: %v", o)
	}
	if o, _ := m.Finalize(ctx, "p1", "o1"); o != Applied {
		t.Fatalf("repeated finalize: %v", o)
	}
	if o, _ := m.Release(ctx, "p1", "o1"); o != Conflict {
		t.Fatalf("release of sold product: %v", o)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProductsModel()
	_ = m.Insert(ctx, &Products{Id: "a", UserId: "s", Category: "books", Price: 5, Status: StatusAvailable})
	_ = m.Insert(ctx, &Products{Id: "b", UserId: "s", Category: "books", Price: 50, Status: StatusAvailable})
	_ = m.Insert(ctx, &Products{Id: "c", UserId: "s", Category: "home", Price: 20, Status: StatusAvailable})
	_, _ = m.Reserve(ctx, "b", "s", "o1")

	rows, _ := m.List(ctx, ListFilter{Category: "books", Status: StatusAvailable})
	if len(rows) != 1 || rows[0].Id != "a" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	rows, _ = m.List(ctx, ListFilter{MinPrice: 10, MaxPrice: 30})
	if len(rows) != 1 || rows[0].Id != "c" {
		t.Fatalf("unexpected price window rows: %+v", rows)
	}
}

func TestLateReleaseKeepsNewerHold(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")
	if o, _ := m.Reserve(ctx, "p1", "s1", "o1"); o != Applied {
		t.Fatalf("reserve o1: %v", o)
	}
	if o, _ := m.Release(ctx, "p1", "o1"); o != Applied {
		t.Fatalf("release o1: %v", o)
	}
	if o, _ := m.Reserve(ctx, "p1", "s1", "o2"); o != Applied {
		t.Fatalf("reserve o2: %v", o)
	}

	// o1's release arrives again after o2 took the product
	if o, _ := m.Release(ctx, "p1", "o1"); o != Applied {
		t.Fatalf("repeated release o1: %v", o)
	}
	p, _ := m.FindOne(ctx, "p1")
	if p.Status != StatusReserved || p.HoldId != "o2" {
		t.Fatalf("o2 lost its hold: status=%s hold=%s", p.Status, p.HoldId)
	}
	if o, _ := m.Reserve(ctx, "p1", "s1", "o3"); o != Conflict {
		t.Fatalf("third reservation: %v", o)
	}
	if o, _ := m.Finalize(ctx, "p1", "o1"); o != Conflict {
		t.Fatalf("finalize under a stale hold: %v", o)
	}
}

func TestRetriedReserveKeepsItsHold(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProductsModel()
	seed(t, m, "p1", "s1")
	for i := 0; i < 2; i++ {
		if o, _ := m.Reserve(ctx, "p1", "s1", "o1"); o != Applied {
			t.Fatalf("reserve attempt %d: %v", i, o)
		}
	}
	if o, _ := m.Reserve(ctx, "p1", "s1", "o2"); o != Conflict {
		t.Fatalf("competing reserve: %v", o)
	}
}

func TestClassifyMiss(t *testing.T) {
	cases := []struct {
		status, held string
		mv           move
		want         Outcome
	}{
		{StatusAvailable, "", move{from: StatusReserved, to: StatusAvailable, hold: "o1"}, Applied},
		{StatusReserved, "o2", move{from: StatusReserved, to: StatusAvailable, hold: "o1"}, Applied},
		{StatusSold, "o1", move{from: StatusReserved, to: StatusAvailable, hold: "o1"}, Conflict},
		{StatusSold, "o1", move{from: StatusReserved, to: StatusSold, hold: "o1"}, Applied},
		{StatusSold, "o2", move{from: StatusReserved, to: StatusSold, hold: "o1"}, Conflict},
		{StatusAvailable, "", move{from: StatusReserved, to: StatusSold, hold: "o1"}, Conflict},
		{StatusReserved, "o1", move{from: StatusAvailable, to: StatusReserved, hold: "o1"}, Applied},
		{StatusReserved, "o2", move{from: StatusAvailable, to: StatusReserved, hold: "o1"}, Conflict},
		{StatusReserved, "", move{from: StatusAvailable, to: StatusReserved}, Conflict},
	}
	for _, c := range cases {
		got, err := c.mv.classifyMiss(&Products{Status: c.status, HoldId: c.held}, nil)
		if err != nil || got != c.want {
			t.Fatalf("classify(%s/%s -> %s hold %s) = %v, %v; want %v", c.status, c.held, c.mv.to, c.mv.hold, got, err, c.want)
		}
	}
	if got, _ := (move{to: StatusSold}).classifyMiss(nil, ErrNotFound); got != NotFound {
		t.Fatalf("expected not found, got %v", got)
	}
}
