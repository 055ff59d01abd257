package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/transaction/internal/catalog/catalogtest"
	"SwapIt/app/services/transaction/internal/saga"
)

func TestGuardMapsStatusCodes(t *testing.T) {
	ctx := context.Background()
	srv, _ := catalogtest.NewServer(t)
	c := NewClient(Conf{BaseURL: srv.URL})

	if o, err := c.Reserve(ctx, "p1", "s1", "o1"); err != nil || o != saga.Applied {
		t.Fatalf("reserve: %v %v", o, err)
	}
	if o, err := c.Reserve(ctx, "p1", "s1", "o2"); err != nil || o != saga.Conflict {
		t.Fatalf("second reserve: %v %v", o, err)
	}
	if o, err := c.Reserve(ctx, "missing", "s1", "o1"); err != nil || o != saga.NotFound {
		t.Fatalf("missing reserve: %v %v", o, err)
	}
	if o, err := c.Release(ctx, "p1", "o1"); err != nil || o != saga.Applied {
		t.Fatalf("release: %v %v", o, err)
	}
	if o, err := c.Finalize(ctx, "p1", "o1"); err != nil || o != saga.Conflict {
		t.Fatalf("finalize of available product: %v %v", o, err)
	}
}

func TestStatusEndpointFallback(t *testing.T) {
	ctx := context.Background()
	srv, products := catalogtest.NewServer(t)
	c := NewClient(Conf{BaseURL: srv.URL, UseStatusEndpoint: true})

	if o, _ := c.Reserve(ctx, "p1", "s1", "o1"); o != saga.Applied {
		t.Fatalf("reserve: %v", o)
	}
	if o, err := c.Finalize(ctx, "p1", "o1"); err != nil || o != saga.Applied {
		t.Fatalf("finalize: %v %v", o, err)
	}
	p, _ := products.FindOne(ctx, "p1")
	if p.Status != catalogdal.StatusSold {
		t.Fatalf("expected sold, got %s", p.Status)
	}
}

func TestInspectProduct(t *testing.T) {
	ctx := context.Background()
	srv, _ := catalogtest.NewServer(t)
	c := NewClient(Conf{BaseURL: srv.URL})

	if o, _ := c.Reserve(ctx, "p1", "s1", "o1"); o != saga.Applied {
		t.Fatalf("reserve: %v", o)
	}
	st, err := c.Inspect(ctx, "p1")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if st.OwnerID != "s1" || st.Status != catalogdal.StatusReserved {
		t.Fatalf("unexpected state: %+v", st)
	}
	if _, err := c.Inspect(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReleaseCarriesHold(t *testing.T) {
	ctx := context.Background()
	srv, products := catalogtest.NewServer(t)
	for _, c := range []*Client{NewClient(Conf{BaseURL: srv.URL}), NewClient(Conf{BaseURL: srv.URL, UseStatusEndpoint: true})} {
		if o, _ := c.Reserve(ctx, "p1", "s1", "o2"); o != saga.Applied {
			t.Fatalf("reserve: %v", o)
		}
		if o, err := c.Release(ctx, "p1", "o1"); err != nil || o != saga.Applied {
			t.Fatalf("stale release: %v %v", o, err)
		}
		p, _ := products.FindOne(ctx, "p1")
		if p.Status != catalogdal.StatusReserved || p.HoldId != "o2" {
			t.Fatalf("stale release freed the product: %+v", p)
		}
		if o, _ := c.Release(ctx, "p1", "o2"); o != saga.Applied {
			t.Fatalf("release: %v", o)
		}
	}
}

func TestUnreachableCatalogIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	c := NewClient(Conf{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if _, err := c.Reserve(context.Background(), "p1", "s1", "o1"); err == nil {
		t.Fatalf("expected timeout error")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	if _, err := NewClient(Conf{BaseURL: down.URL}).Release(context.Background(), "p1", "o1"); err == nil {
		t.Fatalf("expected error for 502")
	}
}
