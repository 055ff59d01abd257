// Package catalogtest serves the catalog's reservation routes over an in-memory
// product table, for tests of code that calls the catalog over HTTP.
package catalogtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogdal "SwapIt/app/dal/catalog"

	"github.com/zeromicro/go-zero/rest/pathvar"
	"github.com/zeromicro/go-zero/rest/router"
)

// NewServer starts a fake catalog holding product p1, owned by s1 and available.
// It is closed when the test ends.
func NewServer(t testing.TB) (*httptest.Server, *catalogdal.MemoryProductsModel) {
	t.Helper()
	products := catalogdal.NewMemoryProductsModel()
	rt := router.NewRouter()

	guarded := func(fn func(r *http.Request, id string) (catalogdal.Outcome, error)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			o, err := fn(r, pathvar.Vars(r)["id"])
			switch {
			case err != nil:
				w.WriteHeader(http.StatusServiceUnavailable)
			case o == catalogdal.NotFound:
				w.WriteHeader(http.StatusNotFound)
			case o == catalogdal.Conflict:
				w.WriteHeader(http.StatusConflict)
			default:
				w.WriteHeader(http.StatusOK)
			}
		}
	}
	routes := []struct {
		method, path string
		h           http.HandlerFunc
	}{
		{http.MethodPost, "/products/:id/reserve", guarded(func(r *http.Request, id string) (catalogdal.Outcome, error) {
			body := decodeBody(r)
			return products.Reserve(r.Context(), id, body.OwnerId, body.HoldId)
		})},
		{http.MethodPost, "/products/:id/release", guarded(func(r *http.Request, id string) (catalogdal.Outcome, error) {
			return products.Release(r.Context(), id, decodeBody(r).HoldId)
		})},
		{http.MethodPost, "/products/:id/finalize", guarded(func(r *http.Request, id string) (catalogdal.Outcome, error) {
			return products.Finalize(r.Context(), id, decodeBody(r).HoldId)
		})},
		{http.MethodPut, "/products/:id", guarded(func(r *http.Request, id string) (catalogdal.Outcome, error) {
			body := decodeBody(r)
			if body.Status == catalogdal.StatusSold {
				return products.Finalize(r.Context(), id, body.HoldId)
			}
			return products.Release(r.Context(), id, body.HoldId)
		})},
		{http.MethodGet, "/products/:id", func(w http.ResponseWriter, r *http.Request) {
			p, err := products.FindOne(r.Context(), pathvar.Vars(r)["id"])
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 10000,
				"msg":  "ok",
				"data": map[string]any{"id": p.Id, "userId": p.UserId, "title": p.Title, "price": p.Price, "status": p.Status},
			})
		}},
	}
	for _, route := range routes {
		if err := rt.Handle(route.method, route.path, route.h); err != nil {
			t.Fatalf("catalogtest: route %s %s: %v", route.method, route.path, err)
		}
	}

	srv := httptest.NewServer(rt)
	t.Cleanup(srv.Close)
	if err := products.Insert(context.Background(), &catalogdal.Products{
		Id: "p1", UserId: "s1", Title: "Bike", Price: 50, Status: catalogdal.StatusAvailable,
	}); err != nil {
		t.Fatalf("catalogtest: seed: %v", err)
	}
	return srv, products
}

type requestBody struct {
	OwnerId string `json:"ownerId"`
	HoldId  string `json:"holdId"`
	Status  string `json:"status"`
}

func decodeBody(r *http.Request) requestBody {
	var body requestBody
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}
