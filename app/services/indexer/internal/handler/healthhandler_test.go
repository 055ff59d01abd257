package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SwapIt/app/common/bus"
	"SwapIt/app/services/indexer/internal/es/estest"
	"SwapIt/app/services/indexer/internal/svc"
)

func health(t *testing.T, sc *svc.ServiceContext) HealthResponse {
	t.Helper()
	rr := httptest.NewRecorder()
	HealthHandler(sc)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestHealthReportsCollaborators(t *testing.T) {
	srv := estest.NewServer(t)
	sc := &svc.ServiceContext{ESClient: srv.Client(t), Bus: bus.NewClient(bus.Conf{})}
	if resp := health(t, sc); resp.Search != "connected" || resp.Bus != "degraded" {
		t.Fatalf("unexpected health %+v", resp)
	}

	sc.ESClient = nil
	if resp := health(t, sc); resp.Search != "unavailable" || resp.Status != "ok" {
		t.Fatalf("unexpected health %+v", resp)
	}
}
