package handler

import (
	"net/http"

	"SwapIt/app/services/indexer/internal/svc"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Bus     string `json:"bus"`
	Search  string `json:"search"`
}

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/health",
			Handler: HealthHandler(serverCtx),
		},
	})
}

// HealthHandler reports the process as up even when its collaborators are not;
// the bus and search fields say which one is missing.
func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Service: svcCtx.Config.Name, Bus: "connected", Search: "unavailable"}
		if !svcCtx.Bus.Enabled() {
			resp.Bus = "degraded"
		}
		if svcCtx.ESClient != nil {
			res, err := svcCtx.ESClient.Ping(svcCtx.ESClient.Ping.WithContext(r.Context()))
			if err == nil {
				if !res.IsError() {
					resp.Search = "connected"
				}
				res.Body.Close()
			}
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
