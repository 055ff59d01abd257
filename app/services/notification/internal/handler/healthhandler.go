package handler

import (
	"net/http"

	"SwapIt/app/services/notification/internal/mailer"
	"SwapIt/app/services/notification/internal/svc"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Bus     string `json:"bus"`
	Mailer  string `json:"mailer"`
	Dedup   bool   `json:"dedup"`
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

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "ok",
			Service: svcCtx.Config.Name,
			Bus:     "connected",
			Mailer:  "smtp",
			Dedup:   svcCtx.Dedup != nil,
		}
		if !svcCtx.Bus.Enabled() {
			resp.Bus = "degraded"
		}
		if _, ok := svcCtx.Mailer.(mailer.ConsoleMailer); ok {
			resp.Mailer = "console"
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
