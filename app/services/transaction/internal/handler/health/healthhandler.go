package health

import (
	"net/http"

	"SwapIt/app/services/transaction/internal/svc"
	"SwapIt/app/services/transaction/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := types.HealthResponse{Status: "ok", Service: svcCtx.Config.Name, Bus: "connected"}
		if !svcCtx.Bus.Enabled() {
			resp.Bus = "degraded"
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
