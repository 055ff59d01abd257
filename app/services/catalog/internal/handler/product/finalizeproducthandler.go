// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"net/http"

	"SwapIt/app/common/consts/errno"
	"SwapIt/app/services/catalog/internal/logic/product"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
	xerrors "github.com/zeromicro/x/errors"
)

func FinalizeProductHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ProductActionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, xerrors.New(errno.InvalidParam, err.Error()))
			return
		}

		l := product.NewFinalizeProductLogic(r.Context(), svcCtx)
		resp, err := l.FinalizeProduct(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
