// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"

	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ReleaseProductLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReleaseProductLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReleaseProductLogic {
	return &ReleaseProductLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReleaseProduct returns a reserved product to sale. Releasing an available
// product again succeeds, as does releasing a hold another reservation has
// already replaced; a sold product cannot be released.
func (l *ReleaseProductLogic) ReleaseProduct(req *types.ProductActionRequest) (resp *types.ProductResponse, err error) {
	o, err := l.svcCtx.ProductModel.Release(l.ctx, req.Id, req.HoldId)
	return guarded(l.ctx, l.svcCtx, "release product", req.Id, o, err)
}
