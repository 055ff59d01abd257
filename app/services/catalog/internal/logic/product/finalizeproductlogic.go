// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"

	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type FinalizeProductLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFinalizeProductLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FinalizeProductLogic {
	return &FinalizeProductLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// FinalizeProduct marks a reserved product sold. Repeating it is harmless.
func (l *FinalizeProductLogic) FinalizeProduct(req *types.ProductActionRequest) (resp *types.ProductResponse, err error) {
	o, err := l.svcCtx.ProductModel.Finalize(l.ctx, req.Id, req.HoldId)
	return guarded(l.ctx, l.svcCtx, "finalize product", req.Id, o, err)
}
