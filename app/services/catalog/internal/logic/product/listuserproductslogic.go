// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"

	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListUserProductsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListUserProductsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListUserProductsLogic {
	return &ListUserProductsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListUserProductsLogic) ListUserProducts(req *types.ListUserProductsRequest) (resp *types.ProductListResponse, err error) {
	rows, err := l.svcCtx.ProductModel.List(l.ctx, catalogdal.ListFilter{UserId: req.UserId, Limit: req.Limit})
	if err != nil {
		return nil, storeErr(l.ctx, "list user products", err)
	}
	return toProducts(rows), nil
}
