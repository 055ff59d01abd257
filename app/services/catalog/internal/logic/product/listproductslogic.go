// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"

	"SwapIt/app/common/consts/errno"
	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type ListProductsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListProductsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListProductsLogic {
	return &ListProductsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ListProducts returns the newest products matching every given filter, at most 50.
func (l *ListProductsLogic) ListProducts(req *types.ListProductsRequest) (resp *types.ProductListResponse, err error) {
	if req.Status != "" && !catalogdal.ValidStatus(req.Status) {
		return nil, xerrors.New(errno.InvalidStatus, "unknown product status "+req.Status)
	}
	if req.MinPrice < 0 || req.MaxPrice < 0 || req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return nil, xerrors.New(errno.InvalidParam, "invalid price range")
	}
	rows, err := l.svcCtx.ProductModel.List(l.ctx, catalogdal.ListFilter{
		Category: req.Category,
		Status:   req.Status,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, storeErr(l.ctx, "list products", err)
	}
	return toProducts(rows), nil
}
