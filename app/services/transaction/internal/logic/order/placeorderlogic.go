// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package order

import (
	"context"

	"SwapIt/app/common/consts/errno"
	"SwapIt/app/services/transaction/internal/saga"
	"SwapIt/app/services/transaction/internal/svc"
	"SwapIt/app/services/transaction/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type PlaceOrderLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPlaceOrderLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PlaceOrderLogic {
	return &PlaceOrderLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// PlaceOrder reserves the product and records a pending order.
func (l *PlaceOrderLogic) PlaceOrder(req *types.PlaceOrderRequest) (resp *types.OrderResponse, err error) {
	o, err := l.svcCtx.Saga.PlaceOrder(l.ctx, saga.PlaceRequest{
		BuyerID:   req.BuyerId,
		SellerID:  req.SellerId,
		ProductID: req.ProductId,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, err
	}
	return &types.OrderResponse{Code: errno.StatusOK, Msg: "ok", Data: toOrder(o)}, nil
}
