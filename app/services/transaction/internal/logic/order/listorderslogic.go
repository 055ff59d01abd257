// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package order

import (
	"context"

	"SwapIt/app/common/consts/errno"
	"SwapIt/app/services/transaction/internal/svc"
	"SwapIt/app/services/transaction/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListOrdersLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListOrdersLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListOrdersLogic {
	return &ListOrdersLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ListOrders returns the orders a user placed, or received when role is seller.
func (l *ListOrdersLogic) ListOrders(req *types.ListOrdersRequest) (resp *types.OrderListResponse, err error) {
	rows, err := l.svcCtx.Saga.ListOrders(l.ctx, req.UserId, req.Role, req.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]types.Order, 0, len(rows))
	for _, o := range rows {
		data = append(data, toOrder(o))
	}
	return &types.OrderListResponse{Code: errno.StatusOK, Msg: "ok", Data: data}, nil
}
