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

type PayOrderLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPayOrderLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PayOrderLogic {
	return &PayOrderLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// PayOrder runs the payment step for a pending order.
func (l *PayOrderLogic) PayOrder(req *types.PayOrderRequest) (resp *types.OrderResponse, err error) {
	o, err := l.svcCtx.Saga.Pay(l.ctx, req.Id)
	if err != nil {
		return nil, err
	}
	l.Infow("order paid", logx.Field("orderId", o.Id), logx.Field("paymentIntentId", o.PaymentIntentId))
	return &types.OrderResponse{Code: errno.StatusOK, Msg: "payment processed", Data: toOrder(o)}, nil
}
