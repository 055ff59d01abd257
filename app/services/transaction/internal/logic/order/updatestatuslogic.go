// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package order

import (
	"context"

	"SwapIt/app/common/consts/errno"
	"SwapIt/app/services/transaction/internal/svc"
	"SwapIt/app/services/transaction/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type UpdateStatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUpdateStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateStatusLogic {
	return &UpdateStatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateStatusLogic) UpdateStatus(req *types.UpdateStatusRequest) (resp *types.OrderResponse, err error) {
	if req.Status == "" {
		return nil, xerrors.New(errno.InvalidParam, "status is required")
	}
	o, err := l.svcCtx.Saga.UpdateStatus(l.ctx, req.Id, req.Status)
	if err != nil {
		return nil, err
	}
	return &types.OrderResponse{Code: errno.StatusOK, Msg: "ok", Data: toOrder(o)}, nil
}
