// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"

	"SwapIt/app/common/consts/errno"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type ReserveProductLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReserveProductLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReserveProductLogic {
	return &ReserveProductLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReserveProduct holds an available product for an order. Only the listed
// owner can have it reserved; any other state is a conflict. The hold id
// names the reservation so later releases cannot touch someone else's.
func (l *ReserveProductLogic) ReserveProduct(req *types.ReserveProductRequest) (resp *types.ProductResponse, err error) {
	if req.OwnerId == "" {
		return nil, xerrors.New(errno.InvalidParam, "ownerId is required")
	}
	hold := req.HoldId
	if hold == "" {
		hold = uuid.NewString()
	}
	o, err := l.svcCtx.ProductModel.Reserve(l.ctx, req.Id, req.OwnerId, hold)
	return guarded(l.ctx, l.svcCtx, "reserve product", req.Id, o, err)
}
