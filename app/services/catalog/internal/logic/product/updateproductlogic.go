// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"
	"errors"
	"strings"

	"SwapIt/app/common/consts/errno"
	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type UpdateProductLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUpdateProductLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateProductLogic {
	return &UpdateProductLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// UpdateProduct edits the listing. A status change never writes the column
// directly: it goes through the same guarded transitions as the reservation
// routes, so it cannot overwrite a concurrent reservation.
func (l *UpdateProductLogic) UpdateProduct(req *types.UpdateProductRequest) (resp *types.ProductResponse, err error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	category := strings.TrimSpace(req.Category)
	details := title != "" || description != "" || category != "" || req.Price != 0
	if !details && req.Status == "" {
		return nil, xerrors.New(errno.InvalidParam, "no valid fields to update")
	}
	if req.Price < 0 {
		return nil, xerrors.New(errno.InvalidParam, "price must be positive")
	}

	if req.Status != "" {
		o, err := l.transit(req)
		if err != nil {
			return nil, err
		}
		if o != catalogdal.Applied {
			return guarded(l.ctx, l.svcCtx, "update product status", req.Id, o, nil)
		}
	}

	if details {
		p, err := loadProduct(l.ctx, l.svcCtx, req.Id)
		if err != nil {
			return nil, err
		}
		if title != "" {
			p.Title = title
		}
		if description != "" {
			p.Description = description
		}
		if category != "" {
			p.Category = category
		}
		if req.Price > 0 {
			p.Price = req.Price
		}
		err = l.svcCtx.ProductModel.UpdateDetails(l.ctx, p)
		if errors.Is(err, catalogdal.ErrNotFound) {
			return nil, xerrors.New(errno.ProductNotFound, "product not found")
		}
		if err != nil {
			return nil, storeErr(l.ctx, "update product", err)
		}
	}

	p, err := loadProduct(l.ctx, l.svcCtx, req.Id)
	if err != nil {
		return nil, err
	}
	return &types.ProductResponse{Code: errno.StatusOK, Msg: "ok", Data: toProduct(p)}, nil
}

func (l *UpdateProductLogic) transit(req *types.UpdateProductRequest) (catalogdal.Outcome, error) {
	var (
		o   catalogdal.Outcome
		err error
	)
	switch req.Status {
	case catalogdal.StatusAvailable:
		o, err = l.svcCtx.ProductModel.Release(l.ctx, req.Id, req.HoldId)
	case catalogdal.StatusSold:
		o, err = l.svcCtx.ProductModel.Finalize(l.ctx, req.Id, req.HoldId)
	case catalogdal.StatusReserved:
		if req.OwnerId == "" {
			return 0, xerrors.New(errno.InvalidParam, "ownerId is required to reserve")
		}
		hold := req.HoldId
		if hold == "" {
			hold = uuid.NewString()
		}
		o, err = l.svcCtx.ProductModel.Reserve(l.ctx, req.Id, req.OwnerId, hold)
	default:
		return 0, xerrors.New(errno.InvalidStatus, "unknown product status "+req.Status)
	}
	if err != nil {
		return 0, storeErr(l.ctx, "update product status", err)
	}
	l.Infow("product status update", logx.Field("productId", req.Id), logx.Field("status", req.Status), logx.Field("outcome", o.String()))
	return o, nil
}
