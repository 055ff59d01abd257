package product

import (
	"context"
	"errors"
	"time"

	"SwapIt/app/common/consts/errno"
	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

func toProduct(p *catalogdal.Products) types.Product {
	out := types.Product{
		Id:          p.Id,
		UserId:      p.UserId,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Status:      p.Status,
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toProducts(rows []*catalogdal.Products) *types.ProductListResponse {
	data := make([]types.Product, 0, len(rows))
	for _, p := range rows {
		data = append(data, toProduct(p))
	}
	return &types.ProductListResponse{Code: errno.StatusOK, Msg: "ok", Data: data, Count: len(data)}
}

func storeErr(ctx context.Context, op string, err error) error {
	logx.WithContext(ctx).Errorw(op+" failed", logx.Field("err", err))
	return xerrors.New(errno.StoreUnavailable, "product store unavailable")
}

func loadProduct(ctx context.Context, svcCtx *svc.ServiceContext, id string) (*catalogdal.Products, error) {
	p, err := svcCtx.ProductModel.FindOne(ctx, id)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, catalogdal.ErrNotFound):
		return nil, xerrors.New(errno.ProductNotFound, "product not found")
	default:
		return nil, storeErr(ctx, "find product", err)
	}
}

// guarded turns the outcome of a reservation call into the response:
// the product as it stands now, 404 when it is missing, 409 when the
// transition was refused.
func guarded(ctx context.Context, svcCtx *svc.ServiceContext, op, id string, o catalogdal.Outcome, err error) (*types.ProductResponse, error) {
	if err != nil {
		return nil, storeErr(ctx, op, err)
	}
	logx.WithContext(ctx).Infow(op, logx.Field("productId", id), logx.Field("outcome", o.String()))
	switch o {
	case catalogdal.NotFound:
		return nil, xerrors.New(errno.ProductNotFound, "product not found")
	case catalogdal.Conflict:
		return nil, xerrors.New(errno.ProductUnavailable, "product unavailable")
	}
	p, err := loadProduct(ctx, svcCtx, id)
	if err != nil {
		return nil, err
	}
	return &types.ProductResponse{Code: errno.StatusOK, Msg: "ok", Data: toProduct(p)}, nil
}
