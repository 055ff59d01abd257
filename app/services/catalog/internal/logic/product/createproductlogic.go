// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package product

import (
	"context"
	"strings"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/errno"
	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/svc"
	"SwapIt/app/services/catalog/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type CreateProductLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateProductLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateProductLogic {
	return &CreateProductLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// CreateProduct lists a new product for sale and announces it with ItemCreated.
func (l *CreateProductLogic) CreateProduct(req *types.CreateProductRequest) (resp *types.ProductResponse, err error) {
	record := &catalogdal.Products{
		Id:          uuid.NewString(),
		UserId:      strings.TrimSpace(req.UserId),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Status:      catalogdal.StatusAvailable,
	}
	if record.UserId == "" || record.Title == "" || record.Category == "" || record.Price <= 0 {
		return nil, xerrors.New(errno.InvalidParam, "userId, title, price and category are required")
	}

	if err := l.svcCtx.ProductModel.Insert(l.ctx, record); err != nil {
		return nil, storeErr(l.ctx, "create product", err)
	}
	l.Infow("product created", logx.Field("productId", record.Id), logx.Field("userId", record.UserId))

	l.svcCtx.Events.Publish(l.ctx, bus.ItemCreated{
		ProductID:   record.Id,
		UserID:      record.UserId,
		Title:       record.Title,
		Description: record.Description,
		Category:    record.Category,
		Price:       record.Price,
	})

	return &types.ProductResponse{Code: errno.StatusOK, Msg: "ok", Data: toProduct(record)}, nil
}
