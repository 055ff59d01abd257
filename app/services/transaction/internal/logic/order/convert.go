package order

import (
	"time"

	orderdal "SwapIt/app/dal/order"
	"SwapIt/app/services/transaction/internal/types"
)

func toOrder(o *orderdal.Orders) types.Order {
	out := types.Order{
		Id:              o.Id,
		BuyerId:         o.BuyerId,
		SellerId:        o.SellerId,
		ProductId:       o.ProductId,
		Amount:          o.Amount,
		Status:          o.Status,
		PaymentIntentId: o.PaymentIntentId,
	}
	if !o.CreatedAt.IsZero() {
		out.CreatedAt = o.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !o.UpdatedAt.IsZero() {
		out.UpdatedAt = o.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
