package mq

import (
	"context"
	"fmt"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/biz"
	"SwapIt/app/common/consts/errno"
	orderdal "SwapIt/app/dal/order"
	"SwapIt/app/services/transaction/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// StartDeliveredConsumer completes orders the delivery service reports as delivered.
// It blocks until ctx is done.
func StartDeliveredConsumer(ctx context.Context, sc *svc.ServiceContext) error {
	return sc.Bus.Subscribe(ctx, bus.Binding{
		Queue:    biz.TransactionQueue,
		Patterns: []string{bus.TypeOrderDelivered},
	}, HandleDelivered(sc))
}

// HandleDelivered marks the order delivered. Redelivery is harmless: an order
// already delivered is left as is. Orders that can no longer be delivered are
// dropped; only store or catalog outages ask for a retry.
func HandleDelivered(sc *svc.ServiceContext) bus.Handler {
	return func(ctx context.Context, env bus.Envelope) error {
		evt, ok := env.Event.(bus.OrderDelivered)
		if !ok {
			return bus.Discard(fmt.Errorf("unexpected event %s", env.Type))
		}
		_, err := sc.Saga.UpdateStatus(ctx, evt.OrderID, orderdal.StatusDelivered)
		switch {
		case err == nil:
			logx.WithContext(ctx).Infow("order delivered", logx.Field("orderId", evt.OrderID), logx.Field("shipmentId", evt.ShipmentID))
			return nil
		case errno.IsDependency(err):
			return err
		default:
			return bus.Discard(err)
		}
	}
}
