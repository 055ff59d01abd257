package bootstrap

import (
	"context"

	"SwapIt/app/services/transaction/internal/mq"
	"SwapIt/app/services/transaction/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// StartConsumers runs the bus consumers in the background; returns a stop func.
func StartConsumers(sc *svc.ServiceContext) func() {
	if !sc.Bus.Enabled() {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := mq.StartDeliveredConsumer(ctx, sc); err != nil {
			logx.Errorw("delivered consumer stopped", logx.Field("err", err))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
