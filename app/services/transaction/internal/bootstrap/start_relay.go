package bootstrap

import (
	"context"
	"fmt"
	"time"

	"SwapIt/app/services/transaction/internal/mq"
	"SwapIt/app/services/transaction/internal/svc"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
)

// StartRelay runs the compensation relay and returns a stop func. With asynq
// configured the scheduler enqueues the relay task and the asynq server runs
// it; otherwise a local ticker calls the relay directly.
func StartRelay(sc *svc.ServiceContext) func() {
	interval := time.Duration(sc.Config.Relay.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if sc.Config.AsynqConf.Addr == "" {
		logx.Info("AsynqConf.Addr not set; relaying compensations in process")
		return startLocalRelay(sc, interval)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     sc.Config.AsynqConf.Addr,
		Password: sc.Config.AsynqConf.Password,
		DB:       sc.Config.AsynqConf.DB,
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: sc.Config.AsynqServerConf.Concurrency,
		Queues:      sc.Config.AsynqServerConf.Queues,
	})
	if err := srv.Start(mq.NewAsynqMux(sc)); err != nil {
		panic(err)
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	// every instance registers the same entry; Unique collapses them into one run per interval
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %s", interval),
		mq.NewRelayTask(sc.Config.Relay.BatchSize),
		asynq.Unique(interval),
	); err != nil {
		panic(err)
	}
	if err := scheduler.Start(); err != nil {
		panic(err)
	}

	return func() {
		scheduler.Shutdown()
		srv.Shutdown()
	}
}

func startLocalRelay(sc *svc.ServiceContext, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := sc.Saga.RelayCompensations(ctx, sc.Config.Relay.BatchSize); err != nil {
					logx.Errorw("relay compensations", logx.Field("err", err))
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
