package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"SwapIt/app/services/notification/internal/config"
	"SwapIt/app/services/notification/internal/handler"
	"SwapIt/app/services/notification/internal/mq"
	"SwapIt/app/services/notification/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"golang.org/x/sync/errgroup"
)

var configFile = flag.String("f", "etc/notification.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)
	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := rest.MustNewServer(c.RestConf)
	handler.RegisterHandlers(server, ctx)

	group, groupCtx := errgroup.WithContext(rootCtx)
	group.Go(func() error { return mq.StartNotifyConsumer(groupCtx, ctx) })
	group.Go(func() error {
		server.Start()
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		server.Stop()
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logx.Errorw("notification stopped with error", logx.Field("err", err))
		os.Exit(1)
	}

	logx.Info("notification shutdown gracefully")
}
