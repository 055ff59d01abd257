package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"SwapIt/app/common/consts/biz"
	"SwapIt/app/services/indexer/internal/config"
	"SwapIt/app/services/indexer/internal/es"
	"SwapIt/app/services/indexer/internal/handler"
	"SwapIt/app/services/indexer/internal/mq"
	"SwapIt/app/services/indexer/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"golang.org/x/sync/errgroup"
)

var configFile = flag.String("f", "etc/indexer.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)
	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ctx.ESClient != nil {
		ensureCtx, cancel := context.WithTimeout(rootCtx, biz.DependencyTimeout)
		created, err := es.EnsureProductIndex(ensureCtx, ctx.ESClient, es.ProductIndexParams{
			IndexName:        ctx.ProductIndexName(),
			NumberOfShards:   c.ElasticConf.NumberOfShards,
			NumberOfReplicas: c.ElasticConf.NumberOfReplicas,
		})
		cancel()
		if err != nil {
			// updates are retried until the cluster is back
			logx.Errorw("ensure product index failed", logx.Field("index", ctx.ProductIndexName()), logx.Field("err", err))
		} else {
			logx.Infow("product index ready", logx.Field("index", ctx.ProductIndexName()), logx.Field("created", created))
		}
	}

	server := rest.MustNewServer(c.RestConf)
	handler.RegisterHandlers(server, ctx)

	group, groupCtx := errgroup.WithContext(rootCtx)
	group.Go(func() error { return mq.StartItemConsumer(groupCtx, ctx) })
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
		logx.Errorw("indexer stopped with error", logx.Field("err", err))
		os.Exit(1)
	}

	logx.Info("indexer shutdown gracefully")
}
