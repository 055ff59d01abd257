package main

import (
	"flag"
	"fmt"

	"SwapIt/app/common/response"
	boot "SwapIt/app/services/transaction/internal/bootstrap"
	"SwapIt/app/services/transaction/internal/config"
	"SwapIt/app/services/transaction/internal/handler"
	"SwapIt/app/services/transaction/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

var configFile = flag.String("f", "etc/transaction.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	defer ctx.Close()
	response.Install()
	handler.RegisterHandlers(server, ctx)

	if stop := boot.StartRelay(ctx); stop != nil {
		defer stop()
	}
	if stop := boot.StartConsumers(ctx); stop != nil {
		defer stop()
	}

	if c.Consul.Host != "" {
		if err := consul.RegisterService(fmt.Sprintf("%s:%d", c.Host, c.Port), c.Consul); err != nil {
			logx.Errorw("register service error", logx.Field("err", err))
			panic(err)
		}
	}

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
