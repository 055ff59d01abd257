package main

import (
	"flag"
	"fmt"

	"SwapIt/app/common/response"
	"SwapIt/app/services/catalog/internal/config"
	"SwapIt/app/services/catalog/internal/handler"
	"SwapIt/app/services/catalog/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

var configFile = flag.String("f", "etc/catalog.yaml", "the config file")

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

	if c.Consul.Host != "" {
		if err := consul.RegisterService(fmt.Sprintf("%s:%d", c.Host, c.Port), c.Consul); err != nil {
			logx.Errorw("register service error", logx.Field("err", err))
			panic(err)
		}
	}

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
