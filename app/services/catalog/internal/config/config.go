package config

import (
	"SwapIt/app/common/bus"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

type Config struct {
	rest.RestConf

	Consul consul.Conf `json:",optional"`

	// Empty DataSource keeps products in memory.
	MysqlConf sqlx.SqlConf    `json:",optional"`
	CacheConf cache.CacheConf `json:",optional"`

	Bus bus.Conf `json:",optional"`
}
