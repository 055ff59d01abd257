package config

import (
	"SwapIt/app/common/bus"
	"SwapIt/app/services/transaction/internal/catalog"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

type Config struct {
	rest.RestConf

	Consul consul.Conf `json:",optional"`

	// Empty DataSource keeps orders in memory.
	MysqlConf sqlx.SqlConf `json:",optional"`

	CatalogConf catalog.Conf

	Bus bus.Conf `json:",optional"`

	// Empty Addr relays compensations from an in-process ticker.
	AsynqConf       AsynqRedisConf  `json:",optional"`
	AsynqServerConf AsynqServerConf `json:",optional"`

	Relay RelayConf `json:",optional"`
}

// AsynqRedisConf locates the redis behind the relay's scheduler and worker.
type AsynqRedisConf struct {
	Addr     string `json:",optional"`
	Password string `json:",optional"`
	DB       int    `json:",optional"`
}

// AsynqServerConf sizes the relay worker.
type AsynqServerConf struct {
	Concurrency int            `json:",default=4"`
	Queues      map[string]int `json:",optional"`
}

// RelayConf drives the compensation outbox relay.
type RelayConf struct {
	IntervalSeconds int   `json:",default=30"`
	BatchSize       int64 `json:",default=50"`
	MaxAttempts     int64 `json:",default=10"`
}
