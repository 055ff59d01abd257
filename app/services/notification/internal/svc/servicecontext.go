package svc

import (
	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/biz"
	"SwapIt/app/services/notification/internal/config"
	"SwapIt/app/services/notification/internal/dedup"
	"SwapIt/app/services/notification/internal/mailer"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type ServiceContext struct {
	Config config.Config
	Bus    *bus.Client
	Mailer mailer.Mailer

	// nil when no redis is configured
	Dedup dedup.Store
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.Log)

	var store dedup.Store
	if c.RedisConf.Host != "" {
		rds, err := redis.NewRedis(c.RedisConf)
		if err != nil {
			logx.Errorw("init redis failed, notifications will not be deduplicated", logx.Field("err", err))
		} else {
			store = dedup.NewRedisStore(rds, biz.NotificationDedupTTL)
		}
	}

	return &ServiceContext{
		Config: c,
		Bus:    bus.NewClient(c.Bus),
		Mailer: mailer.New(c.SmtpConf),
		Dedup:  store,
	}
}

func (s *ServiceContext) Close() {
	if err := s.Bus.Close(); err != nil {
		logx.Errorw("close event bus", logx.Field("err", err))
	}
}
