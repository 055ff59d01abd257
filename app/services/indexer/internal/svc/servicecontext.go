package svc

import (
	"strings"

	"SwapIt/app/common/bus"
	"SwapIt/app/services/indexer/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/zeromicro/go-zero/core/logx"
)

type ServiceContext struct {
	Config   config.Config
	ESClient *elasticsearch.Client
	Bus      *bus.Client
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.Log)

	var esClient *elasticsearch.Client
	if len(c.ElasticConf.Addresses) > 0 {
		client, err := NewElasticClient(c.ElasticConf)
		if err != nil {
			logx.Errorw("init elasticsearch client failed", logx.Field("err", err))
		} else {
			esClient = client
			logx.Infow("elasticsearch client initialized", logx.Field("addresses", c.ElasticConf.Addresses))
		}
	} else {
		logx.Infow("elasticsearch client disabled, no addresses configured")
	}

	return &ServiceContext{
		Config:   c,
		ESClient: esClient,
		Bus:      bus.NewClient(c.Bus),
	}
}

func NewElasticClient(c config.ElasticConf) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: c.Addresses,
		Username:  c.Username,
		Password:  c.Password,
	})
}

func (s *ServiceContext) ProductIndexName() string {
	if idx := strings.TrimSpace(s.Config.ElasticConf.IndexName); idx != "" {
		return idx
	}
	return "products"
}

func (s *ServiceContext) Close() {
	if err := s.Bus.Close(); err != nil {
		logx.Errorw("close event bus", logx.Field("err", err))
	}
}
