package svc

import (
	"context"

	"SwapIt/app/common/bus"
	catalogdal "SwapIt/app/dal/catalog"
	"SwapIt/app/services/catalog/internal/config"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// Publisher is the part of the bus the handlers need.
type Publisher interface {
	Publish(ctx context.Context, evt bus.Event)
}

type ServiceContext struct {
	Config config.Config

	ProductModel catalogdal.ProductsModel
	Bus          *bus.Client
	Events       Publisher
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.Log)

	var products catalogdal.ProductsModel
	if c.MysqlConf.DataSource == "" {
		logx.Info("MysqlConf.DataSource not set; keeping products in memory")
		products = catalogdal.NewMemoryProductsModel()
	} else {
		products = catalogdal.NewProductsModel(sqlx.NewMysql(c.MysqlConf.DataSource), c.CacheConf)
	}

	b := bus.NewClient(c.Bus)
	return &ServiceContext{
		Config:       c,
		ProductModel: products,
		Bus:          b,
		Events:       b,
	}
}

func (s *ServiceContext) Close() {
	if err := s.Bus.Close(); err != nil {
		logx.Errorw("close event bus", logx.Field("err", err))
	}
}
