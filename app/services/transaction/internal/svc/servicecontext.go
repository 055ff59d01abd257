package svc

import (
	"SwapIt/app/common/bus"
	orderdal "SwapIt/app/dal/order"
	"SwapIt/app/services/transaction/internal/catalog"
	"SwapIt/app/services/transaction/internal/config"
	"SwapIt/app/services/transaction/internal/saga"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

type ServiceContext struct {
	Config config.Config

	Orders orderdal.OrdersModel
	Outbox orderdal.CompensationsModel

	Catalog *catalog.Client
	Bus     *bus.Client

	Saga *saga.Coordinator
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.Log)

	var (
		orders orderdal.OrdersModel
		outbox orderdal.CompensationsModel
	)
	if c.MysqlConf.DataSource == "" {
		logx.Info("MysqlConf.DataSource not set; keeping orders in memory")
		store := orderdal.NewMemoryStore()
		orders, outbox = store, store
	} else {
		db := sqlx.NewMysql(c.MysqlConf.DataSource)
		orders = orderdal.NewOrdersModel(db)
		outbox = orderdal.NewCompensationsModel(db)
	}

	cat := catalog.NewClient(c.CatalogConf)
	b := bus.NewClient(c.Bus)

	return &ServiceContext{
		Config:  c,
		Orders:  orders,
		Outbox:  outbox,
		Catalog: cat,
		Bus:     b,
		Saga: saga.NewCoordinator(cat, orders, outbox, b,
			saga.WithMaxAttempts(c.Relay.MaxAttempts),
			saga.WithStepTimeout(c.CatalogConf.Timeout),
		),
	}
}

// Close releases the bus connection.
func (s *ServiceContext) Close() {
	if err := s.Bus.Close(); err != nil {
		logx.Errorw("close event bus", logx.Field("err", err))
	}
}
