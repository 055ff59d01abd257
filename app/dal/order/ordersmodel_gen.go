package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	ordersFieldNames        = builder.RawFieldNames(&Orders{})
	ordersRows              = strings.Join(ordersFieldNames, ",")
	ordersRowsExpectAutoSet = strings.Join(stringx.Remove(ordersFieldNames, "`created_at`", "`updated_at`"), ",")
)

type (
	ordersModel interface {
		Insert(ctx context.Context, data *Orders) error
		FindOne(ctx context.Context, id string) (*Orders, error)
	}

	defaultOrdersModel struct {
		conn  sqlx.SqlConn
		table string
	}

	Orders struct {
		Id              string    `db:"id"`
		BuyerId         string    `db:"buyer_id"`
		SellerId        string    `db:"seller_id"`
		ProductId       string    `db:"product_id"`
		Amount          float64   `db:"amount"`
		Status          string    `db:"status"`
		PaymentIntentId string    `db:"payment_intent_id"`
		CreatedAt       time.Time `db:"created_at"`
		UpdatedAt       time.Time `db:"updated_at"`
	}
)

func newOrdersModel(conn sqlx.SqlConn) *defaultOrdersModel {
	return &defaultOrdersModel{
		conn:  conn,
		table: "`orders`",
	}
}

func (m *defaultOrdersModel) Insert(ctx context.Context, data *Orders) error {
	query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?, ?)", m.table, ordersRowsExpectAutoSet)
	_, err := m.conn.ExecCtx(ctx, query, data.Id, data.BuyerId, data.SellerId, data.ProductId, data.Amount, data.Status, data.PaymentIntentId)
	return err
}

func (m *defaultOrdersModel) FindOne(ctx context.Context, id string) (*Orders, error) {
	var resp Orders
	query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", ordersRows, m.table)
	err := m.conn.QueryRowCtx(ctx, &resp, query, id)
	switch {
	case err == nil:
		return &resp, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultOrdersModel) tableName() string {
	return m.table
}
