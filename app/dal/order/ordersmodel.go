package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ OrdersModel = (*customOrdersModel)(nil)

type (
	// OrdersModel is the order store. Status only moves through Transit.
	OrdersModel interface {
		ordersModel
		// ListByUser returns the newest orders where userId is the buyer, or the seller when role is RoleSeller.
		ListByUser(ctx context.Context, userId, role string, limit int64) ([]*Orders, error)
		// Transit moves an order out of one of t.From into t.To and queues t.Compensation,
		// if any, in the same transaction. It returns the queued compensation id, or 0.
		Transit(ctx context.Context, t Transition) (int64, error)
	}

	customOrdersModel struct {
		*defaultOrdersModel
		compensations string
	}

	Transition struct {
		OrderId         string
		ProductId       string
		From            []string
		To              string
		PaymentIntentId string
		Compensation    string
	}
)

// NewOrdersModel returns a model for the orders table and its compensation outbox.
func NewOrdersModel(conn sqlx.SqlConn) OrdersModel {
	return &customOrdersModel{
		defaultOrdersModel: newOrdersModel(conn),
		compensations:      compensationsTable,
	}
}

func (m *customOrdersModel) ListByUser(ctx context.Context, userId, role string, limit int64) ([]*Orders, error) {
	column := "`buyer_id`"
	if role == RoleSeller {
		column = "`seller_id`"
	}
	var rows []Orders
	query := fmt.Sprintf("select %s from %s where %s = ? order by `created_at` desc limit ?", ordersRows, m.table, column)
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, userId, clampLimit(limit)); err != nil {
		return nil, err
	}
	res := make([]*Orders, 0, len(rows))
	for i := range rows {
		res = append(res, &rows[i])
	}
	return res, nil
}

func (m *customOrdersModel) Transit(ctx context.Context, t Transition) (int64, error) {
	if len(t.From) == 0 || t.To == "" {
		return 0, errors.New("transit: empty transition")
	}
	var compId int64
	err := m.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		in := strings.TrimSuffix(strings.Repeat("?,", len(t.From)), ",")
		query := fmt.Sprintf("update %s set `status` = ?, `payment_intent_id` = coalesce(nullif(?, ''), `payment_intent_id`) where `id` = ? and `status` in (%s)", m.table, in)
		args := []any{t.To, t.PaymentIntentId, t.OrderId}
		for _, s := range t.From {
			args = append(args, s)
		}
		res, err := session.ExecCtx(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			var status string
			err := session.QueryRowCtx(ctx, &status, fmt.Sprintf("select `status` from %s where `id` = ? limit 1", m.table), t.OrderId)
			if errors.Is(err, sqlx.ErrNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			return ErrStaleStatus
		}

		if t.Compensation == "" {
			return nil
		}
		query = fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?)", m.compensations, compensationsRowsExpectAutoSet)
		res, err = session.ExecCtx(ctx, query, t.OrderId, t.ProductId, t.Compensation, CompensationPending, 0, "")
		if err != nil {
			return err
		}
		compId, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return compId, nil
}
