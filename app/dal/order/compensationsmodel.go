package order

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

const compensationsTable = "`order_compensations`"

var (
	compensationsFieldNames        = builder.RawFieldNames(&Compensations{})
	compensationsRows              = strings.Join(compensationsFieldNames, ",")
	compensationsRowsExpectAutoSet = strings.Join(stringx.Remove(compensationsFieldNames, "`id`", "`created_at`", "`updated_at`"), ",")
)

var _ CompensationsModel = (*defaultCompensationsModel)(nil)

type (
	// CompensationsModel is the outbox of catalog calls owed by committed order transitions.
	CompensationsModel interface {
		// Enqueue records a compensation owed outside any order transition.
		Enqueue(ctx context.Context, data *Compensations) (int64, error)
		Pending(ctx context.Context, limit int64) ([]*Compensations, error)
		MarkDone(ctx context.Context, id int64) error
		RecordFailure(ctx context.Context, id int64, reason string) error
		MarkFailed(ctx context.Context, id int64) error
	}

	defaultCompensationsModel struct {
		conn  sqlx.SqlConn
		table string
	}

	Compensations struct {
		Id        int64     `db:"id"`
		OrderId   string    `db:"order_id"`
		ProductId string    `db:"product_id"`
		Action    string    `db:"action"`
		Status    string    `db:"status"`
		Attempts  int64     `db:"attempts"`
		LastError string    `db:"last_error"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)

func NewCompensationsModel(conn sqlx.SqlConn) CompensationsModel {
	return &defaultCompensationsModel{conn: conn, table: compensationsTable}
}

func (m *defaultCompensationsModel) Enqueue(ctx context.Context, data *Compensations) (int64, error) {
	query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?)", m.table, compensationsRowsExpectAutoSet)
	res, err := m.conn.ExecCtx(ctx, query, data.OrderId, data.ProductId, data.Action, CompensationPending, 0, "")
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (m *defaultCompensationsModel) Pending(ctx context.Context, limit int64) ([]*Compensations, error) {
	var rows []Compensations
	query := fmt.Sprintf("select %s from %s where `status` = ? order by `id` asc limit ?", compensationsRows, m.table)
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, CompensationPending, clampLimit(limit)); err != nil {
		return nil, err
	}
	res := make([]*Compensations, 0, len(rows))
	for i := range rows {
		res = append(res, &rows[i])
	}
	return res, nil
}

func (m *defaultCompensationsModel) MarkDone(ctx context.Context, id int64) error {
	return m.setStatus(ctx, id, CompensationDone)
}

func (m *defaultCompensationsModel) MarkFailed(ctx context.Context, id int64) error {
	return m.setStatus(ctx, id, CompensationFailed)
}

func (m *defaultCompensationsModel) setStatus(ctx context.Context, id int64, status string) error {
	query := fmt.Sprintf("update %s set `status` = ? where `id` = ? and `status` = ?", m.table)
	_, err := m.conn.ExecCtx(ctx, query, status, id, CompensationPending)
	return err
}

func (m *defaultCompensationsModel) RecordFailure(ctx context.Context, id int64, reason string) error {
	query := fmt.Sprintf("update %s set `attempts` = `attempts` + 1, `last_error` = ? where `id` = ? and `status` = ?", m.table)
	_, err := m.conn.ExecCtx(ctx, query, truncate(reason, 255), id, CompensationPending)
	return err
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
