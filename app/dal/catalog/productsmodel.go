package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ ProductsModel = (*customProductsModel)(nil)

const defaultListLimit = 50

type (
	// ProductsModel is the catalog store. Reserve, Release and Finalize are the
	// only ways a product's status changes, each a single conditional update.
	ProductsModel interface {
		productsModel
		List(ctx context.Context, f ListFilter) ([]*Products, error)
		// Reserve holds an available product of ownerId under holdId.
		Reserve(ctx context.Context, id, ownerId, holdId string) (Outcome, error)
		// Release and Finalize act only on the hold named by holdId; an empty
		// holdId matches any hold.
		Release(ctx context.Context, id, holdId string) (Outcome, error)
		Finalize(ctx context.Context, id, holdId string) (Outcome, error)
	}

	customProductsModel struct {
		*defaultProductsModel
	}

	ListFilter struct {
		Category string
		Status   string
		UserId   string
		MinPrice float64
		MaxPrice float64
		Limit    int64
	}
)

// NewProductsModel returns a model for the database table.
func NewProductsModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) ProductsModel {
	return &customProductsModel{
		defaultProductsModel: newProductsModel(conn, c, opts...),
	}
}

func (m *customProductsModel) Reserve(ctx context.Context, id, ownerId, holdId string) (Outcome, error) {
	return m.transit(ctx, id, move{from: StatusAvailable, to: StatusReserved, owner: ownerId, hold: holdId})
}

func (m *customProductsModel) Release(ctx context.Context, id, holdId string) (Outcome, error) {
	return m.transit(ctx, id, move{from: StatusReserved, to: StatusAvailable, hold: holdId})
}

func (m *customProductsModel) Finalize(ctx context.Context, id, holdId string) (Outcome, error) {
	return m.transit(ctx, id, move{from: StatusReserved, to: StatusSold, hold: holdId})
}

// transit applies mv in one statement; the read afterwards only classifies a
// miss and never decides the write.
func (m *customProductsModel) transit(ctx context.Context, id string, mv move) (Outcome, error) {
	query, args := mv.statement(m.table, id)
	res, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		return conn.ExecCtx(ctx, query, args...)
	}, m.cacheKey(id))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		return Applied, nil
	}
	p, err := m.findOneNoCache(ctx, id)
	return mv.classifyMiss(p, err)
}

func (m *customProductsModel) List(ctx context.Context, f ListFilter) ([]*Products, error) {
	var (
		conds []string
		args  []any
	)
	if f.Category != "" {
		conds = append(conds, "`category` = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		conds = append(conds, "`status` = ?")
		args = append(args, f.Status)
	}
	if f.UserId != "" {
		conds = append(conds, "`user_id` = ?")
		args = append(args, f.UserId)
	}
	if f.MinPrice > 0 {
		conds = append(conds, "`price` >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "`price` <= ?")
		args = append(args, f.MaxPrice)
	}
	where := ""
	if len(conds) > 0 {
		where = " where " + strings.Join(conds, " and ")
	}
	limit := f.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	args = append(args, limit)

	var rows []Products
	query := fmt.Sprintf("select %s from %s%s order by `created_at` desc limit ?", productsRows, m.table, where)
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	res := make([]*Products, 0, len(rows))
	for i := range rows {
		res = append(res, &rows[i])
	}
	return res, nil
}
