package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlc"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	productsFieldNames          = builder.RawFieldNames(&Products{})
	productsRows                = strings.Join(productsFieldNames, ",")
	productsRowsExpectAutoSet   = strings.Join(stringx.Remove(productsFieldNames, "`created_at`", "`updated_at`"), ",")
	productsRowsWithPlaceHolder = strings.Join(stringx.Remove(productsFieldNames, "`id`", "`user_id`", "`status`", "`hold_id`", "`created_at`", "`updated_at`"), "=?,") + "=?"

	cacheProductsIdPrefix = "cache:products:id:"
)

type (
	productsModel interface {
		Insert(ctx context.Context, data *Products) error
		FindOne(ctx context.Context, id string) (*Products, error)
		// UpdateDetails rewrites the descriptive columns. Status is owned by the guard methods.
		UpdateDetails(ctx context.Context, data *Products) error
	}

	defaultProductsModel struct {
		sqlc.CachedConn
		table string
	}

	Products struct {
		Id          string    `db:"id"`
		UserId      string    `db:"user_id"`
		Title       string    `db:"title"`
		Description string    `db:"description"`
		Category    string    `db:"category"`
		Price       float64   `db:"price"`
		Status      string    `db:"status"`
		HoldId      string    `db:"hold_id"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}
)

func newProductsModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) *defaultProductsModel {
	return &defaultProductsModel{
		CachedConn: sqlc.NewConn(conn, c, opts...),
		table:      "`products`",
	}
}

func (m *defaultProductsModel) cacheKey(id string) string {
	return fmt.Sprintf("%s%v", cacheProductsIdPrefix, id)
}

func (m *defaultProductsModel) Insert(ctx context.Context, data *Products) error {
	_, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?, ?, ?)", m.table, productsRowsExpectAutoSet)
		return conn.ExecCtx(ctx, query, data.Id, data.UserId, data.Title, data.Description, data.Category, data.Price, data.Status, data.HoldId)
	}, m.cacheKey(data.Id))
	return err
}

func (m *defaultProductsModel) FindOne(ctx context.Context, id string) (*Products, error) {
	var resp Products
	err := m.QueryRowCtx(ctx, &resp, m.cacheKey(id), func(ctx context.Context, conn sqlx.SqlConn, v any) error {
		query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", productsRows, m.table)
		return conn.QueryRowCtx(ctx, v, query, id)
	})
	switch {
	case err == nil:
		return &resp, nil
	case errors.Is(err, sqlc.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultProductsModel) UpdateDetails(ctx context.Context, data *Products) error {
	res, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("update %s set %s where `id` = ?", m.table, productsRowsWithPlaceHolder)
		return conn.ExecCtx(ctx, query, data.Title, data.Description, data.Category, data.Price, data.Id)
	}, m.cacheKey(data.Id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// unchanged values also report zero rows
		if _, err := m.findOneNoCache(ctx, data.Id); err != nil {
			return err
		}
	}
	return nil
}

func (m *defaultProductsModel) findOneNoCache(ctx context.Context, id string) (*Products, error) {
	var resp Products
	query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", productsRows, m.table)
	err := m.QueryRowNoCacheCtx(ctx, &resp, query, id)
	switch {
	case err == nil:
		return &resp, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultProductsModel) tableName() string {
	return m.table
}
