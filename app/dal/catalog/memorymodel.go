package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var _ ProductsModel = (*MemoryProductsModel)(nil)

var ErrDuplicateKey = errors.New("duplicate product id")

// MemoryProductsModel backs the catalog when no database is configured.
// Each guard call holds the lock for its compare and its write, the same
// atomicity the conditional UPDATE gives the MySQL model.
type MemoryProductsModel struct {
	mu   sync.Mutex
	rows map[string]Products
	now  func() time.Time
}

func NewMemoryProductsModel() *MemoryProductsModel {
	return &MemoryProductsModel{rows: make(map[string]Products), now: time.Now}
}

func (m *MemoryProductsModel) Insert(_ context.Context, data *Products) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[data.Id]; ok {
		return ErrDuplicateKey
	}
	row := *data
	row.CreatedAt = m.now()
	row.UpdatedAt = row.CreatedAt
	m.rows[data.Id] = row
	*data = row
	return nil
}

func (m *MemoryProductsModel) FindOne(_ context.Context, id string) (*Products, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *MemoryProductsModel) UpdateDetails(_ context.Context, data *Products) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[data.Id]
	if !ok {
		return ErrNotFound
	}
	row.Title, row.Description, row.Category, row.Price = data.Title, data.Description, data.Category, data.Price
	row.UpdatedAt = m.now()
	m.rows[data.Id] = row
	return nil
}

func (m *MemoryProductsModel) List(_ context.Context, f ListFilter) ([]*Products, error) {
	m.mu.Lock()
	res := make([]*Products, 0, len(m.rows))
	for _, row := range m.rows {
		row := row
		if f.Category != "" && row.Category != f.Category ||
			f.Status != "" && row.Status != f.Status ||
			f.UserId != "" && row.UserId != f.UserId ||
			f.MinPrice > 0 && row.Price < f.MinPrice ||
			f.MaxPrice > 0 && row.Price > f.MaxPrice {
			continue
		}
		res = append(res, &row)
	}
	m.mu.Unlock()

	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	limit := int(f.Limit)
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *MemoryProductsModel) Reserve(_ context.Context, id, ownerId, holdId string) (Outcome, error) {
	return m.transit(id, move{from: StatusAvailable, to: StatusReserved, owner: ownerId, hold: holdId})
}

func (m *MemoryProductsModel) Release(_ context.Context, id, holdId string) (Outcome, error) {
	return m.transit(id, move{from: StatusReserved, to: StatusAvailable, hold: holdId})
}

func (m *MemoryProductsModel) Finalize(_ context.Context, id, holdId string) (Outcome, error) {
	return m.transit(id, move{from: StatusReserved, to: StatusSold, hold: holdId})
}

func (m *MemoryProductsModel) transit(id string, mv move) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return mv.classifyMiss(nil, ErrNotFound)
	}
	if !mv.matches(&row) {
		return mv.classifyMiss(&row, nil)
	}
	row.Status = mv.to
	switch mv.to {
	case StatusReserved:
		row.HoldId = mv.hold
	case StatusAvailable:
		row.HoldId = ""
	}
	row.UpdatedAt = m.now()
	m.rows[id] = row
	return Applied, nil
}
