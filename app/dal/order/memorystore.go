package order

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

var (
	_ OrdersModel        = (*MemoryStore)(nil)
	_ CompensationsModel = (*MemoryStore)(nil)
)

// MemoryStore keeps orders and their outbox together so Transit stays atomic
// without a database. Used in development mode and tests.
type MemoryStore struct {
	mu       sync.Mutex
	orders   map[string]Orders
	comps    []Compensations
	nextComp int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]Orders), now: time.Now}
}

func (s *MemoryStore) Insert(_ context.Context, data *Orders) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[data.Id]; ok {
		return ErrDuplicateKey
	}
	row := *data
	row.CreatedAt = s.now()
	row.UpdatedAt = row.CreatedAt
	s.orders[row.Id] = row
	*data = row
	return nil
}

func (s *MemoryStore) FindOne(_ context.Context, id string) (*Orders, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userId, role string, limit int64) ([]*Orders, error) {
	s.mu.Lock()
	var res []*Orders
	for _, row := range s.orders {
		row := row
		owner := row.BuyerId
		if role == RoleSeller {
			owner = row.SellerId
		}
		if owner == userId {
			res = append(res, &row)
		}
	}
	s.mu.Unlock()

	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if n := clampLimit(limit); int64(len(res)) > n {
		res = res[:n]
	}
	return res, nil
}

func (s *MemoryStore) Transit(_ context.Context, t Transition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.orders[t.OrderId]
	if !ok {
		return 0, ErrNotFound
	}
	if !slices.Contains(t.From, row.Status) {
		return 0, ErrStaleStatus
	}
	row.Status = t.To
	if t.PaymentIntentId != "" {
		row.PaymentIntentId = t.PaymentIntentId
	}
	row.UpdatedAt = s.now()
	s.orders[row.Id] = row

	if t.Compensation == "" {
		return 0, nil
	}
	return s.enqueue(t.OrderId, t.ProductId, t.Compensation), nil
}

func (s *MemoryStore) Enqueue(_ context.Context, data *Compensations) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueue(data.OrderId, data.ProductId, data.Action), nil
}

// enqueue appends a pending row; callers hold mu.
func (s *MemoryStore) enqueue(orderId, productId, action string) int64 {
	now := s.now()
	s.nextComp++
	s.comps = append(s.comps, Compensations{
		Id:        s.nextComp,
		OrderId:   orderId,
		ProductId: productId,
		Action:    action,
		Status:    CompensationPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return s.nextComp
}

func (s *MemoryStore) Pending(_ context.Context, limit int64) ([]*Compensations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := clampLimit(limit)
	var res []*Compensations
	for _, c := range s.comps {
		c := c
		if int64(len(res)) == n {
			break
		}
		if c.Status == CompensationPending {
			res = append(res, &c)
		}
	}
	return res, nil
}

func (s *MemoryStore) MarkDone(_ context.Context, id int64) error {
	s.update(id, func(c *Compensations) { c.Status = CompensationDone })
	return nil
}

func (s *MemoryStore) MarkFailed(_ context.Context, id int64) error {
	s.update(id, func(c *Compensations) { c.Status = CompensationFailed })
	return nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, id int64, reason string) error {
	s.update(id, func(c *Compensations) {
		c.Attempts++
		c.LastError = truncate(reason, 255)
	})
	return nil
}

func (s *MemoryStore) update(id int64, fn func(c *Compensations)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comps {
		if s.comps[i].Id == id && s.comps[i].Status == CompensationPending {
			fn(&s.comps[i])
			s.comps[i].UpdatedAt = s.now()
			return
		}
	}
}

// Compensation returns a copy of one outbox row, for inspection.
func (s *MemoryStore) Compensation(id int64) (Compensations, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comps {
		if c.Id == id {
			return c, true
		}
	}
	return Compensations{}, false
}
