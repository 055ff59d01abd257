package order

import (
	"errors"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var ErrNotFound = sqlx.ErrNotFound

// ErrStaleStatus means the order exists but was not in any of the expected statuses.
var ErrStaleStatus = errors.New("order status changed concurrently")

var ErrDuplicateKey = errors.New("duplicate order id")

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Compensation actions replayed against the catalog.
const (
	ActionRelease  = "release"
	ActionFinalize = "finalize"
)

const (
	CompensationPending = "pending"
	CompensationDone    = "done"
	CompensationFailed  = "failed"
)

const defaultListLimit = 50

func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}
