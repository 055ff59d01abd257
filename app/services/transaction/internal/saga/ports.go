package saga

import (
	"context"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/snowflake"
	orderdal "SwapIt/app/dal/order"
)

// Outcome is the catalog's answer to a guarded status change.
type Outcome int

const (
	Applied Outcome = iota + 1
	Conflict
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Guard is the catalog's reservation guard. Errors mean the catalog could not
// be reached; business answers come back as an Outcome.
//
// Every call names the hold, the id of the order the reservation is for.
// Release and Finalize only act while that hold is on the product; a release
// whose hold was already replaced reports Applied without touching the product.
type Guard interface {
	Reserve(ctx context.Context, productID, ownerID, holdID string) (Outcome, error)
	Release(ctx context.Context, productID, holdID string) (Outcome, error)
	Finalize(ctx context.Context, productID, holdID string) (Outcome, error)
}

// ProductState is what the catalog currently says about a product.
type ProductState struct {
	OwnerID string
	Status  string
}

// Inspector reads a product without changing it. A Guard that also
// implements it gets refused reservations explained to the caller.
type Inspector interface {
	Inspect(ctx context.Context, productID string) (ProductState, error)
}

type Publisher interface {
	Publish(ctx context.Context, evt bus.Event)
}

// Payment charges the buyer for an order and returns the payment intent id.
type Payment interface {
	Charge(ctx context.Context, o *orderdal.Orders) (string, error)
}

// StubPayment approves every charge with a mock intent id.
type StubPayment struct{}

func (StubPayment) Charge(context.Context, *orderdal.Orders) (string, error) {
	return "pi_mock_" + snowflake.NextString(), nil
}
