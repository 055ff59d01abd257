package saga

import (
	"slices"

	orderdal "SwapIt/app/dal/order"
)

type rule struct {
	from         []string
	compensation string
}

// rules lists, per target status, the statuses an order may leave for it and
// the catalog call owed once the change commits.
var rules = map[string]rule{
	orderdal.StatusPaid: {
		from: []string{orderdal.StatusPending},
	},
	orderdal.StatusShipped: {
		from: []string{orderdal.StatusPending, orderdal.StatusPaid},
	},
	orderdal.StatusDelivered: {
		from:         []string{orderdal.StatusPending, orderdal.StatusPaid, orderdal.StatusShipped},
		compensation: orderdal.ActionFinalize,
	},
	orderdal.StatusCancelled: {
		from:         []string{orderdal.StatusPending, orderdal.StatusPaid, orderdal.StatusShipped},
		compensation: orderdal.ActionRelease,
	},
}

func KnownStatus(s string) bool {
	_, ok := rules[s]
	return ok || s == orderdal.StatusPending
}

func allowed(from, to string) (rule, bool) {
	r, ok := rules[to]
	if !ok || !slices.Contains(r.from, from) {
		return rule{}, false
	}
	return r, true
}
