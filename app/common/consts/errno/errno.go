package errno

const (
	StatusOK = 10000
)

// 400xx: the caller sent something we cannot act on.
const (
	InvalidParam = 40000 + iota
	InvalidStatus
	InvalidTransition
)

const (
	PaymentDeclined = 40200
)

// 404xx: a referenced entity does not exist.
const (
	ProductNotFound = 40400 + iota
	OrderNotFound
)

// 409xx: the caller lost a race for a shared resource.
const (
	ProductUnavailable = 40900 + iota
)

const (
	InternalError = 50000
)

// 503xx: a collaborator (store, catalog, bus) is unreachable. Not the caller's fault.
const (
	DependencyUnavailable = 50300 + iota
	CatalogUnavailable
	StoreUnavailable
)
