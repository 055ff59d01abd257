package bus

const (
	TypeOrderPlaced        = "OrderPlaced"
	TypeOrderStatusChanged = "OrderStatusChanged"
	TypeOrderDelivered     = "OrderDelivered"
	TypeItemCreated        = "ItemCreated"
	TypeUserRegistered     = "UserRegistered"
	TypeMessageSent        = "MessageSent"
)

// Event is one case of the closed set of events carried by the bus.
// Consumers switch on the concrete type; Key identifies the entity the event is about.
type Event interface {
	Type() string
	Key() string
	event()
}

type OrderPlaced struct {
	OrderID   string  `json:"orderId"`
	BuyerID   string  `json:"buyerId"`
	SellerID  string  `json:"sellerId"`
	ProductID string  `json:"productId"`
	Amount    float64 `json:"amount"`
}

func (OrderPlaced) Type() string  { return TypeOrderPlaced }
func (e OrderPlaced) Key() string { return e.OrderID }
func (OrderPlaced) event()        {}

// OrderStatusChanged is republished after every committed status transition.
type OrderStatusChanged struct {
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

func (OrderStatusChanged) Type() string { return TypeOrderStatusChanged }

// Key includes the status: one order emits several of these over its life.
func (e OrderStatusChanged) Key() string { return e.OrderID + "." + e.Status }
func (OrderStatusChanged) event()        {}

// OrderDelivered comes from the delivery service once a shipment reaches the buyer.
type OrderDelivered struct {
	ShipmentID string `json:"shipmentId"`
	OrderID    string `json:"orderId"`
}

func (OrderDelivered) Type() string  { return TypeOrderDelivered }
func (e OrderDelivered) Key() string { return e.OrderID }
func (OrderDelivered) event()        {}

type ItemCreated struct {
	ProductID   string  `json:"productId"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (ItemCreated) Type() string  { return TypeItemCreated }
func (e ItemCreated) Key() string { return e.ProductID }
func (ItemCreated) event()        {}

type UserRegistered struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (UserRegistered) Type() string  { return TypeUserRegistered }
func (e UserRegistered) Key() string { return e.UserID }
func (UserRegistered) event()        {}

type MessageSent struct {
	MessageID  string `json:"messageId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (MessageSent) Type() string  { return TypeMessageSent }
func (e MessageSent) Key() string { return e.MessageID }
func (MessageSent) event()        {}
