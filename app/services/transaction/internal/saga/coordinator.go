package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/biz"
	"SwapIt/app/common/consts/errno"
	"SwapIt/app/common/snowflake"
	orderdal "SwapIt/app/dal/order"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

const defaultMaxAttempts = 10

// Coordinator runs the order saga: it reserves the product, records the order,
// and settles the reservation once the order reaches a terminal status.
// It keeps no state of its own beyond the order store and its outbox.
type Coordinator struct {
	guard       Guard
	orders      orderdal.OrdersModel
	outbox      orderdal.CompensationsModel
	pub         Publisher
	pay         Payment
	timeout     time.Duration
	maxAttempts int64
	newID       func() string
}

type Option func(*Coordinator)

func WithPayment(p Payment) Option {
	return func(c *Coordinator) { c.pay = p }
}

// WithStepTimeout bounds every store and catalog call made by one saga step.
func WithStepTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxAttempts sets how many times a compensation is tried before it is parked as failed.
func WithMaxAttempts(n int64) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) { c.newID = fn }
}

func NewCoordinator(guard Guard, orders orderdal.OrdersModel, outbox orderdal.CompensationsModel, pub Publisher, opts ...Option) *Coordinator {
	c := &Coordinator{
		guard:       guard,
		orders:      orders,
		outbox:      outbox,
		pub:         pub,
		pay:         StubPayment{},
		timeout:     biz.DependencyTimeout,
		maxAttempts: defaultMaxAttempts,
		newID:       snowflake.NextString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type PlaceRequest struct {
	BuyerID   string
	SellerID  string
	ProductID string
	Amount    float64
}

func (r PlaceRequest) validate() error {
	var missing []string
	for _, f := range [][2]string{{"buyerId", r.BuyerID}, {"sellerId", r.SellerID}, {"productId", r.ProductID}} {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return xerrors.New(errno.InvalidParam, "missing "+strings.Join(missing, ", "))
	}
	if r.Amount <= 0 {
		return xerrors.New(errno.InvalidParam, "amount must be positive")
	}
	return nil
}

// PlaceOrder reserves the product for the seller and records a pending order.
// The reservation is held under the new order's id. A reservation that cannot
// be followed by an order row is released before the error is returned.
func (c *Coordinator) PlaceOrder(ctx context.Context, req PlaceRequest) (*orderdal.Orders, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	logger := logx.WithContext(ctx)

	o := &orderdal.Orders{
		Id:        c.newID(),
		BuyerId:   req.BuyerID,
		SellerId:  req.SellerID,
		ProductId: req.ProductID,
		Amount:    req.Amount,
		Status:    orderdal.StatusPending,
	}

	stepCtx, cancel := context.WithTimeout(ctx, c.timeout)
	outcome, err := c.guard.Reserve(stepCtx, req.ProductID, req.SellerID, o.Id)
	cancel()
	if err != nil {
		// the catalog may have applied the hold before the call failed
		logger.Errorw("reserve product failed", logx.Field("orderId", o.Id), logx.Field("productId", req.ProductID), logx.Field("err", err))
		c.queueRelease(ctx, o, "reserve outcome unknown")
		return nil, xerrors.New(errno.CatalogUnavailable, "catalog unavailable")
	}
	switch outcome {
	case Applied:
	case NotFound:
		return nil, xerrors.New(errno.ProductNotFound, "product not found")
	default:
		return nil, xerrors.New(errno.ProductUnavailable, c.refusal(ctx, req))
	}

	stepCtx, cancel = context.WithTimeout(ctx, c.timeout)
	err = c.orders.Insert(stepCtx, o)
	cancel()
	if err != nil {
		logger.Errorw("insert order failed, releasing reservation",
			logx.Field("orderId", o.Id), logx.Field("productId", o.ProductId), logx.Field("err", err))
		c.releaseLeaked(ctx, o)
		return nil, xerrors.New(errno.StoreUnavailable, "order store unavailable")
	}

	c.pub.Publish(ctx, bus.OrderPlaced{
		OrderID:   o.Id,
		BuyerID:   o.BuyerId,
		SellerID:  o.SellerId,
		ProductID: o.ProductId,
		Amount:    o.Amount,
	})
	logger.Infow("order placed", logx.Field("orderId", o.Id), logx.Field("productId", o.ProductId))
	return o, nil
}

func (c *Coordinator) releaseLeaked(ctx context.Context, o *orderdal.Orders) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	outcome, err := c.guard.Release(ctx, o.ProductId, o.Id)
	if err == nil && outcome == Applied {
		return
	}
	logx.WithContext(ctx).Errorw("release after failed insert did not apply",
		logx.Field("orderId", o.Id), logx.Field("productId", o.ProductId),
		logx.Field("outcome", outcome.String()), logx.Field("err", err))
	if err != nil {
		c.queueRelease(ctx, o, "release after failed insert")
	}
}

// queueRelease leaves a release of o's hold for the relay. Releasing a hold
// that never landed is a no-op, so this is safe when the reservation's fate
// is unknown.
func (c *Coordinator) queueRelease(ctx context.Context, o *orderdal.Orders, reason string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	id, err := c.outbox.Enqueue(ctx, &orderdal.Compensations{
		OrderId:   o.Id,
		ProductId: o.ProductId,
		Action:    orderdal.ActionRelease,
	})
	if err != nil {
		logx.WithContext(ctx).Errorw("queue release failed, product may stay reserved",
			logx.Field("orderId", o.Id), logx.Field("productId", o.ProductId), logx.Field("reason", reason), logx.Field("err", err))
		return
	}
	logx.WithContext(ctx).Infow("release queued for relay",
		logx.Field("compensationId", id), logx.Field("orderId", o.Id), logx.Field("reason", reason))
}

// refusal explains a refused reservation when the guard can read the product.
func (c *Coordinator) refusal(ctx context.Context, req PlaceRequest) string {
	const generic = "product is not available"
	in, ok := c.guard.(Inspector)
	if !ok {
		return generic
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	st, err := in.Inspect(ctx, req.ProductID)
	switch {
	case err != nil:
		return generic
	case st.OwnerID != req.SellerID:
		return "product is not listed by seller " + req.SellerID
	case st.Status != "":
		return "product is " + st.Status
	default:
		return generic
	}
}

func (c *Coordinator) GetOrder(ctx context.Context, id string) (*orderdal.Orders, error) {
	if id == "" {
		return nil, xerrors.New(errno.InvalidParam, "missing order id")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	o, err := c.orders.FindOne(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, err, "order not found")
	}
	return o, nil
}

func (c *Coordinator) ListOrders(ctx context.Context, userID, role string, limit int64) ([]*orderdal.Orders, error) {
	if userID == "" {
		return nil, xerrors.New(errno.InvalidParam, "missing user id")
	}
	if role == "" {
		role = orderdal.RoleBuyer
	}
	if role != orderdal.RoleBuyer && role != orderdal.RoleSeller {
		return nil, xerrors.New(errno.InvalidParam, "role must be buyer or seller")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rows, err := c.orders.ListByUser(ctx, userID, role, limit)
	if err != nil {
		return nil, storeErr(ctx, err, "")
	}
	return rows, nil
}

// UpdateStatus moves an order to status. Asking for the current status is a
// no-op. Once the change commits, the owed catalog call and the status event
// are attempted; their failures are logged and never reach the caller.
func (c *Coordinator) UpdateStatus(ctx context.Context, id, status string) (*orderdal.Orders, error) {
	if !KnownStatus(status) {
		return nil, xerrors.New(errno.InvalidStatus, fmt.Sprintf("unknown status %q", status))
	}
	o, err := c.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == status {
		return o, nil
	}
	r, ok := allowed(o.Status, status)
	if !ok {
		return nil, xerrors.New(errno.InvalidTransition, fmt.Sprintf("cannot move order from %s to %s", o.Status, status))
	}

	var intent string
	if status == orderdal.StatusPaid {
		if intent, err = c.pay.Charge(ctx, o); err != nil {
			logx.WithContext(ctx).Errorw("payment failed", logx.Field("orderId", o.Id), logx.Field("err", err))
			return nil, xerrors.New(errno.PaymentDeclined, "payment declined")
		}
	}

	stepCtx, cancel := context.WithTimeout(ctx, c.timeout)
	compID, err := c.orders.Transit(stepCtx, orderdal.Transition{
		OrderId:         o.Id,
		ProductId:       o.ProductId,
		From:            r.from,
		To:              status,
		PaymentIntentId: intent,
		Compensation:    r.compensation,
	})
	cancel()
	if errors.Is(err, orderdal.ErrStaleStatus) {
		// lost a race with another update; the winner may have asked for the same status
		cur, gerr := c.GetOrder(ctx, id)
		if gerr == nil && cur.Status == status {
			return cur, nil
		}
		return nil, xerrors.New(errno.InvalidTransition, "order status changed concurrently")
	}
	if err != nil {
		return nil, storeErr(ctx, err, "order not found")
	}

	previous := o.Status
	o.Status = status
	if intent != "" {
		o.PaymentIntentId = intent
	}
	if compID != 0 {
		c.settle(ctx, orderdal.Compensations{
			Id:        compID,
			OrderId:   o.Id,
			ProductId: o.ProductId,
			Action:    r.compensation,
			Status:    orderdal.CompensationPending,
		})
	}
	c.pub.Publish(ctx, bus.OrderStatusChanged{
		OrderID:        o.Id,
		ProductID:      o.ProductId,
		PreviousStatus: previous,
		Status:         status,
	})
	return o, nil
}

// Pay charges the buyer and marks a pending order paid.
func (c *Coordinator) Pay(ctx context.Context, id string) (*orderdal.Orders, error) {
	return c.UpdateStatus(ctx, id, orderdal.StatusPaid)
}

func storeErr(ctx context.Context, err error, notFound string) error {
	if errors.Is(err, orderdal.ErrNotFound) && notFound != "" {
		return xerrors.New(errno.OrderNotFound, notFound)
	}
	logx.WithContext(ctx).Errorw("order store failed", logx.Field("err", err))
	return xerrors.New(errno.StoreUnavailable, "order store unavailable")
}
