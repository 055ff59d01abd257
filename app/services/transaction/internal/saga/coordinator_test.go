package saga

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/errno"
	catalogdal "SwapIt/app/dal/catalog"
	orderdal "SwapIt/app/dal/order"

	xerrors "github.com/zeromicro/x/errors"
)

type memGuard struct {
	products *catalogdal.MemoryProductsModel
	down     atomic.Bool
	// lost replies: the catalog applies the call, the caller sees a timeout
	lostReserves atomic.Int32
	lostReleases atomic.Int32
}

func toOutcome(o catalogdal.Outcome) Outcome {
	switch o {
	case catalogdal.Applied:
		return Applied
	case catalogdal.NotFound:
		return NotFound
	default:
		return Conflict
	}
}

var errCatalogDown = errors.New("dial tcp: connection refused")

func lose(n *atomic.Int32) bool {
	for {
		cur := n.Load()
		if cur <= 0 {
			return false
		}
		if n.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}

func (g *memGuard) Reserve(ctx context.Context, id, owner, hold string) (Outcome, error) {
	if g.down.Load() {
		return 0, errCatalogDown
	}
	o, err := g.products.Reserve(ctx, id, owner, hold)
	if err == nil && lose(&g.lostReserves) {
		return 0, context.DeadlineExceeded
	}
	return toOutcome(o), err
}

func (g *memGuard) Release(ctx context.Context, id, hold string) (Outcome, error) {
	if g.down.Load() {
		return 0, errCatalogDown
	}
	o, err := g.products.Release(ctx, id, hold)
	if err == nil && lose(&g.lostReleases) {
		return 0, context.DeadlineExceeded
	}
	return toOutcome(o), err
}

func (g *memGuard) Finalize(ctx context.Context, id, hold string) (Outcome, error) {
	if g.down.Load() {
		return 0, errCatalogDown
	}
	o, err := g.products.Finalize(ctx, id, hold)
	return toOutcome(o), err
}

func (g *memGuard) Inspect(ctx context.Context, id string) (ProductState, error) {
	if g.down.Load() {
		return ProductState{}, errCatalogDown
	}
	p, err := g.products.FindOne(ctx, id)
	if err != nil {
		return ProductState{}, err
	}
	return ProductState{OwnerID: p.UserId, Status: p.Status}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []bus.Event
}

func (r *recorder) Publish(_ context.Context, evt bus.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type() == typ {
			n++
		}
	}
	return n
}

type brokenInsert struct {
	*orderdal.MemoryStore
}

func (brokenInsert) Insert(context.Context, *orderdal.Orders) error {
	return errors.New("connection reset by peer")
}

type fixture struct {
	guard    *memGuard
	store    *orderdal.MemoryStore
	events   *recorder
	coord    *Coordinator
	products *catalogdal.MemoryProductsModel
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	products := catalogdal.NewMemoryProductsModel()
	if err := products.Insert(context.Background(), &catalogdal.Products{Id: "p1", UserId: "s1", Title: "Bike", Price: 50, Status: catalogdal.StatusAvailable}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	f := &fixture{
		guard:    &memGuard{products: products},
		store:    orderdal.NewMemoryStore(),
		events:   &recorder{},
		products: products,
	}
	f.coord = NewCoordinator(f.guard, f.store, f.store, f.events, opts...)
	return f
}

func (f *fixture) productStatus(t *testing.T) string {
	t.Helper()
	p, err := f.products.FindOne(context.Background(), "p1")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p.Status
}

func (f *fixture) place(t *testing.T) *orderdal.Orders {
	t.Helper()
	o, err := f.coord.PlaceOrder(context.Background(), PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1", Amount: 50})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return o
}

func (f *fixture) product(t *testing.T) *catalogdal.Products {
	t.Helper()
	p, err := f.products.FindOne(context.Background(), "p1")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p
}

func TestPlaceOrderReservesAndPublishes(t *testing.T) {
	f := newFixture(t)
	o := f.place(t)
	if o.Status != orderdal.StatusPending || o.Id == "" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if s := f.productStatus(t); s != catalogdal.StatusReserved {
		t.Fatalf("expected reserved product, got %s", s)
	}
	if f.events.count(bus.TypeOrderPlaced) != 1 {
		t.Fatalf("expected one OrderPlaced")
	}
}

func TestPlaceOrderRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cases := []struct {
		name string
		req  PlaceRequest
		code int
	}{
		{"missing buyer", PlaceRequest{SellerID: "s1", ProductID: "p1", Amount: 5}, errno.InvalidParam},
		{"zero amount", PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1"}, errno.InvalidParam},
		{"unknown product", PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "nope", Amount: 5}, errno.ProductNotFound},
		{"wrong seller", PlaceRequest{BuyerID: "b1", SellerID: "s2", ProductID: "p1", Amount: 5}, errno.ProductUnavailable},
	}
	for _, c := range cases {
		_, err := f.coord.PlaceOrder(ctx, c.req)
		if errno.Code(err) != c.code {
			t.Fatalf("%s: expected code %d, got %v", c.name, c.code, err)
		}
	}

	f.guard.down.Store(true)
	_, err := f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1", Amount: 5})
	if !errno.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.events.count(bus.TypeOrderPlaced) != 0 {
		t.Fatalf("rejected orders must not publish")
	}
}

func TestFailedInsertReleasesReservation(t *testing.T) {
	f := newFixture(t)
	f.coord = NewCoordinator(f.guard, brokenInsert{f.store}, f.store, f.events)

	_, err := f.coord.PlaceOrder(context.Background(), PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1", Amount: 50})
	if errno.Code(err) != errno.StoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if s := f.productStatus(t); s != catalogdal.StatusAvailable {
		t.Fatalf("reservation leaked, product is %s", s)
	}
}

func TestCancelReturnsProduct(t *testing.T) {
	f := newFixture(t)
	o := f.place(t)

	got, err := f.coord.UpdateStatus(context.Background(), o.Id, orderdal.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != orderdal.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if s := f.productStatus(t); s != catalogdal.StatusAvailable {
		t.Fatalf("expected available product, got %s", s)
	}
	if pending, _ := f.store.Pending(context.Background(), 10); len(pending) != 0 {
		t.Fatalf("settled compensation still pending: %+v", pending)
	}
	if f.events.count(bus.TypeOrderStatusChanged) != 1 {
		t.Fatalf("expected one OrderStatusChanged")
	}
}

func TestLifecycleToDelivered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.place(t)

	paid, err := f.coord.Pay(ctx, o.Id)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.PaymentIntentId == "" {
		t.Fatalf("payment intent not recorded")
	}
	for _, s := range []string{orderdal.StatusShipped, orderdal.StatusDelivered} {
		if _, err := f.coord.UpdateStatus(ctx, o.Id, s); err != nil {
			t.Fatalf("update to %s: %v", s, err)
		}
	}
	if s := f.productStatus(t); s != catalogdal.StatusSold {
		t.Fatalf("expected sold product, got %s", s)
	}
}

func TestSameStatusIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.place(t)
	if _, err := f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusCancelled); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if f.events.count(bus.TypeOrderStatusChanged) != 1 {
		t.Fatalf("repeat cancel had side effects")
	}
}

func TestIllegalTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.place(t)
	if _, err := f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	_, err := f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusCancelled)
	if errno.Code(err) != errno.InvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := f.coord.UpdateStatus(ctx, o.Id, "refunded"); errno.Code(err) != errno.InvalidStatus {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := f.coord.UpdateStatus(ctx, "missing", orderdal.StatusPaid); errno.Code(err) != errno.OrderNotFound {
		t.Fatalf("expected order not found, got %v", err)
	}
	if s := f.productStatus(t); s != catalogdal.StatusSold {
		t.Fatalf("rejected cancel touched the product: %s", s)
	}
}

func TestConcurrentBuyersGetOneOrder(t *testing.T) {
	f := newFixture(t)
	var (
		wg        sync.WaitGroup
		placed    atomic.Int32
		conflicts atomic.Int32
	)
	for _, buyer := range []string{"b1", "b2", "b3", "b4"} {
		wg.Add(1)
		buyer := buyer
		go func() {
			defer wg.Done()
			_, err := f.coord.PlaceOrder(context.Background(), PlaceRequest{BuyerID: buyer, SellerID: "s1", ProductID: "p1", Amount: 50})
			switch {
			case err == nil:
				placed.Add(1)
			case errno.IsConflict(err):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if placed.Load() != 1 || conflicts.Load() != 3 {
		t.Fatalf("placed=%d conflicts=%d", placed.Load(), conflicts.Load())
	}
}

func TestCompensationRelayedAfterCatalogRecovers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.place(t)

	f.guard.down.Store(true)
	if _, err := f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusCancelled); err != nil {
		t.Fatalf("cancel must not surface catalog failure: %v", err)
	}
	pending, _ := f.store.Pending(ctx, 10)
	if len(pending) != 1 || pending[0].Attempts != 1 {
		t.Fatalf("expected one pending compensation after first attempt, got %+v", pending)
	}
	if s := f.productStatus(t); s != catalogdal.StatusReserved {
		t.Fatalf("expected product still reserved, got %s", s)
	}

	f.guard.down.Store(false)
	done, err := f.coord.RelayCompensations(ctx, 10)
	if err != nil || done != 1 {
		t.Fatalf("relay: done=%d err=%v", done, err)
	}
	if s := f.productStatus(t); s != catalogdal.StatusAvailable {
		t.Fatalf("expected available after relay, got %s", s)
	}
}

func TestCompensationParkedAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithMaxAttempts(2))
	o := f.place(t)

	f.guard.down.Store(true)
	_, _ = f.coord.UpdateStatus(ctx, o.Id, orderdal.StatusDelivered)
	pending, _ := f.store.Pending(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("expected pending compensation")
	}
	id := pending[0].Id
	_, _ = f.coord.RelayCompensations(ctx, 10)

	row, _ := f.store.Compensation(id)
	if row.Status != orderdal.CompensationFailed || row.Attempts != 2 {
		t.Fatalf("expected failed after 2 attempts, got %+v", row)
	}
	if pending, _ := f.store.Pending(ctx, 10); len(pending) != 0 {
		t.Fatalf("failed compensation still relayed")
	}
}

func TestDegradedBusDoesNotAffectOrders(t *testing.T) {
	f := newFixture(t)
	f.coord = NewCoordinator(f.guard, f.store, f.store, bus.NewClient(bus.Conf{}))
	o := f.place(t)
	if _, err := f.coord.UpdateStatus(context.Background(), o.Id, orderdal.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestReservationHeldUnderOrderID(t *testing.T) {
	f := newFixture(t)
	o := f.place(t)
	if p := f.product(t); p.HoldId != o.Id {
		t.Fatalf("expected hold %s, got %q", o.Id, p.HoldId)
	}
}

func TestRelayedReleaseCannotFreeNewerReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.place(t)

	// the release lands but its reply is lost, so the outbox row stays pending
	f.guard.lostReleases.Store(1)
	if _, err := f.coord.UpdateStatus(ctx, first.Id, orderdal.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if pending, _ := f.store.Pending(ctx, 10); len(pending) != 1 {
		t.Fatalf("expected the release to stay pending, got %+v", pending)
	}

	second, err := f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b2", SellerID: "s1", ProductID: "p1", Amount: 50})
	if err != nil {
		t.Fatalf("second order: %v", err)
	}
	done, err := f.coord.RelayCompensations(ctx, 10)
	if err != nil || done != 1 {
		t.Fatalf("relay: done=%d err=%v", done, err)
	}
	if p := f.product(t); p.Status != catalogdal.StatusReserved || p.HoldId != second.Id {
		t.Fatalf("second order lost its reservation: %+v", p)
	}

	_, err = f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b3", SellerID: "s1", ProductID: "p1", Amount: 50})
	if !errno.IsConflict(err) {
		t.Fatalf("third order must conflict, got %v", err)
	}
	if pending, _ := f.store.Pending(ctx, 10); len(pending) != 0 {
		t.Fatalf("settled release still pending: %+v", pending)
	}
}

func TestUnansweredReserveIsQueuedForRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.guard.lostReserves.Store(1)
	_, err := f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1", Amount: 50})
	if !errno.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if s := f.productStatus(t); s != catalogdal.StatusReserved {
		t.Fatalf("expected the unanswered hold to have landed, got %s", s)
	}
	pending, _ := f.store.Pending(ctx, 10)
	if len(pending) != 1 || pending[0].Action != orderdal.ActionRelease || pending[0].OrderId != f.product(t).HoldId {
		t.Fatalf("expected a queued release of the hold, got %+v", pending)
	}

	if done, _ := f.coord.RelayCompensations(ctx, 10); done != 1 {
		t.Fatalf("relay did not settle the release")
	}
	if s := f.productStatus(t); s != catalogdal.StatusAvailable {
		t.Fatalf("expected available after relay, got %s", s)
	}
	f.place(t)
}

func TestQueuedReleaseOfMissedReserveIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.guard.down.Store(true)
	if _, err := f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b1", SellerID: "s1", ProductID: "p1", Amount: 50}); !errno.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	f.guard.down.Store(false)
	o := f.place(t)

	if done, _ := f.coord.RelayCompensations(ctx, 10); done != 1 {
		t.Fatalf("relay did not settle the release")
	}
	if p := f.product(t); p.Status != catalogdal.StatusReserved || p.HoldId != o.Id {
		t.Fatalf("queued release touched a later order's hold: %+v", p)
	}
}

func TestRefusalNamesTheReason(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b1", SellerID: "s2", ProductID: "p1", Amount: 50})
	if msg := errMsg(err); msg != "product is not listed by seller s2" {
		t.Fatalf("unexpected refusal for wrong seller: %q", msg)
	}

	f.place(t)
	_, err = f.coord.PlaceOrder(ctx, PlaceRequest{BuyerID: "b2", SellerID: "s1", ProductID: "p1", Amount: 50})
	if msg := errMsg(err); msg != "product is reserved" {
		t.Fatalf("unexpected refusal for reserved product: %q", msg)
	}
}

func errMsg(err error) string {
	var ce *xerrors.CodeMsg
	if errors.As(err, &ce) {
		return ce.Msg
	}
	return ""
}
