package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdomain "github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
	catalogmemory "github.com/quickmeds/pharmacy-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	inventorymemory "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/memory"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	ordersmemory "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/memory"
	types "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
)

type fixture struct {
	service  *Service
	repo     ports.Repository
	stock    *inventorymemory.Ledger
	carts    *fakeCartRepo
	releaser *fakeReleaser
	verifier *payments.Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := catalogmemory.NewReader(
		catalogports.Item{ID: "med-1", Name: "Paracetamol", Price: 30, Active: true},
		catalogports.Item{ID: "med-2", Name: "Cetirizine", Price: 115, Active: true},
		catalogports.Item{ID: "med-gone", Name: "Discontinued", Price: 99, Active: false},
	)
	stock := inventorymemory.NewLedger()
	stock.Seed("med-1", 10)
	stock.Seed("med-2", 5)

	promos := ordersmemory.NewPromoTable(
		ports.Promo{Code: "SAVE20", Amount: 20, ExpiresAt: time.Now().UTC().Add(24 * time.Hour)},
	)
	repo := ordersmemory.NewRepository()
	carts := &fakeCartRepo{carts: map[string]*cartdomain.Cart{}}
	releaser := &fakeReleaser{}
	verifier := payments.NewVerifier("test-secret")

	svc := NewService(Deps{
		Repo:     repo,
		Catalog:  catalog,
		Stock:    stock,
		Promos:   promos,
		Carts:    carts,
		Verifier: verifier,
		Releaser: releaser,
		Pharmacy: &domain.GeoPoint{Lat: 28.61, Lng: 77.21, UpdatedAt: time.Now().UTC()},
	})
	return &fixture{service: svc, repo: repo, stock: stock, carts: carts, releaser: releaser, verifier: verifier}
}

type fakeCartRepo struct {
	carts map[string]*cartdomain.Cart
}

func (f *fakeCartRepo) Get(_ context.Context, userID string) (*cartdomain.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	return nil, cartports.ErrNotFound
}

func (f *fakeCartRepo) Save(_ context.Context, cart *cartdomain.Cart) error {
	f.carts[cart.UserID] = cart
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.carts[userID]; !ok {
		return cartports.ErrNotFound
	}
	delete(f.carts, userID)
	return nil
}

func (f *fakeCartRepo) PurgeStale(_ context.Context, _ time.Time) (int, error) { return 0, nil }

type fakeReleaser struct {
	released  [][2]string
	reclaimed [][2]string
	err       error
}

func (f *fakeReleaser) ReleaseAgent(_ context.Context, agentID, orderID string) error {
	if f.err != nil {
		return f.err
	}
	f.released = append(f.released, [2]string{agentID, orderID})
	return nil
}

func (f *fakeReleaser) ReclaimAgent(_ context.Context, agentID, orderID string) error {
	f.reclaimed = append(f.reclaimed, [2]string{agentID, orderID})
	return nil
}

// failingRepo fails the next Update call, then delegates.
type failingRepo struct {
	ports.Repository
	failNext bool
}

func (r *failingRepo) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if r.failNext {
		r.failNext = false
		return nil, errors.New("order write failed")
	}
	return r.Repository.Update(ctx, order)
}

func codInput() types.CreateOrderInput {
	return types.CreateOrderInput{
		UserID: "user-1",
		Lines: []types.LineItemInput{
			{ItemID: "med-1", Quantity: 2},
			{ItemID: "med-2", Quantity: 1},
		},
		Address:       domain.Address{Line1: "12 MG Road", City: "Delhi", PostalCode: "110001"},
		PaymentMethod: domain.PaymentCOD,
	}
}

func TestCreateOrder_CODHappyPath(t *testing.T) {
	f := newFixture(t)
	f.carts.carts["user-1"] = &cartdomain.Cart{UserID: "user-1"}

	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, domain.PaymentPending, order.PaymentStatus)
	require.Equal(t, 175.0, order.Subtotal)
	require.Equal(t, 256.5, order.Total)

	// First tracking event confirms the order without a transition.
	require.Len(t, order.Timeline, 1)
	require.Equal(t, "Order Confirmed", order.Timeline[0].Message)
	require.Equal(t, domain.StatusPending, order.Timeline[0].Status)

	// Stock committed and cart cleared.
	qty, err := f.stock.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 8, qty)
	require.NotContains(t, f.carts.carts, "user-1")
}

func TestCreateOrder_GatewayHappyPath(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.PaymentMethod = domain.PaymentGateway
	input.Gateway = &domain.GatewayProof{
		GatewayOrderID: "gw-1",
		PaymentID:      "pay-1",
		Signature:      f.verifier.Sign("gw-1", "pay-1"),
	}

	order, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, order.Status)
	require.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	require.NotNil(t, order.Gateway)
}

func TestCreateOrder_TamperedSignatureRejectedBeforeStockCommit(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.PaymentMethod = domain.PaymentGateway
	input.Gateway = &domain.GatewayProof{GatewayOrderID: "gw-1", PaymentID: "pay-1", Signature: "deadbeef"}

	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrPaymentSignatureInvalid)

	qty, err := f.stock.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 10, qty)
}

func TestCreateOrder_NoVerifierMeansGatewayUnavailable(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Deps{Repo: f.repo, Catalog: catalogmemory.NewReader(
		catalogports.Item{ID: "med-1", Name: "Paracetamol", Price: 30, Active: true},
	), Stock: f.stock})
	input := types.CreateOrderInput{
		UserID:        "user-1",
		Lines:         []types.LineItemInput{{ItemID: "med-1", Quantity: 1}},
		PaymentMethod: domain.PaymentGateway,
		Gateway:       &domain.GatewayProof{GatewayOrderID: "gw", PaymentID: "pay", Signature: "sig"},
	}
	_, err := svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, payments.ErrGatewayUnavailable)
}

func TestCreateOrder_InsufficientStockLeavesNoPartialDecrement(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.Lines = []types.LineItemInput{
		{ItemID: "med-1", Quantity: 2},
		{ItemID: "med-2", Quantity: 50},
	}
	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, inventoryports.ErrInsufficientStock)

	qty1, err := f.stock.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 10, qty1)
	qty2, err := f.stock.Quantity(context.Background(), "med-2")
	require.NoError(t, err)
	require.Equal(t, 5, qty2)
}

func TestCreateOrder_InactiveItemRejected(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.Lines = []types.LineItemInput{{ItemID: "med-gone", Quantity: 1}}
	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCreateOrder_UnknownItemRejected(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.Lines = []types.LineItemInput{{ItemID: "ghost", Quantity: 1}}
	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCreateOrder_PromoApplied(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.PromoCode = "SAVE20"
	order, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 20.0, order.Discount)
	require.Equal(t, 236.5, order.Total)
}

func TestCreateOrder_InvalidPromoRejected(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.PromoCode = "NOPE"
	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrPromoInvalid)
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	f := newFixture(t)

	input := codInput()
	input.UserID = ""
	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)

	input = codInput()
	input.Lines = nil
	_, err = f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)

	input = codInput()
	input.Lines[0].Quantity = 0
	_, err = f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ForwardTransitionWithDefaultMessage(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(context.Background(), types.StatusUpdateInput{
		OrderID: order.ID,
		Status:  domain.StatusConfirmed,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, updated.Status)
	last, ok := updated.LastEvent()
	require.True(t, ok)
	require.Equal(t, "Order Confirmed", last.Message)
}

func TestUpdateStatus_IllegalSkipRejected(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), types.StatusUpdateInput{
		OrderID: order.ID,
		Status:  domain.StatusShipped,
	})
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	reloaded, err := f.service.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reloaded.Status)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	qty, _ := f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 8, qty)

	cancelled, err := f.service.CancelOrder(context.Background(), order.ID, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)

	qty, _ = f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 10, qty)
	qty, _ = f.stock.Quantity(context.Background(), "med-2")
	require.Equal(t, 5, qty)
}

func TestCancelOrder_ReleasesAssignedAgent(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	// Bind an agent the way the dispatcher would.
	stored, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	stored.BindAgent(domain.AgentSnapshot{AgentID: "agent-7", Name: "Ravi"}, nil)
	_, err = f.repo.Update(context.Background(), stored)
	require.NoError(t, err)

	_, err = f.service.CancelOrder(context.Background(), order.ID, "")
	require.NoError(t, err)
	require.Len(t, f.releaser.released, 1)
	require.Equal(t, "agent-7", f.releaser.released[0][0])
	require.Equal(t, order.ID, f.releaser.released[0][1])
}

func TestCancelOrder_DeliveredOrderRejected(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	for _, next := range []domain.Status{
		domain.StatusConfirmed, domain.StatusProcessing, domain.StatusPacked,
		domain.StatusShipped, domain.StatusOutForDelivery, domain.StatusDelivered,
	} {
		_, err = f.service.UpdateStatus(context.Background(), types.StatusUpdateInput{OrderID: order.ID, Status: next})
		require.NoError(t, err)
	}

	_, err = f.service.CancelOrder(context.Background(), order.ID, "")
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestUpdateStatus_CancellationRoutesThroughCompensation(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	cancelled, err := f.service.UpdateStatus(context.Background(), types.StatusUpdateInput{
		OrderID: order.ID,
		Status:  domain.StatusCancelled,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)

	qty, _ := f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 10, qty)
}

func TestTrack_SynthesizesMissingGeoAsSimulated(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	view, err := f.service.Track(context.Background(), order.Number)
	require.NoError(t, err)
	require.Equal(t, order.Number, view.OrderNumber)
	require.Len(t, view.Events, 1)

	// The pharmacy pin was persisted at creation; the rest are placeholders.
	require.False(t, view.Pharmacy.Simulated)
	require.Equal(t, 28.61, view.Pharmacy.Lat)
	require.True(t, view.Destination.Simulated)
	require.True(t, view.AgentPosition.Simulated)
}

func TestTrack_UsesPersistedDestination(t *testing.T) {
	f := newFixture(t)
	input := codInput()
	input.Address.Location = &domain.GeoPoint{Lat: 28.7, Lng: 77.3, UpdatedAt: time.Now().UTC()}
	order, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	view, err := f.service.Track(context.Background(), order.Number)
	require.NoError(t, err)
	require.False(t, view.Destination.Simulated)
	require.Equal(t, 28.7, view.Destination.Lat)
}

func TestTrack_UnknownNumber(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Track(context.Background(), "RX-20260101-DEADBEEF")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListUserOrders(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)
	input := codInput()
	input.Lines = []types.LineItemInput{{ItemID: "med-1", Quantity: 1}}
	_, err = f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	orders, err := f.service.ListUserOrders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestCancelOrder_ReleaseFailureLeavesOrderRetryable(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	stored.BindAgent(domain.AgentSnapshot{AgentID: "agent-7"}, nil)
	_, err = f.repo.Update(context.Background(), stored)
	require.NoError(t, err)

	f.releaser.err = errors.New("agent directory down")
	_, err = f.service.CancelOrder(context.Background(), order.ID, "")
	require.Error(t, err)

	// The restock was rolled back and the order left untouched, so the same
	// cancellation can be retried once the agent directory is back.
	qty, _ := f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 8, qty)
	reloaded, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reloaded.Status)
	require.NotNil(t, reloaded.Agent)

	f.releaser.err = nil
	cancelled, err := f.service.CancelOrder(context.Background(), order.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	qty, _ = f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 10, qty)
	require.Len(t, f.releaser.released, 1)
}

func TestCancelOrder_OrderWriteFailureRollsBackCompensation(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	stored.BindAgent(domain.AgentSnapshot{AgentID: "agent-7"}, nil)
	_, err = f.repo.Update(context.Background(), stored)
	require.NoError(t, err)

	flaky := &failingRepo{Repository: f.repo, failNext: true}
	svc := NewService(Deps{Repo: flaky, Stock: f.stock, Releaser: f.releaser})

	_, err = svc.CancelOrder(context.Background(), order.ID, "")
	require.Error(t, err)

	// The released agent was re-claimed and the restock re-committed, so the
	// store matches the still-active order.
	require.Len(t, f.releaser.released, 1)
	require.Len(t, f.releaser.reclaimed, 1)
	require.Equal(t, f.releaser.released[0], f.releaser.reclaimed[0])
	qty, _ := f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 8, qty)
	reloaded, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reloaded.Status)

	cancelled, err := svc.CancelOrder(context.Background(), order.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	qty, _ = f.stock.Quantity(context.Background(), "med-1")
	require.Equal(t, 10, qty)
}
