//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("pharmacy_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newStoredOrder(t *testing.T) *domain.Order {
	t.Helper()
	lines := []domain.LineItem{
		{ItemID: "med-1", Name: "Paracetamol 500mg", Quantity: 2, UnitPrice: 30, LineTotal: 60},
		{ItemID: "med-2", Name: "Cetirizine 10mg", Quantity: 1, UnitPrice: 115, LineTotal: 115},
	}
	quote := domain.PriceQuote(175, 0)
	order, err := domain.NewOrder("user-1", lines, domain.Address{
		Line1:      "12 MG Road",
		City:       "Delhi",
		PostalCode: "110001",
		Location:   &domain.GeoPoint{Lat: 28.5355, Lng: 77.3910},
	}, quote, domain.PaymentCOD)
	require.NoError(t, err)
	order.Destination = order.Address.Location
	order.AppendEvent(domain.StatusPending, "Order Confirmed", "")
	return order
}

func TestOrderRepository_CreateAndFetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newStoredOrder(t)
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, 256.5, created.Total)
	assert.Len(t, created.Lines, 2)
	assert.Len(t, created.Timeline, 1)
	require.NotNil(t, created.Destination)
	assert.Equal(t, 28.5355, created.Destination.Lat)

	byID, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, byID.Number)

	byNumber, err := repo.GetByNumber(ctx, order.Number)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.GetByNumber(ctx, "RX-00000000-DEADBEEF")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderRepository_UpdateAppendsTimeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newStoredOrder(t))
	require.NoError(t, err)

	require.NoError(t, created.TransitionTo(domain.StatusConfirmed, "Order Confirmed", "Delhi"))
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, int64(2), updated.Version)
	assert.Len(t, updated.Timeline, 2)
}

func TestOrderRepository_StaleVersionLosesRace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newStoredOrder(t))
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, first.TransitionTo(domain.StatusConfirmed, "Order Confirmed", ""))
	_, err = repo.Update(ctx, first)
	require.NoError(t, err)

	require.NoError(t, second.TransitionTo(domain.StatusCancelled, "Order Cancelled", ""))
	_, err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestOrderRepository_ListByUserNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first := newStoredOrder(t)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := newStoredOrder(t)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	other := newStoredOrder(t)
	other.UserID = "user-2"
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)

	orders, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
