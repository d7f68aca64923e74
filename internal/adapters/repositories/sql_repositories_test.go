package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/db"
	"restaurant-matching-service/internal/ports"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func intPtr(v int) *int { return &v }

func testSeed() *Seed {
	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return &Seed{
		Restaurants: []RestaurantSeed{
			{RestaurantID: 1, Name: "Блинная", Address: "Москва, Ильинка, 4"},
			{RestaurantID: 2, Name: " Пельменная ", Address: "Москва, Никольская, 10", ContactPhone: "+7 495 000-00-00"},
		},
		Products: []ProductSeed{
			{ProductID: 10, Name: "Блины", Price: decimal.RequireFromString("150.50")},
			{ProductID: 20, Name: "Пельмени", Price: decimal.RequireFromString("320")},
		},
		MenuItems: []MenuItemSeed{
			{RestaurantID: 1, ProductID: 10, Availability: true},
			{RestaurantID: 2, ProductID: 10, Availability: false},
			{RestaurantID: 2, ProductID: 20, Availability: true},
		},
		Orders: []OrderSeed{
			{
				OrderID: 100, FirstName: "Иван", LastName: "Петров", Phone: "+79990000000",
				Address: "Москва, Красная площадь, 1", Status: "proc", CreatedAt: created,
				Items: []OrderItemSeed{
					{ProductID: 10, Quantity: 2, Price: decimal.RequireFromString("150.50")},
					{ProductID: 20, Quantity: 1, Price: decimal.RequireFromString("320")},
				},
			},
			{
				OrderID: 101, FirstName: "Анна", LastName: "Смирнова", Phone: "+79990000001",
				Address: "Москва, Арбат, 10", Status: "cook", RestaurantID: intPtr(2), CreatedAt: created.Add(time.Hour),
				Items: []OrderItemSeed{{ProductID: 20, Quantity: 3, Price: decimal.RequireFromString("320")}},
			},
			{
				OrderID: 102, FirstName: "Олег", LastName: "Иванов", Phone: "+79990000002",
				Address: "Москва, Пятницкая, 30", Status: "end", RestaurantID: intPtr(1), CreatedAt: created,
				Items: []OrderItemSeed{{ProductID: 10, Quantity: 1, Price: decimal.RequireFromString("150.50")}},
			},
		},
	}
}

func TestMenuRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(ctx, conn, testSeed()))

	repo := NewSQLMenuRepository(conn)

	restaurants, err := repo.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	require.Equal(t, "Пельменная", restaurants[1].Name)
	require.Equal(t, "+7 495 000-00-00", restaurants[1].ContactPhone)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Product{{ProductID: 10, Name: "Блины"}, {ProductID: 20, Name: "Пельмени"}}, products)

	entries, err := repo.ListMenuEntries(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.MenuAvailabilityEntry{
		{RestaurantID: 1, ProductID: 10, IsAvailable: true},
		{RestaurantID: 2, ProductID: 10, IsAvailable: false},
		{RestaurantID: 2, ProductID: 20, IsAvailable: true},
	}, entries)
}

func TestBoardSourceLoadsActiveOrdersWithMenu(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(ctx, conn, testSeed()))

	board, err := NewSQLBoardSource(conn, SnapshotTxOptions("sqlite")).LoadBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Orders, 2)
	require.Len(t, board.Restaurants, 2)
	require.Len(t, board.MenuEntries, 3)

	awaiting := board.Orders[0]
	require.Equal(t, 100, awaiting.OrderID)
	require.Equal(t, domain.StatusAwaitingRestaurant, awaiting.Status)
	require.Nil(t, awaiting.RestaurantID)
	require.Equal(t, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), awaiting.CreatedAt)
	require.Equal(t, []int{10, 20}, awaiting.ProductIDs())
	require.True(t, decimal.RequireFromString("621").Equal(awaiting.TotalPrice()), awaiting.TotalPrice().String())

	cooking := board.Orders[1]
	require.Equal(t, domain.StatusCooking, cooking.Status)
	require.NotNil(t, cooking.RestaurantID)
	require.Equal(t, 2, *cooking.RestaurantID)
	require.Len(t, cooking.Items, 1)
}

func TestBoardSourceRequiresDB(t *testing.T) {
	_, err := NewSQLBoardSource(nil, nil).LoadBoard(context.Background())
	require.Error(t, err)
}

func TestSnapshotTxOptions(t *testing.T) {
	opts := SnapshotTxOptions("pgx")
	require.NotNil(t, opts)
	require.Equal(t, sql.LevelRepeatableRead, opts.Isolation)
	require.True(t, opts.ReadOnly)

	require.Nil(t, SnapshotTxOptions("sqlite"))
}

func loadBoard(t *testing.T, conn *sql.DB) ports.BoardSnapshot {
	t.Helper()
	board, err := NewSQLBoardSource(conn, nil).LoadBoard(context.Background())
	require.NoError(t, err)
	return board
}

func TestApplySeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(ctx, conn, testSeed()))
	require.NoError(t, ApplySeed(ctx, conn, testSeed()))

	board := loadBoard(t, conn)
	require.Len(t, board.Orders, 2)
	require.Len(t, board.Orders[0].Items, 2)
}

func TestApplySeedKeepsExistingRows(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(ctx, conn, testSeed()))

	// Changes made by the order and menu services after the first seed.
	_, err := conn.ExecContext(ctx, `UPDATE orders SET status = 'end', restaurant_id = 2 WHERE order_id = 100;`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `UPDATE orders SET status = 'dlvr' WHERE order_id = 101;`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = 101;`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `UPDATE menu_items SET availability = $1 WHERE restaurant_id = 1 AND product_id = 10;`, false)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `UPDATE restaurants SET address = 'Москва, Тверская, 1' WHERE restaurant_id = 1;`)
	require.NoError(t, err)

	require.NoError(t, ApplySeed(ctx, conn, testSeed()))

	board := loadBoard(t, conn)
	require.Len(t, board.Orders, 1)
	delivering := board.Orders[0]
	require.Equal(t, 101, delivering.OrderID)
	require.Equal(t, domain.StatusDelivering, delivering.Status)
	require.Empty(t, delivering.Items)

	require.Contains(t, board.MenuEntries, domain.MenuAvailabilityEntry{RestaurantID: 1, ProductID: 10, IsAvailable: false})
	require.Equal(t, "Москва, Тверская, 1", board.Restaurants[0].Address)
}

func TestApplySeedRejectsInvalidData(t *testing.T) {
	conn := newTestDB(t)

	seed := testSeed()
	seed.Orders[0].Status = "lost"
	require.Error(t, ApplySeed(context.Background(), conn, seed))

	seed = testSeed()
	seed.Orders[0].Items[0].Quantity = 0
	require.Error(t, ApplySeed(context.Background(), conn, seed))

	seed = testSeed()
	seed.Restaurants[0].Name = " "
	require.Error(t, ApplySeed(context.Background(), conn, seed))
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)

	path := filepath.Join(t.TempDir(), "menu.json")
	doc := `{
		"restaurants": [{"restaurant_id": 1, "name": "Блинная", "address": "Москва, Ильинка, 4"}],
		"products": [{"product_id": 10, "name": "Блины", "price": "150.50"}],
		"menu_items": [{"restaurant_id": 1, "product_id": 10, "availability": true}],
		"orders": [{
			"order_id": 7, "firstname": "Иван", "lastname": "Петров", "phonenumber": "+79990000000",
			"address": "Москва, Красная площадь, 1", "status": "proc", "created_at": "2026-04-01T09:00:00Z",
			"items": [{"product_id": 10, "quantity": 1, "price": "150.50"}]
		}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	require.NoError(t, SeedFromJSON(ctx, conn, path))

	board := loadBoard(t, conn)
	require.Len(t, board.Orders, 1)
	require.Equal(t, 7, board.Orders[0].OrderID)

	require.Error(t, SeedFromJSON(ctx, conn, filepath.Join(t.TempDir(), "missing.json")))
}
