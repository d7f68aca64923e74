package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQL-backed implementation of the MenuRepository port.
type SQLMenuRepository struct{ DB *sql.DB }

func NewSQLMenuRepository(db *sql.DB) *SQLMenuRepository {
	return &SQLMenuRepository{DB: db}
}

// Return all restaurants ordered by id.
func (s *SQLMenuRepository) ListRestaurants(ctx context.Context) (_ []domain.Restaurant, err error) {
	defer obs.Time(ctx, "menu.ListRestaurants")(&err)

	if s.DB == nil {
		return nil, errors.New("sql menu repository: DB is nil")
	}
	return listRestaurants(ctx, s.DB)
}

// Return all products ordered by id.
func (s *SQLMenuRepository) ListProducts(ctx context.Context) (_ []domain.Product, err error) {
	defer obs.Time(ctx, "menu.ListProducts")(&err)

	if s.DB == nil {
		return nil, errors.New("sql menu repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT product_id, name
	FROM products
	ORDER BY product_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: query products table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.Name); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}

	return out, nil
}

// Return every menu entry, available or not. Filtering is left to the
// availability index so the snapshot stays complete.
func (s *SQLMenuRepository) ListMenuEntries(ctx context.Context) (_ []domain.MenuAvailabilityEntry, err error) {
	defer obs.Time(ctx, "menu.ListMenuEntries")(&err)

	if s.DB == nil {
		return nil, errors.New("sql menu repository: DB is nil")
	}
	return listMenuEntries(ctx, s.DB)
}

func listRestaurants(ctx context.Context, q queryer) ([]domain.Restaurant, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT
		restaurant_id,
		name,
		address,
		contact_phone
	FROM restaurants
	ORDER BY restaurant_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query restaurants table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Restaurant, 0, 16)
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.RestaurantID, &r.Name, &r.Address, &r.ContactPhone); err != nil {
			return nil, fmt.Errorf("list restaurants: scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: row iteration: %w", err)
	}

	return out, nil
}

func listMenuEntries(ctx context.Context, q queryer) ([]domain.MenuAvailabilityEntry, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT restaurant_id, product_id, availability
	FROM menu_items
	ORDER BY product_id, restaurant_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list menu entries: query menu_items table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.MenuAvailabilityEntry, 0, 128)
	for rows.Next() {
		var e domain.MenuAvailabilityEntry
		if err := rows.Scan(&e.RestaurantID, &e.ProductID, &e.IsAvailable); err != nil {
			return nil, fmt.Errorf("list menu entries: scan row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu entries: row iteration: %w", err)
	}

	return out, nil
}
