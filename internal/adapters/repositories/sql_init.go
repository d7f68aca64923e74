package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-matching-service/internal/domain"
)

// Initialize the database schema.
// The DDL is restricted to types and clauses shared by Postgres and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT ''
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS products (
			product_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(8, 2) NOT NULL DEFAULT 0
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS menu_items (
			restaurant_id INTEGER NOT NULL REFERENCES restaurants (restaurant_id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL REFERENCES products (product_id) ON DELETE CASCADE,
			availability BOOLEAN NOT NULL DEFAULT TRUE,
			PRIMARY KEY (restaurant_id, product_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			firstname TEXT NOT NULL,
			lastname TEXT NOT NULL,
			phonenumber TEXT NOT NULL,
			address TEXT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			restaurant_id INTEGER REFERENCES restaurants (restaurant_id) ON DELETE SET NULL,
			created_at BIGINT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS order_items (
			order_id INTEGER NOT NULL REFERENCES orders (order_id) ON DELETE CASCADE,
			line_no INTEGER NOT NULL,
			product_id INTEGER NOT NULL REFERENCES products (product_id),
			quantity INTEGER NOT NULL DEFAULT 1,
			price_fixed NUMERIC(8, 2) NOT NULL DEFAULT 0,
			PRIMARY KEY (order_id, line_no)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			resolved_at BIGINT NOT NULL
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);`,
		`CREATE INDEX IF NOT EXISTS idx_geocode_cache_resolved_at ON geocode_cache (resolved_at);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RestaurantSeed struct {
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

type ProductSeed struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type MenuItemSeed struct {
	RestaurantID int  `json:"restaurant_id"`
	ProductID    int  `json:"product_id"`
	Availability bool `json:"availability"`
}

type OrderItemSeed struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderSeed struct {
	OrderID      int             `json:"order_id"`
	FirstName    string          `json:"firstname"`
	LastName     string          `json:"lastname"`
	Phone        string          `json:"phonenumber"`
	Address      string          `json:"address"`
	Comment      string          `json:"comment"`
	Status       string          `json:"status"`
	RestaurantID *int            `json:"restaurant_id"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []OrderItemSeed `json:"items"`
}

// Seed is the JSON document accepted by SeedFromJSON.
type Seed struct {
	Restaurants []RestaurantSeed `json:"restaurants"`
	Products    []ProductSeed    `json:"products"`
	MenuItems   []MenuItemSeed   `json:"menu_items"`
	Orders      []OrderSeed      `json:"orders"`
}

func (s *Seed) validate() error {
	for i, r := range s.Restaurants {
		if r.RestaurantID <= 0 {
			return fmt.Errorf("restaurant at index %d: invalid restaurant_id %d", i+1, r.RestaurantID)
		}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("restaurant at index %d: name cannot be empty", i+1)
		}
	}
	for i, p := range s.Products {
		if p.ProductID <= 0 {
			return fmt.Errorf("product at index %d: invalid product_id %d", i+1, p.ProductID)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product at index %d: price cannot be negative", i+1)
		}
	}
	for i, o := range s.Orders {
		if o.OrderID <= 0 {
			return fmt.Errorf("order at index %d: invalid order_id %d", i+1, o.OrderID)
		}
		if strings.TrimSpace(o.Address) == "" {
			return fmt.Errorf("order at index %d: address cannot be empty", i+1)
		}
		switch domain.OrderStatus(o.Status) {
		case domain.StatusAwaitingRestaurant, domain.StatusCooking, domain.StatusDelivering, domain.StatusCompleted:
		default:
			return fmt.Errorf("order at index %d: unknown status %q", i+1, o.Status)
		}
		for j, it := range o.Items {
			if it.Quantity < 1 {
				return fmt.Errorf("order at index %d, item %d: quantity must be positive", i+1, j+1)
			}
		}
	}
	return nil
}

// Populate the database with menu and order data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	return ApplySeed(ctx, db, &data)
}

// ApplySeed inserts seed data in a single transaction. Rows that already
// exist are left untouched, so live orders and menu edits survive a re-seed.
func ApplySeed(ctx context.Context, db *sql.DB, data *Seed) error {
	if err := data.validate(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range data.Restaurants {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO restaurants (restaurant_id, name, address, contact_phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (restaurant_id) DO NOTHING;
		`, r.RestaurantID, strings.TrimSpace(r.Name), strings.TrimSpace(r.Address), r.ContactPhone)
		if err != nil {
			return fmt.Errorf("seed: insert restaurant_id=%d: %w", r.RestaurantID, err)
		}
	}

	for _, p := range data.Products {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO products (product_id, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO NOTHING;
		`, p.ProductID, strings.TrimSpace(p.Name), p.Price)
		if err != nil {
			return fmt.Errorf("seed: insert product_id=%d: %w", p.ProductID, err)
		}
	}

	for _, m := range data.MenuItems {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO menu_items (restaurant_id, product_id, availability)
		VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, product_id) DO NOTHING;
		`, m.RestaurantID, m.ProductID, m.Availability)
		if err != nil {
			return fmt.Errorf("seed: insert menu item restaurant_id=%d product_id=%d: %w", m.RestaurantID, m.ProductID, err)
		}
	}

	for _, o := range data.Orders {
		var restaurantID any
		if o.RestaurantID != nil {
			restaurantID = *o.RestaurantID
		}
		createdAt := o.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, firstname, lastname, phonenumber, address, comment, status, restaurant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_id) DO NOTHING;
		`, o.OrderID, o.FirstName, o.LastName, o.Phone, strings.TrimSpace(o.Address), o.Comment, o.Status, restaurantID, createdAt.Unix())
		if err != nil {
			return fmt.Errorf("seed: insert order_id=%d: %w", o.OrderID, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("seed: insert order_id=%d: %w", o.OrderID, err)
		}
		// Existing orders keep their items.
		if inserted == 0 {
			continue
		}

		for i, it := range o.Items {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, line_no, product_id, quantity, price_fixed)
			VALUES ($1, $2, $3, $4, $5);
			`, o.OrderID, i+1, it.ProductID, it.Quantity, it.Price)
			if err != nil {
				return fmt.Errorf("seed: insert item order_id=%d line=%d: %w", o.OrderID, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
