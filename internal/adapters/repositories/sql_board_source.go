package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
)

// SnapshotTxOptions returns the transaction options under which every
// statement of a board read sees the same data. Postgres needs REPEATABLE
// READ for that; SQLite transactions are serializable already.
func SnapshotTxOptions(driver string) *sql.TxOptions {
	if driver == "pgx" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// SQLBoardSource implements the BoardSource port. All reads of one
// LoadBoard call run in a single transaction. Read-only: order intake,
// status changes and menu edits belong to other services.
type SQLBoardSource struct {
	DB        *sql.DB
	TxOptions *sql.TxOptions
}

func NewSQLBoardSource(db *sql.DB, opts *sql.TxOptions) *SQLBoardSource {
	return &SQLBoardSource{DB: db, TxOptions: opts}
}

func (s *SQLBoardSource) LoadBoard(ctx context.Context) (_ ports.BoardSnapshot, err error) {
	defer obs.Time(ctx, "board.LoadBoard")(&err)

	if s.DB == nil {
		return ports.BoardSnapshot{}, errors.New("sql board source: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, s.TxOptions)
	if err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var snap ports.BoardSnapshot
	if snap.Orders, err = listActiveOrders(ctx, tx); err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board: %w", err)
	}
	if snap.Restaurants, err = listRestaurants(ctx, tx); err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board: %w", err)
	}
	if snap.MenuEntries, err = listMenuEntries(ctx, tx); err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board: commit tx: %w", err)
	}
	return snap, nil
}

// listActiveOrders returns every order that is not completed, with its line items.
func listActiveOrders(ctx context.Context, q queryer) ([]*domain.Order, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT
		order_id,
		firstname,
		lastname,
		phonenumber,
		address,
		comment,
		status,
		restaurant_id,
		created_at
	FROM orders
	WHERE status <> $1
	ORDER BY order_id;
	`, string(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	byID := make(map[int]*domain.Order)
	for rows.Next() {
		var (
			o            domain.Order
			status       string
			restaurantID sql.NullInt64
			createdAt    int64
		)
		if err := rows.Scan(
			&o.OrderID, &o.FirstName, &o.LastName, &o.Phone, &o.Address,
			&o.Comment, &status, &restaurantID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.CreatedAt = time.Unix(createdAt, 0).UTC()
		if restaurantID.Valid {
			id := int(restaurantID.Int64)
			o.RestaurantID = &id
		}

		orders = append(orders, &o)
		byID[o.OrderID] = &o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}
	// The connection is reused for the item query.
	rows.Close()

	if len(orders) == 0 {
		return orders, nil
	}

	if err := attachItems(ctx, q, byID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

func attachItems(ctx context.Context, q queryer, byID map[int]*domain.Order) error {
	rows, err := q.QueryContext(ctx, `
	SELECT
		oi.order_id,
		oi.product_id,
		oi.quantity,
		oi.price_fixed
	FROM order_items oi
	JOIN orders o ON o.order_id = oi.order_id
	WHERE o.status <> $1
	ORDER BY oi.order_id, oi.line_no;
	`, string(domain.StatusCompleted))
	if err != nil {
		return fmt.Errorf("query order_items table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int
			item    domain.OrderLineItem
			price   decimal.Decimal
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		item.PriceFixed = price

		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("order item iteration: %w", err)
	}
	return nil
}
