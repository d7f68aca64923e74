package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
)

// Ranker orders candidate restaurants for a delivery address.
type Ranker interface {
	Rank(ctx context.Context, origin string, candidates []domain.Restaurant) ([]domain.RankedRestaurant, error)
}

// BoardEntry is the outcome of one order in a board pass.
// Exactly one of AssignedRestaurant, Candidates, NoRestaurant or Err describes
// the order, except for non-awaiting orders whose restaurant is unknown.
type BoardEntry struct {
	Order              *domain.Order
	TotalPrice         decimal.Decimal
	AssignedRestaurant *domain.Restaurant
	Candidates         []domain.RankedRestaurant
	NoRestaurant       bool
	Err                error
}

// OrderBoard computes restaurant candidates for every active order.
type OrderBoard struct {
	source  ports.BoardSource
	ranker  Ranker
	workers int
}

func NewOrderBoard(source ports.BoardSource, ranker Ranker, workers int) (*OrderBoard, error) {
	if source == nil || ranker == nil {
		return nil, errors.New("order board: source and ranker are required")
	}
	if workers <= 0 {
		workers = 4
	}
	return &OrderBoard{source: source, ranker: ranker, workers: workers}, nil
}

// snapshot is the menu state shared by every order of one pass.
type snapshot struct {
	index       *AvailabilityIndex
	restaurants map[int]domain.Restaurant
}

func newSnapshot(board ports.BoardSnapshot) *snapshot {
	byID := make(map[int]domain.Restaurant, len(board.Restaurants))
	for _, r := range board.Restaurants {
		byID[r.RestaurantID] = r
	}
	return &snapshot{index: BuildAvailabilityIndex(board.MenuEntries), restaurants: byID}
}

// Build runs one pass over all active orders.
//
// Orders and menu come from a single consistent read. Orders are processed
// concurrently, bounded by the worker count. A failure in one order is
// recorded on its entry and never aborts the other orders.
// Awaiting orders come first, then delivering, then cooking; newest first
// within each group.
func (b *OrderBoard) Build(ctx context.Context) (_ []BoardEntry, err error) {
	defer obs.Time(ctx, "board.Build")(&err)

	board, err := b.source.LoadBoard(ctx)
	if err != nil {
		return nil, fmt.Errorf("build board: %w", err)
	}
	snap := newSnapshot(board)

	orders := slices.Clone(board.Orders)
	slices.SortStableFunc(orders, compareBoardOrder)

	entries := make([]BoardEntry, len(orders))
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, order := range orders {
		g.Go(func() error {
			entries[i] = b.process(ctx, snap, order)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build board: %w", err)
	}
	return entries, nil
}

// Entry computes the board entry for a single active order.
// found is false when the order does not exist or is completed.
func (b *OrderBoard) Entry(ctx context.Context, orderID int) (_ BoardEntry, found bool, err error) {
	defer obs.Time(ctx, "board.Entry")(&err)

	board, err := b.source.LoadBoard(ctx)
	if err != nil {
		return BoardEntry{}, false, fmt.Errorf("board entry: %w", err)
	}

	idx := slices.IndexFunc(board.Orders, func(o *domain.Order) bool { return o.OrderID == orderID })
	if idx < 0 {
		return BoardEntry{}, false, nil
	}
	return b.process(ctx, newSnapshot(board), board.Orders[idx]), true, nil
}

func (b *OrderBoard) process(ctx context.Context, snap *snapshot, order *domain.Order) BoardEntry {
	entry := BoardEntry{Order: order, TotalPrice: order.TotalPrice()}

	if order.Status != domain.StatusAwaitingRestaurant {
		if order.RestaurantID != nil {
			if r, ok := snap.restaurants[*order.RestaurantID]; ok {
				entry.AssignedRestaurant = &r
			}
		}
		return entry
	}

	start := time.Now()
	result := "ranked"
	defer func() {
		obs.MatchingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	set, err := MatchCandidates(order.ProductIDs(), snap.index)
	if err != nil {
		result = "invalid"
		entry.Err = fmt.Errorf("order %d: %w", order.OrderID, err)
		return entry
	}

	candidates := make([]domain.Restaurant, 0, len(set))
	for _, id := range set.IDs() {
		if r, ok := snap.restaurants[id]; ok {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		result = "empty"
		entry.NoRestaurant = true
		return entry
	}

	ranked, err := b.ranker.Rank(ctx, order.Address, candidates)
	if err != nil {
		result = "error"
		obs.Logger(ctx).Error("rank order failed", zap.Int("order_id", order.OrderID), zap.Error(err))
		entry.Err = fmt.Errorf("order %d: %w", order.OrderID, err)
		return entry
	}

	entry.Candidates = ranked
	return entry
}

// statusRank orders the board: orders awaiting a restaurant, then orders out
// for delivery, then orders in the kitchen.
func statusRank(s domain.OrderStatus) int {
	switch s {
	case domain.StatusAwaitingRestaurant:
		return 0
	case domain.StatusDelivering:
		return 1
	case domain.StatusCooking:
		return 2
	default:
		return 3
	}
}

func compareBoardOrder(a, b *domain.Order) int {
	return cmp.Or(
		cmp.Compare(statusRank(a.Status), statusRank(b.Status)),
		b.CreatedAt.Compare(a.CreatedAt),
		cmp.Compare(b.OrderID, a.OrderID),
	)
}
