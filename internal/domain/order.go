package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the workflow state of an order.
type OrderStatus string

const (
	// Awaiting restaurant assignment; the only state that goes through matching.
	StatusAwaitingRestaurant OrderStatus = "proc"
	StatusCooking            OrderStatus = "cook"
	StatusDelivering         OrderStatus = "dlvr"
	StatusCompleted          OrderStatus = "end"
)

// Human readable status title.
func (s OrderStatus) Title() string {
	switch s {
	case StatusAwaitingRestaurant:
		return "awaiting restaurant"
	case StatusCooking:
		return "cooking"
	case StatusDelivering:
		return "delivering"
	case StatusCompleted:
		return "completed"
	default:
		return string(s)
	}
}

// OrderLineItem is a single product line of an order.
// Quantity does not affect matching but is carried for pricing.
type OrderLineItem struct {
	ProductID  int
	Quantity   int
	PriceFixed decimal.Decimal
}

// Order is a customer delivery order as read from order intake.
// RestaurantID is set once the order has left the awaiting state.
type Order struct {
	OrderID      int
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	Comment      string
	Status       OrderStatus
	RestaurantID *int
	CreatedAt    time.Time
	Items        []OrderLineItem
}

// TotalPrice returns sum(quantity * fixed price) over all line items.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.PriceFixed.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ProductIDs returns the order's product ids in line-item order.
func (o *Order) ProductIDs() []int {
	ids := make([]int, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
