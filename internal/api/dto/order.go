package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RestaurantResponse struct {
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

// CandidateResponse is one ranked restaurant. DistanceKm is null when unknown.
type CandidateResponse struct {
	RestaurantResponse
	DistanceKm *float64 `json:"distance_km"`
	Label      string   `json:"label"`
}

type OrderItemResponse struct {
	ProductID  int             `json:"product_id"`
	Quantity   int             `json:"quantity"`
	PriceFixed decimal.Decimal `json:"price_fixed"`
}

type OrderResponse struct {
	OrderID     int                 `json:"order_id"`
	FirstName   string              `json:"firstname"`
	LastName    string              `json:"lastname"`
	Phone       string              `json:"phonenumber"`
	Address     string              `json:"address"`
	Comment     string              `json:"comment"`
	Status      string              `json:"status"`
	StatusTitle string              `json:"status_title"`
	CreatedAt   time.Time           `json:"created_at"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	Items       []OrderItemResponse `json:"items"`

	// Set once a restaurant has taken the order.
	Restaurant *RestaurantResponse `json:"restaurant,omitempty"`
	// Set for orders awaiting a restaurant.
	Candidates   []CandidateResponse `json:"candidates,omitempty"`
	NoRestaurant bool                `json:"no_restaurant,omitempty"`
	Error        string              `json:"error,omitempty"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
