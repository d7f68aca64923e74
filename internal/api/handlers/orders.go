package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restaurant-matching-service/internal/api/dto"
	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/services"
)

// Board computes candidate restaurants for active orders.
type Board interface {
	Build(ctx context.Context) ([]services.BoardEntry, error)
	Entry(ctx context.Context, orderID int) (services.BoardEntry, bool, error)
}

// OrderHandler exposes the read-only order board.
type OrderHandler struct {
	Board Board
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Board.Build(r.Context())
	if err != nil {
		obs.Logger(r.Context()).Error("build order board failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(entries))}
	for _, e := range entries {
		res.Orders = append(res.Orders, toOrderResponse(e))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	entry, found, err := h.Board.Entry(r.Context(), id)
	if err != nil {
		obs.Logger(r.Context()).Error("order board entry failed", zap.Int("order_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, r, http.StatusOK, toOrderResponse(entry))
}

func toOrderResponse(e services.BoardEntry) dto.OrderResponse {
	o := e.Order
	res := dto.OrderResponse{
		OrderID:      o.OrderID,
		FirstName:    o.FirstName,
		LastName:     o.LastName,
		Phone:        o.Phone,
		Address:      o.Address,
		Comment:      o.Comment,
		Status:       string(o.Status),
		StatusTitle:  o.Status.Title(),
		CreatedAt:    o.CreatedAt,
		TotalPrice:   e.TotalPrice,
		Items:        make([]dto.OrderItemResponse, 0, len(o.Items)),
		NoRestaurant: e.NoRestaurant,
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, dto.OrderItemResponse{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			PriceFixed: it.PriceFixed,
		})
	}

	if e.AssignedRestaurant != nil {
		rr := toRestaurantResponse(*e.AssignedRestaurant)
		res.Restaurant = &rr
	}

	for _, c := range e.Candidates {
		res.Candidates = append(res.Candidates, dto.CandidateResponse{
			RestaurantResponse: toRestaurantResponse(c.Restaurant),
			DistanceKm:         c.DistanceKm,
			Label:              c.Label(),
		})
	}

	switch {
	case e.Err == nil:
	case errors.Is(e.Err, services.ErrNoLineItems):
		res.Error = "order has no line items"
	default:
		res.Error = "candidates unavailable"
	}

	return res
}

func toRestaurantResponse(r domain.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		RestaurantID: r.RestaurantID,
		Name:         r.Name,
		Address:      r.Address,
		ContactPhone: r.ContactPhone,
	}
}
