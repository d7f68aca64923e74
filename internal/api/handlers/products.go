package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"restaurant-matching-service/internal/api/dto"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
	"restaurant-matching-service/internal/services"
)

// ProductHandler exposes menu availability across restaurants.
type ProductHandler struct {
	Menu ports.MenuRepository
}

func (h *ProductHandler) Availability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurants, err := h.Menu.ListRestaurants(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	products, err := h.Menu.ListProducts(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entries, err := h.Menu.ListMenuEntries(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	m := services.BuildAvailabilityMatrix(restaurants, products, entries)

	res := dto.AvailabilityResponse{
		Restaurants: make([]dto.RestaurantResponse, 0, len(m.Restaurants)),
		Products:    make([]dto.ProductAvailability, 0, len(m.Rows)),
	}
	for _, rest := range m.Restaurants {
		res.Restaurants = append(res.Restaurants, toRestaurantResponse(rest))
	}
	for _, row := range m.Rows {
		res.Products = append(res.Products, dto.ProductAvailability{
			ProductID: row.Product.ProductID,
			Name:      row.Product.Name,
			Available: row.Available,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	obs.Logger(r.Context()).Error("load menu availability failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
