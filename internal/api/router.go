package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"restaurant-matching-service/internal/api/handlers"
	"restaurant-matching-service/internal/ports"
)

// Deps are the collaborators the HTTP layer needs. DB may be nil.
type Deps struct {
	Board  handlers.Board
	Menu   ports.MenuRepository
	DB     handlers.Pinger
	Logger *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	orders := &handlers.OrderHandler{Board: d.Board}
	products := &handlers.ProductHandler{Menu: d.Menu}
	health := &handlers.HealthHandler{DB: d.DB}

	r := chi.NewRouter()
	r.Use(loggingMiddleware(logger), middleware.Recoverer)

	r.Get("/health", health.Health)
	r.Get("/orders", orders.List)
	r.Get("/orders/{id}", orders.Get)
	r.Get("/products/availability", products.Availability)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
