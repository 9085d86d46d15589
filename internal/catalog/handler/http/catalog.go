package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodfleet/api/internal/catalog/service"
	"github.com/foodfleet/api/pkg/httputil"
	"github.com/foodfleet/api/pkg/middleware"
)

// CatalogHandler handles HTTP requests for the read-only catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the catalog endpoints on the given router. Catalog data
// changes rarely, so responses carry a short client cache.
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Use(middleware.CacheControl(60))

	r.Get("/restaurants", h.ListRestaurants)
	r.Get("/restaurants/{restaurantId}/menu", h.GetRestaurantMenu)
	r.Get("/menu-items/{itemId}", h.GetMenuItem)
}

// ListRestaurants handles GET /api/v1/catalog/restaurants?cuisine=&q=
func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	cuisine := r.URL.Query().Get("cuisine")
	search := r.URL.Query().Get("q")

	restaurants, err := h.service.ListRestaurants(r.Context(), cuisine, search)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurants})
}

// GetRestaurantMenu handles GET /api/v1/catalog/restaurants/{restaurantId}/menu
func (h *CatalogHandler) GetRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	menu, err := h.service.GetRestaurantMenu(r.Context(), restaurantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: menu})
}

// GetMenuItem handles GET /api/v1/catalog/menu-items/{itemId}
func (h *CatalogHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	item, err := h.service.GetMenuItem(r.Context(), itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}
