package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodfleet/api/internal/order/service"
	"github.com/foodfleet/api/pkg/httputil"
	"github.com/foodfleet/api/pkg/middleware"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the order endpoints on the given router.
func (h *OrderHandler) Routes(r chi.Router) {
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireSession)

	r.Get("/", h.ListOrders)
	r.Get("/{orderId}", h.GetOrder)
	r.Post("/{orderId}/advance", h.AdvanceStatus)
	r.Post("/{orderId}/cancel", h.Cancel)
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, err := h.service.ListOrders(r.Context(), sessionID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// GetOrder handles GET /api/v1/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	orderID := chi.URLParam(r, "orderId")

	order, err := h.service.GetOrder(r.Context(), sessionID, orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// AdvanceStatus handles POST /api/v1/orders/{orderId}/advance. It simulates
// the kitchen moving the order one step along its lifecycle.
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	orderID := chi.URLParam(r, "orderId")

	order, err := h.service.AdvanceStatus(r.Context(), sessionID, orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Cancel handles POST /api/v1/orders/{orderId}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	orderID := chi.URLParam(r, "orderId")

	order, err := h.service.Cancel(r.Context(), sessionID, orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
