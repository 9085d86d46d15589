package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodfleet/api/internal/cart/domain"
	"github.com/foodfleet/api/internal/cart/service"
	"github.com/foodfleet/api/internal/pricing"
	"github.com/foodfleet/api/pkg/httputil"
	"github.com/foodfleet/api/pkg/middleware"
	"github.com/foodfleet/api/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	pricer  *pricing.Calculator
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, pricer *pricing.Calculator, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		pricer:  pricer,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding a menu item to the cart.
type AddItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// SetQuantityRequest is the JSON request body for overwriting a line quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart payload including the priced summary.
type CartResponse struct {
	Cart    *domain.Cart    `json:"cart"`
	Summary pricing.Summary `json:"summary"`
}

// Routes registers the cart endpoints on the given router.
func (h *CartHandler) Routes(r chi.Router) {
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireSession)

	r.Get("/", h.GetCart)
	r.Delete("/", h.ClearCart)

	r.Post("/items", h.AddItem)
	r.Put("/items/{itemId}", h.SetQuantity)
	r.Delete("/items/{itemId}", h.RemoveItem)
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.respond(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionID, req.ItemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.respond(cart)})
}

// SetQuantity handles PUT /api/v1/cart/items/{itemId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), sessionID, itemID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.respond(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	cart, err := h.service.RemoveItem(r.Context(), sessionID, itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.respond(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

func (h *CartHandler) respond(cart *domain.Cart) CartResponse {
	return CartResponse{
		Cart:    cart,
		Summary: h.pricer.Compute(cart.Items),
	}
}
