package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodfleet/api/internal/checkout/domain"
	"github.com/foodfleet/api/internal/checkout/service"
	"github.com/foodfleet/api/pkg/httputil"
	"github.com/foodfleet/api/pkg/middleware"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the checkout endpoints on the given router.
func (h *CheckoutHandler) Routes(r chi.Router) {
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireSession)

	r.Get("/", h.GetSession)
	r.Post("/proceed", h.Proceed)
	r.Post("/back", h.Back)
	r.Post("/submit", h.Submit)
}

// GetSession handles GET /api/v1/checkout. Clients poll this after a submit
// to observe the submitting -> completed/failed transition.
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Proceed handles POST /api/v1/checkout/proceed
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	session, err := h.service.Proceed(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Back handles POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	session, err := h.service.Back(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Submit handles POST /api/v1/checkout/submit. On success the placement runs
// in the background and the submitting session is returned with 202.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var form domain.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	session, err := h.service.Submit(r.Context(), sessionID, &form)
	if err != nil {
		httputil.WriteValidationOrError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: session})
}
