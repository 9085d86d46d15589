package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodfleet/api/internal/profile/service"
	"github.com/foodfleet/api/pkg/httputil"
	"github.com/foodfleet/api/pkg/middleware"
	"github.com/foodfleet/api/pkg/validator"
)

// ProfileHandler handles HTTP requests for saved address endpoints.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the profile endpoints on the given router.
func (h *ProfileHandler) Routes(r chi.Router) {
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireSession)

	r.Get("/addresses", h.ListAddresses)
	r.Post("/addresses", h.CreateAddress)
	r.Put("/addresses/{addressId}", h.UpdateAddress)
	r.Delete("/addresses/{addressId}", h.DeleteAddress)
	r.Post("/addresses/{addressId}/default", h.SetDefaultAddress)
}

// ListAddresses handles GET /api/v1/profile/addresses
func (h *ProfileHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	addresses, err := h.service.ListAddresses(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: addresses})
}

// CreateAddress handles POST /api/v1/profile/addresses
func (h *ProfileHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var input service.AddressInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	address, err := h.service.CreateAddress(r.Context(), sessionID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: address})
}

// UpdateAddress handles PUT /api/v1/profile/addresses/{addressId}
func (h *ProfileHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	addressID := chi.URLParam(r, "addressId")

	var input service.AddressInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	address, err := h.service.UpdateAddress(r.Context(), sessionID, addressID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: address})
}

// DeleteAddress handles DELETE /api/v1/profile/addresses/{addressId}
func (h *ProfileHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	addressID := chi.URLParam(r, "addressId")

	if err := h.service.DeleteAddress(r.Context(), sessionID, addressID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// SetDefaultAddress handles POST /api/v1/profile/addresses/{addressId}/default
func (h *ProfileHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	addressID := chi.URLParam(r, "addressId")

	if err := h.service.SetDefaultAddress(r.Context(), sessionID, addressID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "default_set"}})
}
