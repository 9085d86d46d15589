package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/foodfleet/api/internal/profile/domain"
	"github.com/foodfleet/api/internal/profile/repository"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// AddressInput holds the validated fields for creating or updating a saved
// address. The address rules match the checkout form.
type AddressInput struct {
	Label   string `json:"label" validate:"required,min=1,max=50"`
	Street  string `json:"street" validate:"required,min=5"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	Zip     string `json:"zip" validate:"zip5"`
	Country string `json:"country" validate:"required,min=2"`
}

// ProfileService implements the business logic for saved addresses.
type ProfileService struct {
	repo   repository.AddressRepository
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.AddressRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
	}
}

// ListAddresses returns all addresses the session has saved.
func (s *ProfileService) ListAddresses(ctx context.Context, sessionID string) ([]domain.SavedAddress, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	addresses, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// CreateAddress saves a new address for the session. The first saved address
// becomes the default.
func (s *ProfileService) CreateAddress(ctx context.Context, sessionID string, input AddressInput) (*domain.SavedAddress, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	existing, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	now := time.Now().UTC()
	address := &domain.SavedAddress{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Label:     input.Label,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		Zip:       input.Zip,
		Country:   input.Country,
		IsDefault: len(existing) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.logger.InfoContext(ctx, "address saved",
		slog.String("session_id", sessionID),
		slog.String("address_id", address.ID),
	)

	return address, nil
}

// UpdateAddress overwrites an existing saved address.
func (s *ProfileService) UpdateAddress(ctx context.Context, sessionID, addressID string, input AddressInput) (*domain.SavedAddress, error) {
	address, err := s.getOwned(ctx, sessionID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = input.Label
	address.Street = input.Street
	address.City = input.City
	address.State = input.State
	address.Zip = input.Zip
	address.Country = input.Country
	address.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	return address, nil
}

// DeleteAddress removes a saved address.
func (s *ProfileService) DeleteAddress(ctx context.Context, sessionID, addressID string) error {
	if _, err := s.getOwned(ctx, sessionID, addressID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, addressID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	s.logger.InfoContext(ctx, "address deleted",
		slog.String("session_id", sessionID),
		slog.String("address_id", addressID),
	)

	return nil
}

// SetDefaultAddress marks one saved address as the session default.
func (s *ProfileService) SetDefaultAddress(ctx context.Context, sessionID, addressID string) error {
	if _, err := s.getOwned(ctx, sessionID, addressID); err != nil {
		return err
	}

	if err := s.repo.SetDefault(ctx, sessionID, addressID); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}

	return nil
}

// getOwned loads an address and verifies it belongs to the session.
func (s *ProfileService) getOwned(ctx context.Context, sessionID, addressID string) (*domain.SavedAddress, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if addressID == "" {
		return nil, apperrors.InvalidInput("address id is required")
	}

	address, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address.SessionID != sessionID {
		return nil, apperrors.NotFound("address", addressID)
	}

	return address, nil
}
