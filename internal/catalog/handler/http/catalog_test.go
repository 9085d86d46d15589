package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodfleet/api/internal/catalog/domain"
	"github.com/foodfleet/api/internal/catalog/repository"
	"github.com/foodfleet/api/internal/catalog/service"
	apperrors "github.com/foodfleet/api/pkg/errors"
	"github.com/foodfleet/api/pkg/httputil"
)

// ============================================================================
// Mock CatalogRepository
// ============================================================================

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) ListRestaurants(ctx context.Context, filter repository.RestaurantFilter) ([]domain.Restaurant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *mockCatalogRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Restaurant), args.Error(1)
}

func (m *mockCatalogRepository) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *mockCatalogRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupCatalogRouter(repo *mockCatalogRepository) *chi.Mux {
	handler := NewCatalogHandler(service.NewCatalogService(repo, testLogger()), testLogger())
	r := chi.NewRouter()
	r.Route("/api/v1/catalog", handler.Routes)
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func pastaParadise() domain.Restaurant {
	return domain.Restaurant{
		ID:              "r1",
		Name:            "Pasta Paradise",
		Cuisines:        []string{"italian"},
		Rating:          4.7,
		DeliveryMinutes: 30,
		Address:         "1 Noodle Way",
		OpeningHours:    "11:00-22:00",
	}
}

// ============================================================================
// GET /api/v1/catalog/restaurants - ListRestaurants
// ============================================================================

func TestListRestaurants_Success(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("ListRestaurants", mock.Anything, repository.RestaurantFilter{}).
		Return([]domain.Restaurant{pastaParadise()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/restaurants", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestListRestaurants_CuisineFilter(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("ListRestaurants", mock.Anything, repository.RestaurantFilter{Cuisine: "italian"}).
		Return([]domain.Restaurant{pastaParadise()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/restaurants?cuisine=italian", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListRestaurants_SearchFilter(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("ListRestaurants", mock.Anything, repository.RestaurantFilter{Search: "pasta"}).
		Return([]domain.Restaurant{pastaParadise()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/restaurants?q=pasta", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/catalog/restaurants/{restaurantId}/menu - GetRestaurantMenu
// ============================================================================

func TestGetRestaurantMenu_Success(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	r1 := pastaParadise()
	repo.On("GetRestaurant", mock.Anything, "r1").Return(&r1, nil)
	repo.On("GetMenu", mock.Anything, "r1").Return([]domain.MenuItem{
		{ID: "m1", RestaurantID: "r1", Category: "Mains", Name: "Spaghetti Carbonara", Price: 1599, Available: true},
		{ID: "m3", RestaurantID: "r1", Category: "Desserts", Name: "Tiramisu", Price: 799, Available: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/restaurants/r1/menu", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data := resp.Data.(map[string]interface{})
	categories := data["categories"].([]interface{})
	assert.Len(t, categories, 2)
	repo.AssertExpectations(t)
}

func TestGetRestaurantMenu_RestaurantNotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("GetRestaurant", mock.Anything, "nope").Return(nil, apperrors.NotFound("restaurant", "nope"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/restaurants/nope/menu", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertNotCalled(t, "GetMenu", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/catalog/menu-items/{itemId} - GetMenuItem
// ============================================================================

func TestGetMenuItem_Success(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("GetMenuItem", mock.Anything, "m1").Return(&domain.MenuItem{
		ID: "m1", RestaurantID: "r1", Category: "Mains", Name: "Spaghetti Carbonara", Price: 1599, Available: true,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/menu-items/m1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Spaghetti Carbonara", data["name"])
	repo.AssertExpectations(t)
}

func TestGetMenuItem_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(repo)

	repo.On("GetMenuItem", mock.Anything, "nope").Return(nil, apperrors.NotFound("menu item", "nope"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/menu-items/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
