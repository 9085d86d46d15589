package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodfleet/api/internal/cart/domain"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		ID:        "cart-001",
		SessionID: "sess-001",
		Items: []domain.LineItem{
			{
				ItemID:       "m1",
				RestaurantID: "r1",
				Name:         "Spaghetti Carbonara",
				UnitPrice:    1599,
				Quantity:     1,
				ImageURL:     "https://images.foodfleet.dev/items/carbonara.jpg",
			},
		},
		Currency:  "USD",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:sess-001", string(data)))

	got, err := repo.Get(context.Background(), "sess-001")

	require.NoError(t, err)
	assert.Equal(t, cart, got)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Get_CorruptPayload(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("cart:sess-001", "{not json"))

	_, err := repo.Get(context.Background(), "sess-001")

	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// SaveIfVersion
// ---------------------------------------------------------------------------

func TestCartRepository_SaveIfVersion_NewCart(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0

	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cart.Version)
	assert.True(t, mr.Exists("cart:sess-001"))
}

func TestCartRepository_SaveIfVersion_MatchingVersion(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	cart.Items[0].Quantity = 3
	ok, err = repo.SaveIfVersion(ctx, cart, 1)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, cart.Version)

	stored, err := repo.Get(ctx, "sess-001")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Items[0].Quantity)
	assert.Equal(t, 2, stored.Version)
}

func TestCartRepository_SaveIfVersion_StaleVersion(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	stale := sampleCart()
	stale.Items[0].Quantity = 9
	ok, err = repo.SaveIfVersion(ctx, stale, 0)

	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.Get(ctx, "sess-001")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestCartRepository_SaveIfVersion_MissingKeyRequiresZero(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	ok, err := repo.SaveIfVersion(context.Background(), cart, 3)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCartRepository_SaveIfVersion_SetsTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	ttl := mr.TTL("cart:sess-001")
	assert.Equal(t, 24*time.Hour, ttl)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCartRepository_Delete_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:sess-001", string(data)))

	err = repo.Delete(context.Background(), "sess-001")

	require.NoError(t, err)
	assert.False(t, mr.Exists("cart:sess-001"))
}

func TestCartRepository_Delete_MissingIsNoOp(t *testing.T) {
	repo, _ := setupTestRedis(t)

	err := repo.Delete(context.Background(), "missing")

	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// DeleteIfVersion
// ---------------------------------------------------------------------------

func TestCartRepository_DeleteIfVersion_MatchingVersion(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:sess-001", string(data)))

	ok, err := repo.DeleteIfVersion(context.Background(), "sess-001", 1)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("cart:sess-001"))
}

func TestCartRepository_DeleteIfVersion_StaleVersionKeepsCart(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// The cart moved on since the caller read version 1.
	cart.Items[0].Quantity = 4
	ok, err = repo.SaveIfVersion(ctx, cart, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DeleteIfVersion(ctx, "sess-001", 1)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("cart:sess-001"))

	stored, err := repo.Get(ctx, "sess-001")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Items[0].Quantity)
}

func TestCartRepository_DeleteIfVersion_MissingIsDeleted(t *testing.T) {
	repo, _ := setupTestRedis(t)

	ok, err := repo.DeleteIfVersion(context.Background(), "missing", 2)

	require.NoError(t, err)
	assert.True(t, ok)
}
