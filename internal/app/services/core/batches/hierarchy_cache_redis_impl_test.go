package batches

import (
	"context"
	"errors"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) CompareAndDelete(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func cachedHierarchy() *hierarchy.Result {
	return &hierarchy.Result{
		BatchID: "L1",
		Claims: []models.Claim{
			{
				ID:                  "G1",
				BatchID:             "L1",
				ProviderClaimNumber: "ABC123",
				DeclaredTotal:       decimal.RequireFromString("1234.56"),
				PaymentStatus:       models.PaymentStatusPending,
				Items: []models.ClassifiedItem{
					{
						Item: models.Item{
							ID:       "I1",
							BatchID:  "L1",
							ParentID: "G1",
							Kind:     models.ItemKindMedication,
							Amount:   decimal.RequireFromString("1000.10"),
						},
						Category: models.CategoryMedication,
					},
				},
				Subtotals: models.CategorySubtotals{
					Procedure:  decimal.RequireFromString("117.23"),
					Medication: decimal.RequireFromString("1000.10"),
					Material:   decimal.RequireFromString("78.15"),
					Fee:        decimal.RequireFromString("39.08"),
					Estimated:  true,
				},
			},
		},
		Index: hierarchy.ClaimIndex{"abc123": "G1"},
	}
}

func TestHierarchyRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRedisRepository)
	cache := NewHierarchyRedisCache(repo, 10*time.Minute)
	key := "billing:batch:L1:claim-index"

	var stored string
	repo.On("Set", ctx, key, mock.Anything, 10*time.Minute).
		Run(func(args mock.Arguments) {
			data, err := json.Marshal(args.Get(2))
			require.NoError(t, err)
			stored = string(data)
		}).
		Return(nil)

	require.NoError(t, cache.Set(ctx, cachedHierarchy()))
	require.NotEmpty(t, stored)

	repo.On("Get", ctx, key).Return(stored, nil)

	result, err := cache.Get(ctx, "L1")
	require.NoError(t, err)
	require.NotNil(t, result)

	claim, ok := result.LookupClaim(" abc123 ")
	require.True(t, ok)
	assert.Equal(t, "G1", claim.ID)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(claim.DeclaredTotal))
	assert.True(t, claim.Subtotals.Estimated)
	assert.True(t, decimal.RequireFromString("39.08").Equal(claim.Subtotals.Fee))
	require.Len(t, claim.Items, 1)
	assert.True(t, decimal.RequireFromString("1000.10").Equal(claim.Items[0].Amount))
	assert.Equal(t, models.CategoryMedication, claim.Items[0].Category)
	repo.AssertExpectations(t)
}

func TestHierarchyRedisCache_Get(t *testing.T) {
	ctx := context.Background()
	key := "billing:batch:L1:claim-index"

	t.Run("miss", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, key).Return("", nil)

		result, err := NewHierarchyRedisCache(repo, time.Minute).Get(ctx, "L1")

		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, key).Return(`{"lote_id": "L1", "guias": [`, nil)

		result, err := NewHierarchyRedisCache(repo, time.Minute).Get(ctx, "L1")

		require.Error(t, err)
		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Contains(t, customErr.DevMessage, constvars.ErrDevCannotParseJSON)
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, key).Return("", errors.New("connection refused"))

		result, err := NewHierarchyRedisCache(repo, time.Minute).Get(ctx, "L1")

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestHierarchyRedisCache_SetAndInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("nil result is not stored", func(t *testing.T) {
		repo := new(MockRedisRepository)

		assert.NoError(t, NewHierarchyRedisCache(repo, time.Minute).Set(ctx, nil))
		repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalidate deletes the batch key", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Delete", ctx, "billing:batch:L9:claim-index").Return(nil)

		assert.NoError(t, NewHierarchyRedisCache(repo, time.Minute).Invalidate(ctx, "L9"))
		repo.AssertExpectations(t)
	})
}
