package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersvc/fulfillment/internal/domain/product"
	"github.com/ordersvc/fulfillment/internal/domain/user"
)

func TestCatalogStore_Seed(t *testing.T) {
	s := NewCatalogStore()

	products, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)

	laptop := products[0]
	assert.Equal(t, "Laptop", laptop.Name)
	assert.True(t, decimal.RequireFromString("999.99").Equal(laptop.Price))
	assert.Equal(t, 10, laptop.Stock)

	monitor := products[3]
	assert.Equal(t, 0, monitor.Stock)
}

func TestCatalogStore_CheckStock(t *testing.T) {
	s := NewCatalogStore()
	ctx := context.Background()

	res, err := s.CheckStock(ctx, 2, 10)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 50, res.Stock)

	res, err = s.CheckStock(ctx, 4, 1)
	require.NoError(t, err)
	assert.False(t, res.Available)

	_, err = s.CheckStock(ctx, 99, 1)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCatalogStore_ReserveAndRelease(t *testing.T) {
	s := NewCatalogStore()
	ctx := context.Background()

	res, err := s.Reserve(ctx, 2, 5)
	require.NoError(t, err)
	assert.True(t, res.Reserved)
	assert.Equal(t, 45, res.RemainingStock)

	require.NoError(t, s.Release(ctx, 2, 5))

	p, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)
}

func TestCatalogStore_ReserveInsufficient(t *testing.T) {
	s := NewCatalogStore()

	res, err := s.Reserve(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.False(t, res.Reserved)
	assert.Equal(t, "Insufficient stock", res.Reason)
	assert.Equal(t, 0, res.RemainingStock)
}

func TestCatalogStore_ReserveNeverOversells(t *testing.T) {
	s := NewCatalogStore()
	ctx := context.Background()

	// 50 units of product 2; 100 goroutines racing for 1 unit each.
	const attempts = 100
	var reserved atomic.Int64

	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Reserve(ctx, 2, 1)
			if assert.NoError(t, err) && res.Reserved {
				reserved.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), reserved.Load())

	p, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestDirectoryStore_Validate(t *testing.T) {
	s := NewDirectoryStore()
	ctx := context.Background()

	t.Run("active user", func(t *testing.T) {
		v, err := s.Validate(ctx, 1)
		require.NoError(t, err)
		assert.True(t, v.Valid)
		require.NotNil(t, v.User)
		assert.Equal(t, "Alice Smith", v.User.Name)
	})

	t.Run("inactive user", func(t *testing.T) {
		v, err := s.Validate(ctx, 3)
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, "User is inactive", v.Reason)
	})

	t.Run("unknown user", func(t *testing.T) {
		v, err := s.Validate(ctx, 999)
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, "User not found", v.Reason)
	})
}

func TestDirectoryStore_Create(t *testing.T) {
	s := NewDirectoryStore()
	ctx := context.Background()

	u, err := s.Create(ctx, user.User{Name: "Dora", Email: "dora@example.com", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID, "ids continue after the seed data")

	v, err := s.Validate(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, v.Valid)
}
