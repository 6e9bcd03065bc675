package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersvc/fulfillment/internal/domain/order"
)

func testDraft(quantity int) order.Draft {
	return order.NewDraft(1, 2, quantity, decimal.RequireFromString("29.99"))
}

func TestLedger_AppendAssignsSequentialIDs(t *testing.T) {
	l := NewLedger(0)
	ctx := context.Background()

	first, err := l.Append(ctx, testDraft(1))
	require.NoError(t, err)
	second, err := l.Append(ctx, testDraft(2))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, order.StatusCreated, first.Status)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestLedger_GetReturnsIdenticalRecord(t *testing.T) {
	l := NewLedger(0)
	ctx := context.Background()

	created, err := l.Append(ctx, testDraft(2))
	require.NoError(t, err)

	got, err := l.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestLedger_GetUnknownID(t *testing.T) {
	l := NewLedger(0)

	_, err := l.Get(context.Background(), 42)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestLedger_ListInsertionOrder(t *testing.T) {
	l := NewLedger(0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := l.Append(ctx, testDraft(i))
		require.NoError(t, err)
	}

	orders, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, o := range orders {
		assert.Equal(t, int64(i+1), o.ID)
		assert.Equal(t, i+1, o.Quantity)
	}
}

func TestLedger_CapacityExhausted(t *testing.T) {
	l := NewLedger(1)
	ctx := context.Background()

	_, err := l.Append(ctx, testDraft(1))
	require.NoError(t, err)

	_, err = l.Append(ctx, testDraft(1))
	assert.ErrorIs(t, err, order.ErrLedgerFull)
}

func TestLedger_ReturnsCopies(t *testing.T) {
	l := NewLedger(0)
	ctx := context.Background()

	created, err := l.Append(ctx, testDraft(1))
	require.NoError(t, err)

	// Mutating the returned order must not affect the stored record.
	created.Quantity = 99
	got, err := l.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestLedger_ConcurrentAppendsUniqueIDs(t *testing.T) {
	l := NewLedger(0)
	ctx := context.Background()

	const n = 100
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := l.Append(ctx, testDraft(1))
			if assert.NoError(t, err) {
				ids <- o.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
