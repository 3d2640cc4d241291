package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/store"
)

func newCart(t *testing.T) *Cart {
	t.Helper()
	return NewCart(store.NewMemory())
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	first, err := cart.Add(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	require.Equal(t, 2, first.Quantity)

	second, err := cart.Add(ctx, "u1", "p1", 3)
	require.NoError(t, err)
	require.Equal(t, 5, second.Quantity)
	require.Equal(t, first.ID, second.ID, "re-adding must not create a new line")

	items, err := cart.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	line, err := cart.Add(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u1", "p1", 2)
	require.NoError(t, err)

	ok, err := cart.UpdateQuantity(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	require.True(t, ok)

	items, err := cart.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items, "a zero-quantity row must never be persisted")

	ok, err = cart.UpdateQuantity(ctx, "u1", "p1", 4)
	require.NoError(t, err)
	require.False(t, ok, "updating an absent line reports false")
}

func TestRemoveAbsentLineIsNoOp(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	ok, err := cart.Remove(ctx, "u1", "p1")
	require.NoError(t, err)
	require.False(t, ok)

	// Same result on repeat, no error either time.
	ok, err = cart.Remove(ctx, "u1", "p1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearIsIdempotentAndScopedToUser(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, "u2", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, cart.Clear(ctx, "u1"))
	require.NoError(t, cart.Clear(ctx, "u1"))

	items, err := cart.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)

	others, err := cart.Items(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1, "another user's cart stays untouched")
}

func TestCheckoutSkipsMissingProductsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u1", "productA", 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, "u1", "productB", 2)
	require.NoError(t, err)

	lines, err := cart.Items(ctx, "u1")
	require.NoError(t, err)

	// productB was deleted from the catalog before checkout, so the
	// snapshot only carries productA.
	snapshot := []model.Product{{ID: "productA", Price: 10}}

	purchases, err := cart.Checkout(ctx, "u1", lines, snapshot)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, "productA", purchases[0].ProductID)
	require.Equal(t, 10.0, purchases[0].PriceAtPurchase)

	items, err := cart.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items, "checkout clears the whole cart")

	ledger, err := cart.Purchases(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ledger, 1, "ledger grows by exactly one entry")
}

func TestCheckoutSnapshotsCurrentPrice(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	lines, err := cart.Items(ctx, "u1")
	require.NoError(t, err)

	// The snapshot's price wins over anything cached earlier.
	purchases, err := cart.Checkout(ctx, "u1", lines, []model.Product{{ID: "p1", Price: 42}})
	require.NoError(t, err)
	require.Equal(t, 42.0, purchases[0].PriceAtPurchase)
}

func TestCheckoutIgnoresForeignLines(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u2", "p1", 1)
	require.NoError(t, err)
	foreign, err := cart.Items(ctx, "u2")
	require.NoError(t, err)

	purchases, err := cart.Checkout(ctx, "u1", foreign, []model.Product{{ID: "p1", Price: 5}})
	require.NoError(t, err)
	require.Empty(t, purchases, "lines belonging to another user never convert")

	others, err := cart.Items(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
}

func TestPurchasesNewestFirst(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)

	_, err := cart.Add(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	lines, err := cart.Items(ctx, "u1")
	require.NoError(t, err)
	_, err = cart.Checkout(ctx, "u1", lines, []model.Product{{ID: "p1", Price: 1}})
	require.NoError(t, err)

	// Second checkout happens measurably later.
	time.Sleep(5 * time.Millisecond)

	_, err = cart.Add(ctx, "u1", "p2", 1)
	require.NoError(t, err)
	lines, err = cart.Items(ctx, "u1")
	require.NoError(t, err)
	_, err = cart.Checkout(ctx, "u1", lines, []model.Product{{ID: "p2", Price: 2}})
	require.NoError(t, err)

	ledger, err := cart.Purchases(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	require.Equal(t, "p2", ledger[0].ProductID, "most recent purchase comes first")
	require.Equal(t, "p1", ledger[1].ProductID)
	require.True(t, !ledger[0].PurchasedAt.Before(ledger[1].PurchasedAt))
}
