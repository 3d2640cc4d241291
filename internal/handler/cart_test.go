package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/ecofinds-market/internal/service"
	"github.com/iliyamo/ecofinds-market/internal/store"
)

// checkoutFixture wires the services on one memory store with a
// seller, a buyer and one listed product, returning the handler and
// the ids the tests need.
func checkoutFixture(t *testing.T) (*CartHandler, *service.Catalog, string, string) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	identity := service.NewIdentity(st, bcrypt.MinCost)
	catalog := service.NewCatalog(st, identity)
	cart := service.NewCart(st)

	seller, err := identity.Register(ctx, "seller@example.com", "pw", "seller")
	require.NoError(t, err)
	buyer, err := identity.Register(ctx, "buyer@example.com", "pw", "buyer")
	require.NoError(t, err)

	product, err := catalog.Create(ctx, service.NewProduct{
		OwnerID:  seller.ID,
		Title:    "Sustainable Cotton Jacket",
		Category: "Clothing",
		Price:    65,
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, buyer.ID, product.ID, 1)
	require.NoError(t, err)

	return NewCartHandler(cart, catalog), catalog, buyer.ID, product.ID
}

// invoke runs a handler func with the authenticated user id already
// in the context, the way the JWT middleware would place it.
func invoke(t *testing.T, uid string, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	require.NoError(t, fn(c))
	return rec
}

func TestCheckoutMarksProductSold(t *testing.T) {
	ctx := context.Background()
	h, catalog, buyer, productID := checkoutFixture(t)

	rec := invoke(t, buyer, h.Checkout)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), productID)

	// The cross-service coordination: the purchased product is now
	// flagged sold in the catalog.
	p, err := catalog.Get(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.True(t, p.IsSold)

	// And the buyer's cart is empty while the ledger grew.
	items, err := h.Cart.Items(ctx, buyer)
	require.NoError(t, err)
	require.Empty(t, items)

	purchases, err := h.Cart.Purchases(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, 65.0, purchases[0].PriceAtPurchase)
}

func TestCheckoutEmptyCartSellsNothing(t *testing.T) {
	ctx := context.Background()
	h, catalog, _, productID := checkoutFixture(t)

	rec := invoke(t, "someone-else", h.Checkout)
	require.Equal(t, http.StatusOK, rec.Code)

	// No lines, no purchases, and the product stays unsold.
	p, err := catalog.Get(ctx, productID)
	require.NoError(t, err)
	require.False(t, p.IsSold)
}
