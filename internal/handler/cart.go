package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecofinds-market/internal/queue"
	"github.com/iliyamo/ecofinds-market/internal/service"
)

// CartHandler exposes the cart and purchase ledger operations. It is
// also the place where checkout's cross-service coordination lives:
// the cart service never writes into the catalog itself, so this
// handler fetches the catalog snapshot, runs the checkout and then
// marks the purchased products sold through the catalog service.
type CartHandler struct {
	Cart    *service.Cart
	Catalog *service.Catalog
}

func NewCartHandler(cart *service.Cart, cat *service.Catalog) *CartHandler {
	return &CartHandler{Cart: cart, Catalog: cat}
}

// GetCart handles GET /v1/cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Cart.Items(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Add handles POST /v1/cart/items. The product must still exist in
// the catalog; re-adding a product increments the existing line.
func (h *CartHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil || body.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}

	p, err := h.Catalog.Get(c.Request().Context(), body.ProductID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	line, err := h.Cart.Add(c.Request().Context(), uid, body.ProductID, body.Quantity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}
	return c.JSON(http.StatusOK, line)
}

// UpdateQuantity handles PATCH /v1/cart/items/:productID. A quantity
// of zero or less removes the line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ok, err := h.Cart.UpdateQuantity(c.Request().Context(), uid, c.Param("productID"), body.Quantity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update quantity failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart line not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/cart/items/:productID.
func (h *CartHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ok, err := h.Cart.Remove(c.Request().Context(), uid, c.Param("productID"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove from cart failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart line not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /v1/cart. Clearing an empty cart succeeds.
func (h *CartHandler) Clear(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Cart.Clear(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/cart/checkout. Cart lines are priced
// against the live catalog; lines whose product no longer exists are
// skipped. After the ledger append the purchased products are marked
// sold, and a purchase event is published best-effort: a broker
// outage never fails the checkout.
func (h *CartHandler) Checkout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	lines, err := h.Cart.Items(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	snapshot, err := h.Catalog.List(ctx, service.Filter{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load catalog failed"})
	}

	purchases, err := h.Cart.Checkout(ctx, uid, lines, snapshot)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	for _, p := range purchases {
		if err := h.Catalog.MarkSold(ctx, p.ProductID); err != nil {
			c.Logger().Warnf("checkout: mark sold %s: %v", p.ProductID, err)
		}
	}

	if len(purchases) > 0 {
		ev := queue.PurchaseCompletedEvent{
			UserID:      uid,
			ItemCount:   len(purchases),
			CompletedAt: purchases[0].PurchasedAt.Format(time.RFC3339),
		}
		for _, p := range purchases {
			ev.PurchaseIDs = append(ev.PurchaseIDs, p.ID)
			ev.ProductIDs = append(ev.ProductIDs, p.ProductID)
			ev.Total += p.PriceAtPurchase
		}
		go func() { _ = queue.PublishPurchaseCompleted(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, echo.Map{"purchases": purchases})
}

// Purchases handles GET /v1/purchases, most recent first.
func (h *CartHandler) Purchases(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Cart.Purchases(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load purchases failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
