package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecofinds-market/internal/service"
)

// CatalogHandler exposes product browsing and the owner-gated CRUD
// operations over the catalog service.
type CatalogHandler struct {
	Catalog *service.Catalog
}

func NewCatalogHandler(cat *service.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: cat}
}

// List handles GET /v1/products. Optional query parameters `category`
// (exact match, "All" disables the filter) and `search`
// (case-insensitive substring over title or description) narrow the
// result; ordering is always newest first.
func (h *CatalogHandler) List(c echo.Context) error {
	f := service.Filter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
	items, err := h.Catalog.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list products failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/products/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	p, err := h.Catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// Categories handles GET /v1/categories and returns the fixed set.
func (h *CatalogHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": service.Categories})
}

// MyListings handles GET /v1/my/products and returns the
// authenticated user's own products.
func (h *CatalogHandler) MyListings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Catalog.ByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list products failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/products. The owner is always the
// authenticated user; callers cannot list products for somebody else.
func (h *CatalogHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	p, err := h.Catalog.Create(c.Request().Context(), service.NewProduct{
		OwnerID:     uid,
		Title:       title,
		Description: body.Description,
		Category:    body.Category,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		case errors.Is(err, service.ErrNegativePrice):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
		case errors.Is(err, service.ErrUnknownOwner):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /v1/products/:id. Only the owner may change a
// listing; the ownership check lives in the service, not here.
func (h *CatalogHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var upd service.ProductUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, err := h.Catalog.UpdateOwned(c.Request().Context(), uid, c.Param("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your product"})
		case errors.Is(err, service.ErrInvalidCategory):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		case errors.Is(err, service.ErrNegativePrice):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/products/:id with the same ownership rule
// as Update.
func (h *CatalogHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	removed, err := h.Catalog.DeleteOwned(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your product"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
