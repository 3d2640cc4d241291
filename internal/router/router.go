package router // defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecofinds-market/internal/handler"
	"github.com/iliyamo/ecofinds-market/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance: the health check and the public
// catalog browse endpoints. Guests can browse and search listings
// without an account.
func RegisterRoutes(e *echo.Echo, cat *handler.CatalogHandler) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)

	// Public catalog browsing. Filtering is driven by the `category`
	// and `search` query parameters.
	e.GET("/v1/products", cat.List)
	e.GET("/v1/products/:id", cat.Get)
	e.GET("/v1/categories", cat.Categories)
}

// RegisterAuth registers the authentication routes and every
// protected endpoint. Unauthenticated operations live under
// /v1/auth; protected endpoints live under /v1 behind the JWTAuth
// middleware, which places the caller's user id into the context.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cat *handler.CatalogHandler, cart *handler.CartHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Logout clears the session pointer and is idempotent, so it does
	// not require a valid token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Profile
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateProfile)

	// Own listings
	auth.GET("/my/products", cat.MyListings)
	auth.POST("/products", cat.Create)
	auth.PATCH("/products/:id", cat.Update)
	auth.DELETE("/products/:id", cat.Delete)

	// Cart and purchase history
	auth.GET("/cart", cart.GetCart)
	auth.POST("/cart/items", cart.Add)
	auth.PATCH("/cart/items/:productID", cart.UpdateQuantity)
	auth.DELETE("/cart/items/:productID", cart.Remove)
	auth.DELETE("/cart", cart.Clear)
	auth.POST("/cart/checkout", cart.Checkout)
	auth.GET("/purchases", cart.Purchases)
}
