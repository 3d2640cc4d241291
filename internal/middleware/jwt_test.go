package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ecofinds-market/internal/utils"
)

const testSecret = "test-secret-with-enough-length!!"

func protectedEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(JWTAuth(secret))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id")})
	})
	return e
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := protectedEcho(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	e := protectedEcho(testSecret)

	tok, err := utils.NewAccessToken("some-other-secret-entirely-here!", "u1", 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsSubject(t *testing.T) {
	e := protectedEcho(testSecret)

	tok, err := utils.NewAccessToken(testSecret, "user-42", 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user-42")
}
