package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecofinds-market/internal/config"
	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/service"
	"github.com/iliyamo/ecofinds-market/internal/utils"
)

// AuthHandler bundles dependencies for identity endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Identity *service.Identity
}

func NewAuthHandler(cfg config.Config, id *service.Identity) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Identity: id}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

func userView(u model.User) userPart {
	return userPart{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// Register: create account and return an access token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/username required"})
	}

	u, err := h.Identity.Register(c.Request().Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:   userView(u),
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Login: verify credentials and return a new access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	u, err := h.Identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   userView(u),
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout clears the session pointer. Logging out twice is fine; the
// second call is a no-op with the same 204 response.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Identity.Logout(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Identity.GetUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, userView(*u))
}

// UpdateProfile merges the supplied profile fields (protected). The
// token's subject must match the active session; a stale token for
// another account cannot edit the session owner's profile.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	current, err := h.Identity.CurrentUser(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
	}
	if current == nil || current.ID != uid {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session for this user"})
	}

	var upd service.ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Identity.UpdateProfile(c.Request().Context(), upd)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, userView(u))
}
