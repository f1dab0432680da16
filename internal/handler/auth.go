package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/model"
	"github.com/iliyamo/campus-inventory/internal/repository"
	"github.com/iliyamo/campus-inventory/internal/utils"
)

// UserStore looks up accounts by username.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID int64, username, role string) (utils.AccessToken, error)
}

// AuthHandler bundles dependencies for the login endpoint.
type AuthHandler struct {
	Users  UserStore
	Tokens TokenIssuer
	Logger *slog.Logger
}

func NewAuthHandler(u UserStore, t TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t, Logger: logger}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userPart struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userPart  `json:"user"`
}

// Login handles POST /login: verify the bcrypt password of the named user
// and return a session token carrying the stored role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	u, err := h.Users.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return serverError(c, h.Logger, "login failed", err)
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	at, err := h.Tokens.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return serverError(c, h.Logger, "could not issue token", err, "user_id", u.ID)
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:     at.Token,
		ExpiresAt: at.Exp,
		User:      userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role},
	})
}
