package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fitnessbud/backend/internal/auth"
	"github.com/fitnessbud/backend/internal/config"
	"github.com/fitnessbud/backend/internal/domain/user"
	"github.com/fitnessbud/backend/internal/observability"
	"github.com/fitnessbud/backend/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type AuthHandler struct {
	users UserReader
	jwt   *auth.Manager
	prom  *observability.Prom
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		prom:  prom,
	}
}

// OAuth2 password flow shape: the username field carries the email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password get the same rejection so neither check leaks.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindForm(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Username)
	if err != nil {
		h.countLogin("rejected")
		RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect username or password")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		h.countLogin("rejected")
		RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect username or password")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.countLogin("ok")

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(result).Inc()
	}
}
