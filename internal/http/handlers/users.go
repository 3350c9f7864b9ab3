package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fitnessbud/backend/internal/config"
	"github.com/fitnessbud/backend/internal/domain/user"
	"github.com/fitnessbud/backend/internal/security"
	"github.com/gin-gonic/gin"
)

type UserWriter interface {
	Create(ctx context.Context, req user.CreateUserRequest, passwordHash string) (user.User, error)
}

type UsersHandler struct {
	users UserWriter
}

func NewUsersHandler(users UserWriter) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register creates a user account together with the profile attributes the
// goal classifier consumes (age, goal, equipment).
func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.users.Create(cctx, req, hash)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Account with this email already exists.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	// the User json tags keep the hash out of the response
	ctx.JSON(http.StatusCreated, u)
}
