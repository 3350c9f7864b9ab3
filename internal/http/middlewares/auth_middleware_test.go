package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitnessbud/backend/internal/auth"
	"github.com/fitnessbud/backend/internal/domain/user"
	"github.com/fitnessbud/backend/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	users map[int64]user.User
}

func (f *fakeResolver) GetByID(ctx context.Context, id int64) (user.User, error) {
	u, ok := f.users[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func setupProtectedRouter(jwtManager *auth.Manager, resolver middlewares.UserResolver) *gin.Engine {
	r := gin.New()
	mw := middlewares.NewAuthMiddleware(jwtManager, resolver)

	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		u, ok := middlewares.CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
	})

	return r
}

func doAuthed(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	if header != "" {
		req.Header.Set("Authorization", header)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewManager("test-secret-key", 30*time.Minute)

	resolver := &fakeResolver{
		users: map[int64]user.User{
			1: {ID: 1, Email: "alice@example.com", IsActive: true},
			2: {ID: 2, Email: "bob@example.com", IsActive: false},
		},
	}

	r := setupProtectedRouter(jwtManager, resolver)

	tokenFor := func(id int64, m *auth.Manager) string {
		raw, err := m.GenerateAccessToken(id)
		if err != nil {
			t.Fatalf("GenerateAccessToken failed: %v", err)
		}
		return raw
	}

	tests := []struct {
		name           string
		header         string
		wantStatusCode int
	}{
		{
			name:           "missing_header",
			header:         "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_scheme",
			header:         "Basic abc",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "garbage_token",
			header:         "Bearer not.a.token",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "expired_token",
			header:         "Bearer " + tokenFor(1, auth.NewManager("test-secret-key", 0)),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// a token for a vanished user must look exactly like a bad token
			name:           "unknown_user",
			header:         "Bearer " + tokenFor(99, jwtManager),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "inactive_user",
			header:         "Bearer " + tokenFor(2, jwtManager),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "active_user",
			header:         "Bearer " + tokenFor(1, jwtManager),
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doAuthed(r, tt.header)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
