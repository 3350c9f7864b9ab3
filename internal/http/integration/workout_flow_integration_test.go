package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fitnessbud/backend/internal/config"
	"github.com/fitnessbud/backend/internal/db"
	apphttp "github.com/fitnessbud/backend/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		Port:                0,
		JWTSecret:           "test-secret-key",
		JWTAccessTTLMinutes: 60,
		LoginRateLimit:      1000,
		LoginRateWindow:     time.Minute,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping DB-backed integration tests")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, pool, nil, nil, nil, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE workout_logs, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doJSON(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func registerUser(t *testing.T, router http.Handler, email string) int64 {
	t.Helper()

	body := `{
		"email": "` + email + `",
		"password": "password123",
		"age": 30,
		"goal": "lose_weight",
		"equipment": "home_gym"
	}`

	w := doJSON(router, http.MethodPost, "/v1/users/", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body=%s", email, w.Code, w.Body.String())
	}

	var created struct {
		ID int64 `json:"id"`
	}
	mustReadJSON(t, w, &created)

	if created.ID == 0 {
		t.Fatalf("register %s: no id assigned, body=%s", email, w.Body.String())
	}

	return created.ID
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()

	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login %s: got status %d, body=%s", email, w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	mustReadJSON(t, w, &resp)

	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("login %s: bad token response %+v", email, resp)
	}

	return resp.AccessToken
}

func TestWorkoutLogFlow(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	aliceID := registerUser(t, router, "alice@example.com")
	registerUser(t, router, "bob@example.com")

	// duplicate registration conflicts
	w := doJSON(router, http.MethodPost, "/v1/users/", `{
		"email": "alice@example.com",
		"password": "password123",
		"age": 30,
		"goal": "lose_weight",
		"equipment": "home_gym"
	}`, "")

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got status %d, want 409, body=%s", w.Code, w.Body.String())
	}

	// wrong password is rejected
	form := url.Values{"username": {"alice@example.com"}, "password": {"wrong-password"}}
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password login: got status %d, want 401", rec.Code)
	}

	aliceToken := login(t, router, "alice@example.com", "password123")
	bobToken := login(t, router, "bob@example.com", "password123")

	// alice creates a log
	w = doJSON(router, http.MethodPost, "/v1/workout_logs/", `{
		"workout_date": "2026-08-20",
		"duration_min": 45,
		"intensity": "moderate",
		"workout_type": "running",
		"calories_burned": 300
	}`, aliceToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("create log: got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"user_id"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	mustReadJSON(t, w, &created)

	if created.UserID != aliceID {
		t.Fatalf("log owned by %d, want %d", created.UserID, aliceID)
	}

	logPath := "/v1/workout_logs/" + strconv.FormatInt(created.ID, 10)

	// bob cannot see alice's log
	w = doJSON(router, http.MethodGet, logPath, "", bobToken)

	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user get: got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	// bob cannot update or delete it either
	if w = doJSON(router, http.MethodPatch, logPath, `{"duration_min": 1}`, bobToken); w.Code != http.StatusNotFound {
		t.Fatalf("cross-user patch: got status %d, want 404", w.Code)
	}
	if w = doJSON(router, http.MethodDelete, logPath, "", bobToken); w.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete: got status %d, want 404", w.Code)
	}

	// an empty patch only refreshes updated_at
	w = doJSON(router, http.MethodPatch, logPath, `{}`, aliceToken)

	if w.Code != http.StatusOK {
		t.Fatalf("empty patch: got status %d, body=%s", w.Code, w.Body.String())
	}

	var patched struct {
		ID          int64     `json:"id"`
		DurationMin int       `json:"duration_min"`
		Intensity   string    `json:"intensity"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
	mustReadJSON(t, w, &patched)

	if patched.DurationMin != 45 || patched.Intensity != "moderate" {
		t.Fatalf("empty patch changed fields: %+v", patched)
	}

	if !patched.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("empty patch did not refresh updated_at: %v vs %v", patched.UpdatedAt, created.UpdatedAt)
	}

	// list returns alice's log only
	w = doJSON(router, http.MethodGet, "/v1/workout_logs/", "", bobToken)

	if w.Code != http.StatusOK {
		t.Fatalf("bob list: got status %d, body=%s", w.Code, w.Body.String())
	}

	var bobList struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w, &bobList)

	if bobList.Count != 0 {
		t.Fatalf("bob sees %d logs, want 0", bobList.Count)
	}

	// delete is idempotent in effect: second call is a 404
	if w = doJSON(router, http.MethodDelete, logPath, "", aliceToken); w.Code != http.StatusNoContent {
		t.Fatalf("first delete: got status %d, want 204, body=%s", w.Code, w.Body.String())
	}
	if w = doJSON(router, http.MethodDelete, logPath, "", aliceToken); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got status %d, want 404", w.Code)
	}
}

func TestListOrderedMostRecentFirst(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	registerUser(t, router, "carol@example.com")
	token := login(t, router, "carol@example.com", "password123")

	for _, wt := range []string{"yoga", "running", "cycling"} {
		w := doJSON(router, http.MethodPost, "/v1/workout_logs/", `{
			"workout_date": "2026-08-20",
			"duration_min": 30,
			"intensity": "low",
			"workout_type": "`+wt+`"
		}`, token)

		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: got status %d, body=%s", wt, w.Code, w.Body.String())
		}
	}

	w := doJSON(router, http.MethodGet, "/v1/workout_logs/", "", token)

	if w.Code != http.StatusOK {
		t.Fatalf("list: got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []struct {
			ID          int64  `json:"id"`
			WorkoutType string `json:"workout_type"`
		} `json:"items"`
	}
	mustReadJSON(t, w, &resp)

	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(resp.Items))
	}

	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i-1].ID < resp.Items[i].ID {
			t.Fatalf("list not most-recent-first: %+v", resp.Items)
		}
	}
}
