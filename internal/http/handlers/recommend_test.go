package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fitnessbud/backend/internal/http/handlers"
	"github.com/fitnessbud/backend/internal/recommend"
	"github.com/gin-gonic/gin"
)

type fakePredictor struct {
	predictFn func(f recommend.Features) (string, error)
}

func (f *fakePredictor) Predict(features recommend.Features) (string, error) {
	if f.predictFn != nil {
		return f.predictFn(features)
	}
	return "", nil
}

func setupRecommendRouter(p handlers.GoalPredictor) *gin.Engine {
	r := gin.New()
	h := handlers.NewRecommendHandler(p, nil)
	r.POST("/recommend", h.Recommend)
	return r
}

func TestRecommendHandler(t *testing.T) {
	validBody := `{
		"workout_type": "running",
		"equipment": "home_gym",
		"intensity": "moderate",
		"duration_min": 45,
		"calories_burned": 300
	}`

	t.Run("success", func(t *testing.T) {
		p := &fakePredictor{
			predictFn: func(f recommend.Features) (string, error) {
				if f.WorkoutType != "running" || f.DurationMin != 45 {
					t.Fatalf("features not passed through: %+v", f)
				}
				return "lose_weight", nil
			},
		}

		w := doJSON(setupRecommendRouter(p), http.MethodPost, "/recommend", validBody)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		var resp handlers.RecommendResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}

		if resp.PredictedGoal != "lose_weight" {
			t.Fatalf("got goal %q, want lose_weight", resp.PredictedGoal)
		}
	})

	t.Run("model_not_loaded", func(t *testing.T) {
		w := doJSON(setupRecommendRouter(nil), http.MethodPost, "/recommend", validBody)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("got status %d, want 503, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown_workout_type", func(t *testing.T) {
		body := `{
			"workout_type": "swimming",
			"equipment": "home_gym",
			"intensity": "moderate",
			"duration_min": 45,
			"calories_burned": 300
		}`

		w := doJSON(setupRecommendRouter(&fakePredictor{}), http.MethodPost, "/recommend", body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}
