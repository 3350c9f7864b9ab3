package handlers

import (
	"errors"
	"net/http"

	"github.com/fitnessbud/backend/internal/observability"
	"github.com/fitnessbud/backend/internal/recommend"
	"github.com/gin-gonic/gin"
)

type GoalPredictor interface {
	Predict(f recommend.Features) (string, error)
}

type RecommendHandler struct {
	model GoalPredictor
	prom  *observability.Prom
}

// model may be nil when no artifact was present at startup; the endpoint then
// answers 503 instead of refusing to boot.
func NewRecommendHandler(model GoalPredictor, prom *observability.Prom) *RecommendHandler {
	return &RecommendHandler{model: model, prom: prom}
}

type RecommendRequest struct {
	WorkoutType    string  `json:"workout_type" binding:"required,oneof=deadlift running bench_press yoga cycling"`
	Equipment      string  `json:"equipment" binding:"required,oneof=full_gym home_gym yoga_mat none"`
	Intensity      string  `json:"intensity" binding:"required,oneof=very_low low moderate high"`
	DurationMin    int     `json:"duration_min" binding:"required,gt=0"`
	CaloriesBurned float64 `json:"calories_burned" binding:"required,gt=0"`
}

type RecommendResponse struct {
	PredictedGoal string `json:"predicted_goal"`
}

func (h *RecommendHandler) Recommend(ctx *gin.Context) {
	if h.model == nil {
		h.countPrediction("unavailable")
		RespondUnavailable(ctx, "model_unavailable", "Goal model is not loaded")
		return
	}

	var req RecommendRequest

	if !BindJSON(ctx, &req) {
		return
	}

	goal, err := h.model.Predict(recommend.Features{
		WorkoutType:    req.WorkoutType,
		Equipment:      req.Equipment,
		Intensity:      req.Intensity,
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
	})

	if err != nil {
		if errors.Is(err, recommend.ErrBadFeature) {
			h.countPrediction("error")
			RespondBadRequest(ctx, "Invalid prediction input", gin.H{"reason": err.Error()})
			return
		}

		h.countPrediction("error")
		RespondInternal(ctx, "Could not compute recommendation")
		return
	}

	h.countPrediction("ok")

	ctx.JSON(http.StatusOK, RecommendResponse{PredictedGoal: goal})
}

func (h *RecommendHandler) countPrediction(result string) {
	if h.prom != nil {
		h.prom.PredictionsTotal.WithLabelValues(result).Inc()
	}
}
