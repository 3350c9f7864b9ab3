package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitnessbud/backend/internal/config"
	"github.com/fitnessbud/backend/internal/domain/workoutlog"
	"github.com/fitnessbud/backend/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type WorkoutLogStore interface {
	Create(ctx context.Context, userID int64, req workoutlog.CreateWorkoutLogRequest) (workoutlog.WorkoutLog, error)
	ListByUser(ctx context.Context, userID int64) ([]workoutlog.WorkoutLog, error)
	GetByID(ctx context.Context, logID, userID int64) (workoutlog.WorkoutLog, error)
	Update(ctx context.Context, logID, userID int64, req workoutlog.UpdateWorkoutLogRequest) (workoutlog.WorkoutLog, error)
	Delete(ctx context.Context, logID, userID int64) error
}

type WorkoutLogsHandler struct {
	store WorkoutLogStore
}

func NewWorkoutLogsHandler(store WorkoutLogStore) *WorkoutLogsHandler {
	return &WorkoutLogsHandler{store: store}
}

func (h *WorkoutLogsHandler) CreateLog(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req workoutlog.CreateWorkoutLogRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	log, err := h.store.Create(cctx, uid, req)

	if err != nil {
		RespondInternal(ctx, "Could not create workout log")
		return
	}

	ctx.JSON(http.StatusCreated, log)
}

func (h *WorkoutLogsHandler) ListLogs(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	logs, err := h.store.ListByUser(cctx, uid)

	if err != nil {
		RespondInternal(ctx, "Could not list workout logs")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": logs,
		"count": len(logs),
	})
}

func (h *WorkoutLogsHandler) GetLogByID(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	id, ok := logIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	log, err := h.store.GetByID(cctx, id, uid)

	if err != nil {
		if errors.Is(err, workoutlog.ErrNotFound) {
			RespondNotFound(ctx, "Workout log not found")
			return
		}
		RespondInternal(ctx, "Could not fetch workout log")
		return
	}

	ctx.JSON(http.StatusOK, log)
}

func (h *WorkoutLogsHandler) UpdateLog(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	id, ok := logIDParam(ctx)

	if !ok {
		return
	}

	var req workoutlog.UpdateWorkoutLogRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	log, err := h.store.Update(cctx, id, uid, req)

	if err != nil {
		if errors.Is(err, workoutlog.ErrNotFound) {
			RespondNotFound(ctx, "Workout log not found")
			return
		}
		RespondInternal(ctx, "Could not update workout log")
		return
	}

	ctx.JSON(http.StatusOK, log)
}

func (h *WorkoutLogsHandler) DeleteLog(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	id, ok := logIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id, uid)

	if err != nil {
		if errors.Is(err, workoutlog.ErrNotFound) {
			RespondNotFound(ctx, "Workout log not found")
			return
		}
		RespondInternal(ctx, "Could not delete workout log")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// a non-numeric id can match no record, so it gets the same not-found as a
// missing one
func logIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondNotFound(ctx, "Workout log not found")
		return 0, false
	}

	return id, true
}
