package workoutlog

import (
	"errors"
	"time"
)

// DateLayout is the wire format for workout dates.
const DateLayout = "2006-01-02"

// ErrNotFound is returned for missing logs AND logs owned by another user;
// callers must not be able to tell the two apart.
var ErrNotFound = errors.New("workout log not found")

type WorkoutLog struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	WorkoutDate    time.Time `json:"workout_date"`
	DurationMin    int       `json:"duration_min"`
	Intensity      string    `json:"intensity"`
	WorkoutType    string    `json:"workout_type"`
	CaloriesBurned *float64  `json:"calories_burned,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateWorkoutLogRequest struct {
	WorkoutDate    string   `json:"workout_date" binding:"required,datetime=2006-01-02"`
	DurationMin    int      `json:"duration_min" binding:"required,gt=0"`
	Intensity      string   `json:"intensity" binding:"required,oneof=very_low low moderate high"`
	WorkoutType    string   `json:"workout_type" binding:"required,max=50"`
	CaloriesBurned *float64 `json:"calories_burned" binding:"omitempty,gt=0"`
}

// all fields optional; nil means "leave unchanged"
type UpdateWorkoutLogRequest struct {
	WorkoutDate    *string  `json:"workout_date" binding:"omitempty,datetime=2006-01-02"`
	DurationMin    *int     `json:"duration_min" binding:"omitempty,gt=0"`
	Intensity      *string  `json:"intensity" binding:"omitempty,oneof=very_low low moderate high"`
	WorkoutType    *string  `json:"workout_type" binding:"omitempty,max=50"`
	CaloriesBurned *float64 `json:"calories_burned" binding:"omitempty,gt=0"`
}

func (r UpdateWorkoutLogRequest) Empty() bool {
	return r.WorkoutDate == nil &&
		r.DurationMin == nil &&
		r.Intensity == nil &&
		r.WorkoutType == nil &&
		r.CaloriesBurned == nil
}

// ParseDate converts a wire-format workout date into a UTC midnight timestamp.
// Inputs are validated by the binding layer before this runs.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}
