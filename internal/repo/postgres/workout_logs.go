package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitnessbud/backend/internal/domain/workoutlog"
	"github.com/fitnessbud/backend/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ownedBy is the single ownership predicate shared by get/update/delete so the
// three paths cannot drift apart. A row that exists but belongs to someone
// else is indistinguishable from a row that does not exist.
const ownedBy = `id = $1 AND user_id = $2`

const logColumns = `id, user_id, workout_date, duration_min, intensity, workout_type, calories_burned, created_at, updated_at`

type WorkoutLogsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewWorkoutLogsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WorkoutLogsRepo {
	return &WorkoutLogsRepo{pool: pool, prom: prom}
}

func (r *WorkoutLogsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanLog(row pgx.Row) (workoutlog.WorkoutLog, error) {
	var l workoutlog.WorkoutLog

	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.WorkoutDate,
		&l.DurationMin,
		&l.Intensity,
		&l.WorkoutType,
		&l.CaloriesBurned,
		&l.CreatedAt,
		&l.UpdatedAt,
	)

	return l, err
}

func (r *WorkoutLogsRepo) Create(ctx context.Context, userID int64, req workoutlog.CreateWorkoutLogRequest) (log workoutlog.WorkoutLog, err error) {
	date, err := workoutlog.ParseDate(req.WorkoutDate)

	if err != nil {
		return
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = r.observe("workout_logs.create", func() error {
		var e error
		log, e = scanLog(tx.QueryRow(ctx,
			`INSERT INTO workout_logs (user_id, workout_date, duration_min, intensity, workout_type, calories_burned)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 RETURNING `+logColumns,
			userID, date, req.DurationMin, req.Intensity, req.WorkoutType, req.CaloriesBurned,
		))
		return e
	})

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	return
}

func (r *WorkoutLogsRepo) ListByUser(ctx context.Context, userID int64) (logs []workoutlog.WorkoutLog, err error) {
	var rows pgx.Rows

	err = r.observe("workout_logs.list_by_user", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT `+logColumns+`
			 FROM workout_logs
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC`,
			userID,
		)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	logs = make([]workoutlog.WorkoutLog, 0)

	for rows.Next() {
		l, e := scanLog(rows)

		if e != nil {
			return nil, e
		}

		logs = append(logs, l)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *WorkoutLogsRepo) GetByID(ctx context.Context, logID, userID int64) (workoutlog.WorkoutLog, error) {
	var l workoutlog.WorkoutLog

	err := r.observe("workout_logs.get_by_id", func() error {
		var e error
		l, e = scanLog(r.pool.QueryRow(ctx,
			`SELECT `+logColumns+`
			 FROM workout_logs
			 WHERE `+ownedBy,
			logID, userID,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workoutlog.WorkoutLog{}, workoutlog.ErrNotFound
		}

		return workoutlog.WorkoutLog{}, err
	}

	return l, nil
}

// Update applies only the provided fields. An empty patch still refreshes
// updated_at, which keeps repeated no-op PATCHes observable.
func (r *WorkoutLogsRepo) Update(ctx context.Context, logID, userID int64, req workoutlog.UpdateWorkoutLogRequest) (log workoutlog.WorkoutLog, err error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{logID, userID}
	pos := 3

	addSet := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, pos))
		args = append(args, val)
		pos++
	}

	if req.WorkoutDate != nil {
		var date time.Time
		date, err = workoutlog.ParseDate(*req.WorkoutDate)

		if err != nil {
			return
		}

		addSet("workout_date", date)
	}

	if req.DurationMin != nil {
		addSet("duration_min", *req.DurationMin)
	}

	if req.Intensity != nil {
		addSet("intensity", *req.Intensity)
	}

	if req.WorkoutType != nil {
		addSet("workout_type", *req.WorkoutType)
	}

	if req.CaloriesBurned != nil {
		addSet("calories_burned", *req.CaloriesBurned)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = r.observe("workout_logs.update", func() error {
		var e error
		log, e = scanLog(tx.QueryRow(ctx,
			`UPDATE workout_logs
			 SET `+strings.Join(sets, ", ")+`
			 WHERE `+ownedBy+`
			 RETURNING `+logColumns,
			args...,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = workoutlog.ErrNotFound
		}

		return
	}

	err = tx.Commit(ctx)

	return
}

func (r *WorkoutLogsRepo) Delete(ctx context.Context, logID, userID int64) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var deleted int64

	err = r.observe("workout_logs.delete", func() error {
		tag, e := tx.Exec(ctx,
			`DELETE FROM workout_logs WHERE `+ownedBy,
			logID, userID,
		)

		if e != nil {
			return e
		}

		deleted = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return
	}

	// deleting something already gone is a not-found, not an error
	if deleted == 0 {
		err = workoutlog.ErrNotFound
		return
	}

	err = tx.Commit(ctx)

	return
}
