package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/fittrack/internal/domain/workout"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workoutColumns = `id, user_id, name, duration, status, created_at`

// WorkoutsRepo scopes every statement by owner. A row that exists but
// belongs to someone else is indistinguishable from a missing row.
type WorkoutsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewWorkoutsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WorkoutsRepo {
	return &WorkoutsRepo{pool: pool, prom: prom}
}

func (r *WorkoutsRepo) ListByOwner(ctx context.Context, ownerID string) ([]workout.Workout, error) {
	out := make([]workout.Workout, 0)

	err := r.prom.ObserveDB("workouts.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+workoutColumns+`
			FROM workouts
			WHERE user_id = $1
			ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWorkout(rows)
			if err != nil {
				return err
			}
			out = append(out, w)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	return out, nil
}

func (r *WorkoutsRepo) Create(ctx context.Context, w workout.Workout) (workout.Workout, error) {
	err := r.prom.ObserveDB("workouts.create", func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO workouts (`+workoutColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			w.ID, w.UserID, w.Name, w.Duration, string(w.Status), w.CreatedAt,
		)
		return err
	})

	if err != nil {
		return workout.Workout{}, fmt.Errorf("insert workout: %w", err)
	}

	return w, nil
}

func (r *WorkoutsRepo) Update(ctx context.Context, ownerID, id string, req workout.UpdateWorkoutRequest) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	return r.mutateOne(ctx, "workouts.update", `
		UPDATE workouts
		SET name = $3, duration = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+workoutColumns,
		id, ownerID, req.Name, req.Duration,
	)
}

// Complete moves the workout to completed. Completing twice is a no-op that still succeeds.
func (r *WorkoutsRepo) Complete(ctx context.Context, ownerID, id string) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	return r.mutateOne(ctx, "workouts.complete", `
		UPDATE workouts
		SET status = $3
		WHERE id = $1 AND user_id = $2
		RETURNING `+workoutColumns,
		id, ownerID, string(workout.StatusCompleted),
	)
}

func (r *WorkoutsRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !utils.IsUUID(id) {
		return workout.ErrNotFound
	}

	var affected int64

	err := r.prom.ObserveDB("workouts.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, ownerID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	if affected == 0 {
		return workout.ErrNotFound
	}

	return nil
}

func (r *WorkoutsRepo) mutateOne(ctx context.Context, op, query string, args ...any) (workout.Workout, error) {
	var w workout.Workout

	err := r.prom.ObserveDB(op, func() error {
		var err error
		w, err = scanWorkout(r.pool.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workout.Workout{}, workout.ErrNotFound
		}
		return workout.Workout{}, fmt.Errorf("%s: %w", op, err)
	}

	return w, nil
}

func scanWorkout(row pgx.Row) (workout.Workout, error) {
	var (
		w      workout.Workout
		status string
	)

	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Duration, &status, &w.CreatedAt)
	if err != nil {
		return workout.Workout{}, err
	}

	w.Status = workout.Status(status)

	return w, nil
}
