package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/fittrack/internal/domain/workout"
)

type WorkoutsRepo struct {
	mu    sync.RWMutex
	items map[string]workout.Workout
}

func NewWorkoutsRepo() *WorkoutsRepo {
	return &WorkoutsRepo{
		items: make(map[string]workout.Workout),
	}
}

func (r *WorkoutsRepo) ListByOwner(_ context.Context, ownerID string) ([]workout.Workout, error) {
	r.mu.RLock()
	out := make([]workout.Workout, 0)
	for _, w := range r.items {
		if w.UserID == ownerID {
			out = append(out, w)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *WorkoutsRepo) Create(_ context.Context, w workout.Workout) (workout.Workout, error) {
	r.mu.Lock()
	r.items[w.ID] = w
	r.mu.Unlock()

	return w, nil
}

func (r *WorkoutsRepo) Update(_ context.Context, ownerID, id string, req workout.UpdateWorkoutRequest) (workout.Workout, error) {
	return r.mutate(ownerID, id, func(w *workout.Workout) {
		w.Name = req.Name
		w.Duration = req.Duration
	})
}

func (r *WorkoutsRepo) Complete(_ context.Context, ownerID, id string) (workout.Workout, error) {
	return r.mutate(ownerID, id, func(w *workout.Workout) {
		w.Status = workout.StatusCompleted
	})
}

func (r *WorkoutsRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.items[id]
	if !ok || w.UserID != ownerID {
		return workout.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

// mutate applies fn under the write lock, matching the owner in the same step.
func (r *WorkoutsRepo) mutate(ownerID, id string, fn func(*workout.Workout)) (workout.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.items[id]
	if !ok || w.UserID != ownerID {
		return workout.Workout{}, workout.ErrNotFound
	}

	fn(&w)
	r.items[id] = w

	return w, nil
}
