package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/fittrack/internal/domain/user"
	"github.com/geocoder89/fittrack/internal/domain/workout"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	_, err := r.Create(ctx, user.New("a@x.com", "hash", false))
	require.NoError(t, err)

	_, err = r.Create(ctx, user.New(" A@X.com ", "hash2", false))
	require.ErrorIs(t, err, user.ErrEmailTaken)
	require.Equal(t, 1, r.Count())

	got, err := r.GetByEmail(ctx, "A@x.COM")
	require.NoError(t, err)
	require.Equal(t, "hash", got.PasswordHash)

	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersRepo_ConcurrentRegistrationsYieldOneUser(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Create(ctx, user.New("race@x.com", "h", false)); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, 1, r.Count())
}

func TestWorkoutsRepo_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, workout.NewFromCreateRequest("alice", workout.CreateWorkoutRequest{Name: "Run", Duration: "30 min"}))
	require.NoError(t, err)

	list, err := r.ListByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, list)
	require.NotNil(t, list)

	_, err = r.Update(ctx, "bob", w.ID, workout.UpdateWorkoutRequest{Name: "Walk", Duration: "1h"})
	require.ErrorIs(t, err, workout.ErrNotFound)

	_, err = r.Complete(ctx, "bob", w.ID)
	require.ErrorIs(t, err, workout.ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, "bob", w.ID), workout.ErrNotFound)

	list, err = r.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Run", list[0].Name)
	require.Equal(t, workout.StatusPending, list[0].Status)
}

func TestWorkoutsRepo_CompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, workout.NewFromCreateRequest("alice", workout.CreateWorkoutRequest{Name: "Run", Duration: "30 min"}))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := r.Complete(ctx, "alice", w.ID)
		require.NoError(t, err)
		require.Equal(t, workout.StatusCompleted, got.Status)
	}
}

func TestWorkoutsRepo_SecondDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, workout.NewFromCreateRequest("alice", workout.CreateWorkoutRequest{Name: "Run", Duration: "30 min"}))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "alice", w.ID))
	require.ErrorIs(t, r.Delete(ctx, "alice", w.ID), workout.ErrNotFound)
}

func TestWorkoutsRepo_ListOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"third", "first", "second"} {
		w := workout.NewFromCreateRequest("alice", workout.CreateWorkoutRequest{Name: name, Duration: "10 min"})
		w.CreatedAt = base.Add(time.Duration([]int{2, 0, 1}[i]) * time.Minute)
		_, err := r.Create(ctx, w)
		require.NoError(t, err)
	}

	list, err := r.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "third"}, []string{list[0].Name, list[1].Name, list[2].Name})
}
