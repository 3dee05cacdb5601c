package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/fittrack/internal/domain/workout"
	"github.com/geocoder89/fittrack/internal/http/middlewares"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/utils"
	"github.com/gin-gonic/gin"
)

const workoutTimeout = 2 * time.Second

type WorkoutStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]workout.Workout, error)
	Create(ctx context.Context, w workout.Workout) (workout.Workout, error)
	Update(ctx context.Context, ownerID, id string, req workout.UpdateWorkoutRequest) (workout.Workout, error)
	Complete(ctx context.Context, ownerID, id string) (workout.Workout, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type WorkoutsHandler struct {
	repo WorkoutStore
	prom *observability.Prom
	log  *slog.Logger
}

func NewWorkoutsHandler(repo WorkoutStore, prom *observability.Prom, log *slog.Logger) *WorkoutsHandler {
	if log == nil {
		log = slog.Default()
	}

	return &WorkoutsHandler{repo: repo, prom: prom, log: log}
}

func (h *WorkoutsHandler) List(ctx *gin.Context) {
	ownerID, ok := requireOwner(ctx)
	if !ok {
		return
	}

	cctx, cancel := opContext(ctx, workoutTimeout)
	defer cancel()

	items, err := h.repo.ListByOwner(cctx, ownerID)
	if err != nil {
		h.log.ErrorContext(cctx, "list workouts failed", "err", err)
		RespondInternal(ctx, "Could not fetch workouts")
		return
	}

	if items == nil {
		items = []workout.Workout{}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"workouts": items,
		"count":    len(items),
	})
}

func (h *WorkoutsHandler) Add(ctx *gin.Context) {
	ownerID, ok := requireOwner(ctx)
	if !ok {
		return
	}

	var req workout.CreateWorkoutRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := opContext(ctx, workoutTimeout)
	defer cancel()

	created, err := h.repo.Create(cctx, workout.NewFromCreateRequest(ownerID, req))
	if err != nil {
		h.log.ErrorContext(cctx, "create workout failed", "err", err)
		RespondInternal(ctx, "Could not add workout")
		return
	}

	h.prom.WorkoutChanged("add")
	h.log.InfoContext(cctx, "workout added", "workout_id", created.ID)

	ctx.JSON(http.StatusCreated, created)
}

func (h *WorkoutsHandler) Update(ctx *gin.Context) {
	ownerID, ok := requireOwner(ctx)
	if !ok {
		return
	}

	id, ok := workoutIDParam(ctx)
	if !ok {
		return
	}

	var req workout.UpdateWorkoutRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := opContext(ctx, workoutTimeout)
	defer cancel()

	updated, err := h.repo.Update(cctx, ownerID, id, req)
	if err != nil {
		h.respondStoreError(ctx, cctx, "update", err)
		return
	}

	h.prom.WorkoutChanged("update")

	ctx.JSON(http.StatusOK, gin.H{
		"message":        "Workout updated successfully",
		"updatedWorkout": updated,
	})
}

func (h *WorkoutsHandler) Delete(ctx *gin.Context) {
	ownerID, ok := requireOwner(ctx)
	if !ok {
		return
	}

	id, ok := workoutIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := opContext(ctx, workoutTimeout)
	defer cancel()

	if err := h.repo.Delete(cctx, ownerID, id); err != nil {
		h.respondStoreError(ctx, cctx, "delete", err)
		return
	}

	h.prom.WorkoutChanged("delete")

	ctx.JSON(http.StatusOK, gin.H{"message": "Workout deleted successfully"})
}

// Complete is idempotent: completing a completed workout returns it unchanged.
func (h *WorkoutsHandler) Complete(ctx *gin.Context) {
	ownerID, ok := requireOwner(ctx)
	if !ok {
		return
	}

	id, ok := workoutIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := opContext(ctx, workoutTimeout)
	defer cancel()

	updated, err := h.repo.Complete(cctx, ownerID, id)
	if err != nil {
		h.respondStoreError(ctx, cctx, "complete", err)
		return
	}

	h.prom.WorkoutChanged("complete")

	ctx.JSON(http.StatusOK, gin.H{
		"message":        "Workout status updated successfully",
		"updatedWorkout": updated,
	})
}

func (h *WorkoutsHandler) respondStoreError(ctx *gin.Context, cctx context.Context, op string, err error) {
	// another user's workout looks exactly like a missing one
	if errors.Is(err, workout.ErrNotFound) {
		RespondNotFound(ctx, "Workout not found")
		return
	}

	h.log.ErrorContext(cctx, op+" workout failed", "err", err)
	RespondInternal(ctx, "Could not "+op+" workout")
}

func requireOwner(ctx *gin.Context) (string, bool) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Failed. No Token")
		return "", false
	}

	return ownerID, true
}

func workoutIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Query("id")
	if id == "" {
		RespondBadRequest(ctx, "missing_id", "Workout ID is required")
		return "", false
	}

	canonical, ok := utils.CanonicalUUID(id)
	if !ok {
		RespondBadRequest(ctx, "invalid_id", "Workout ID is not valid")
		return "", false
	}

	return canonical, true
}
