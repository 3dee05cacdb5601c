package workout

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateWorkoutRequest) Workout {
	return Workout{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Name:      req.Name,
		Duration:  req.Duration,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
