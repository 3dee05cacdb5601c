package workout

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var ErrNotFound = errors.New("workout not found")

type Workout struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Duration  string    `json:"duration"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"dateAdded"`
}

type CreateWorkoutRequest struct {
	Name     string `json:"name" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

// full replacement of the editable fields; status only moves through Complete.
type UpdateWorkoutRequest struct {
	Name     string `json:"name" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}
