package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/geocoder89/fittrack/internal/actorctx"
)

func TestLogger_AddsUserIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	ctx := actorctx.WithUserID(context.Background(), "user-42")
	log.InfoContext(ctx, "workout_completed", "workout_id", "w-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v, raw=%s", err, buf.String())
	}

	if line["user_id"] != "user-42" {
		t.Fatalf("got user_id %v, want user-42", line["user_id"])
	}
	if line["workout_id"] != "w-1" {
		t.Fatalf("got workout_id %v, want w-1", line["workout_id"])
	}
}

func TestLogger_DebugOnlyInDev(t *testing.T) {
	var buf bytes.Buffer

	newLogger("prod", &buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line leaked outside dev: %s", buf.String())
	}

	newLogger("dev", &buf).Debug("shown")
	if buf.Len() == 0 {
		t.Fatalf("expected debug line in dev")
	}
}
