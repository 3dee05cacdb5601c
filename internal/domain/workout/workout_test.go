package workout

import "testing"

func TestNewFromCreateRequest_StartsPending(t *testing.T) {
	w := NewFromCreateRequest("owner-1", CreateWorkoutRequest{Name: "Run", Duration: "30 min"})

	if w.Status != StatusPending {
		t.Fatalf("got status %q, want pending", w.Status)
	}
	if w.UserID != "owner-1" {
		t.Fatalf("got owner %q, want owner-1", w.UserID)
	}
	if w.ID == "" || w.CreatedAt.IsZero() {
		t.Fatalf("expected id and creation time to be set: %+v", w)
	}
}
