package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/fittrack/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func TestReadyz(t *testing.T) {
	ok := handlers.Check{Name: "database", Ping: func(context.Context) error { return nil }}
	down := handlers.Check{Name: "redis", Ping: func(context.Context) error { return errors.New("refused") }}

	tests := []struct {
		name         string
		shuttingDown bool
		checks       []handlers.Check
		want         int
	}{
		{name: "no_checks", want: http.StatusOK},
		{name: "all_ok", checks: []handlers.Check{ok}, want: http.StatusOK},
		{name: "one_down", checks: []handlers.Check{ok, down}, want: http.StatusServiceUnavailable},
		{name: "shutting_down", shuttingDown: true, checks: []handlers.Check{ok}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(func() bool { return tt.shuttingDown }, tt.checks...)

			r := gin.New()
			r.GET("/readyz", h.Readyz)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.want {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
