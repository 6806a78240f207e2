package log

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

var requestIDRe = regexp.MustCompile(`^req_[0-9a-f]{16}$`)

func TestNewRequestID(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()

	if !requestIDRe.MatchString(a) {
		t.Errorf("request id %q does not match expected format", a)
	}
	if a == b {
		t.Errorf("consecutive request ids collide: %q", a)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_test")
	if got := RequestID(ctx); got != "req_test" {
		t.Errorf("RequestID = %q, want req_test", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID on bare context = %q, want empty", got)
	}
}

func TestRequestMiddlewareAttachesRequestID(t *testing.T) {
	logger := New(Config{
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})

	var seen string
	handler := RequestMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if !requestIDRe.MatchString(seen) {
		t.Errorf("handler saw request id %q, want a generated id", seen)
	}
}
