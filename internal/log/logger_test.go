package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Component: ComponentShell, Output: buf})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Info("opened", "path", "x.db")
	logger.WithComponent(ComponentHTTP).Warn("slow")

	out := buf.String()
	if !strings.Contains(out, "component=shell") || !strings.Contains(out, "path=x.db") {
		t.Errorf("first record missing fields:\n%s", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("WithComponent not applied:\n%s", out)
	}
	if n := strings.Count(out, "component="); n != 2 {
		t.Errorf("component written %d times, want once per record:\n%s", n, out)
	}
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("records below warn were written:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error record missing:\n%s", buf.String())
	}
}

func TestMiddleware_StoresLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	var got *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got != logger {
		t.Fatal("handler did not receive the middleware logger")
	}
	if c := FromContext(context.Background()).Component(); c != "unknown" {
		t.Errorf("fallback component = %q, want unknown", c)
	}
}

func TestStructuredLogger_HTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newTestLogger(&buf, slog.LevelInfo))
		r := httptest.NewRequest(http.MethodGet, "/api/budget", nil)

		sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "10.0.0.1")

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: want %s in\n%s", tt.status, tt.level, out)
		}
		if !strings.Contains(out, "component=http") || !strings.Contains(out, "client_ip=10.0.0.1") {
			t.Errorf("status %d: missing fields\n%s", tt.status, out)
		}
	}
}

func TestStructuredLogger_LedgerError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newTestLogger(&buf, slog.LevelInfo))

	sl.LogLedgerError(context.Background(), "Ledger operation failed", errors.New("disk full"), OpCreate, "expenses", "")

	out := buf.String()
	for _, want := range []string{"level=ERROR", `error="disk full"`, "collection=expenses", "operation=" + OpCreate} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "category=") {
		t.Errorf("empty category should be omitted:\n%s", out)
	}
}
