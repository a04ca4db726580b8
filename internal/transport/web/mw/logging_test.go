package mw

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingEmitsRequestLine(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("payload"))
	})

	r := httptest.NewRequest(http.MethodPost, "/lab", nil)
	r.Header.Set("X-Request-ID", "req-123")
	WithRequestID(Logging(logger)(next)).ServeHTTP(httptest.NewRecorder(), r)

	line := buf.String()
	for _, want := range []string{
		"req_id=req-123", "op=http.request", "method=POST", "path=/lab",
		"status=201", "size=7", "duration_ms=",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLoggingDefaultsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	// хендлер не пишет ни заголовок, ни тело
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	Logging(logger)(next).ServeHTTP(httptest.NewRecorder(), r)

	if line := buf.String(); !strings.Contains(line, "status=200") {
		t.Errorf("want status=200 in: %s", line)
	}
}
