package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
)

const logFieldsKey ContextKey = "logFields"

// quietPaths are polled by orchestrators and scrapers; successful hits log at
// debug level.
var quietPaths = map[string]bool{
	"/health": true, "/healthz": true, "/readyz": true, "/metrics": true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += int64(n)
	return n, err
}

// logFields is shared by pointer through the request context, so handlers
// deeper in the chain can annotate the access log line whatever writers wrap
// the response in between.
type logFields struct {
	mu sync.Mutex
	m  map[string]interface{}
}

// AddLogField attaches key to the access log line of r.
func AddLogField(r *http.Request, key string, value interface{}) {
	lf, ok := r.Context().Value(logFieldsKey).(*logFields)
	if !ok {
		return
	}
	lf.mu.Lock()
	lf.m[key] = value
	lf.mu.Unlock()
}

// Logger writes one line per request: error level for 5xx, warn for 4xx.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			lf := &logFields{m: map[string]interface{}{}}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), logFieldsKey, lf)))

			lf.mu.Lock()
			fields := lf.m
			lf.mu.Unlock()
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
			fields["status"] = rec.status
			fields["duration_ms"] = time.Since(start).Milliseconds()
			fields["bytes"] = rec.bytes
			fields["ip"] = r.RemoteAddr
			fields["request_id"] = GetRequestID(r)
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}

			entry := log.WithFields(fields)
			switch {
			case rec.status >= 500:
				entry.Error("HTTP request")
			case rec.status >= 400:
				entry.Warn("HTTP request")
			case quietPaths[r.URL.Path]:
				entry.Debug("HTTP request")
			default:
				entry.Info("HTTP request")
			}
		})
	}
}
