// Package logging builds the process logger and the request logging middleware.
package logging

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sig-servicios/cotizador/auth"
)

type ctxKey struct{}

const RequestIDHeader = "X-Request-ID"

// New returns a logger writing to stdout at the given level.
func New(level string, json bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Error logs err with the module and function it came from.
func Error(logger logrus.FieldLogger, module, fn, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   module,
		"funcName": fn,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}

// FromContext returns the request scoped entry set by Middleware, or a bare
// entry on the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Middleware tags each request with an id and logs it once served.
// It must run after auth middleware to record the caller.
func Middleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)
			entry := logger.WithField("request_id", reqID)
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, entry)))

			fields := logrus.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  rec.status,
				"bytes":   rec.bytes,
				"latency": time.Since(start).String(),
			}
			if c, ok := auth.ClaimsFromContext(r.Context()); ok {
				fields["user_id"] = c.UserID()
			}
			e := entry.WithFields(fields)
			switch {
			case rec.status >= 500:
				e.Error("request")
			case rec.status >= 400:
				e.Warn("request")
			default:
				e.Info("request")
			}
		})
	}
}
