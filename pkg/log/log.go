package log

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoggerContextKey struct{}

const (
	LogKeyUri              = "uri"
	LogKeyRemoteAddr       = "remote-addr"
	LogKeyMethod           = "method"
	LogKeyRequestId        = "request-id"
	LogKeyResponseCode     = "response-code"
	LogKeyDuration         = "duration"
	LogKeyResponseBodySize = "response-body-size"

	// RequestIdHeader carries the request id back to the client.
	RequestIdHeader = "X-Request-Id"
)

type LoggingMiddleware struct {
	Logger *zap.Logger
}

// PrepareLogger stores a logger tagged with a fresh request id in the
// request context.
func (l *LoggingMiddleware) PrepareLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := uuid.New().String()
		w.Header().Set(RequestIdHeader, requestId)

		logger := l.Logger.With(zap.String(LogKeyRequestId, requestId))
		next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
	})
}

func (l *LoggingMiddleware) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromContext(r.Context())

		logger.Info("incoming request",
			zap.String(LogKeyMethod, r.Method),
			zap.String(LogKeyUri, r.RequestURI),
			zap.String(LogKeyRemoteAddr, r.RemoteAddr),
		)

		rw := NewLogResponseWriter(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		logger.Info("finished request",
			zap.Int(LogKeyResponseCode, rw.StatusCode()),
			zap.Duration(LogKeyDuration, time.Since(start)),
			zap.Int(LogKeyResponseBodySize, rw.size),
		)
	})
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey{}, logger)
}

// GetLoggerFromContext returns the request logger, or a no-op logger if
// the context carries none.
func GetLoggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerContextKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

type LogResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func NewLogResponseWriter(w http.ResponseWriter) *LogResponseWriter {
	return &LogResponseWriter{ResponseWriter: w}
}

// StatusCode returns the written status, defaulting to 200 like net/http.
func (w *LogResponseWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *LogResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *LogResponseWriter) Write(body []byte) (int, error) {
	n, err := w.ResponseWriter.Write(body)
	w.size += n
	return n, err
}
