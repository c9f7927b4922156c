package log

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetLoggerFromContextWithoutLogger(t *testing.T) {
	logger := GetLoggerFromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info("discarded")
}

func TestMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	lm := LoggingMiddleware{Logger: zap.New(core)}

	var seen *zap.Logger
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/decode/base64", nil)
	lm.PrepareLogger(lm.LogRequests(h)).ServeHTTP(rec, req)

	require.NotNil(t, seen)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	requestId := rec.Header().Get(RequestIdHeader)
	_, err := uuid.Parse(requestId)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "incoming request", entries[0].Message)
	in := entries[0].ContextMap()
	assert.Equal(t, requestId, in[LogKeyRequestId])
	assert.Equal(t, http.MethodPost, in[LogKeyMethod])
	assert.Equal(t, "/decode/base64", in[LogKeyUri])

	assert.Equal(t, "finished request", entries[1].Message)
	out := entries[1].ContextMap()
	assert.Equal(t, requestId, out[LogKeyRequestId])
	assert.EqualValues(t, http.StatusTeapot, out[LogKeyResponseCode])
	assert.EqualValues(t, 5, out[LogKeyResponseBodySize])
}

func TestLogResponseWriterDefaultStatus(t *testing.T) {
	rw := NewLogResponseWriter(httptest.NewRecorder())
	_, err := rw.Write([]byte("a"))
	require.NoError(t, err)
	_, err = rw.Write([]byte("bc"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, 3, rw.size)
}
