package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/open-component-model/decoding-server/pkg/encoding"
	"github.com/open-component-model/decoding-server/pkg/log"
	"github.com/open-component-model/decoding-server/pkg/metrics"
)

type RouterOptions struct {
	Logger           *zap.Logger
	Formatters       map[string]encoding.Formatter
	MaxBodySizeBytes int
	// Metrics enables the /metrics route when set.
	Metrics *metrics.Decoder
}

// NewRouter wires the decoding routes:
//
//	POST /decode/{encoding}
//	POST /decode            (encoding from Content-Encoding or Content-Type)
//	GET  /healthz
//	GET  /metrics
func NewRouter(opts RouterOptions) *mux.Router {
	h := CreateDecodeHandler(opts.Formatters, opts.MaxBodySizeBytes, opts.Metrics)

	r := mux.NewRouter()
	r.Methods(http.MethodPost).Path("/decode/{" + EncodingVar + "}").Handler(h)
	r.Methods(http.MethodPost).Path("/decode").Handler(h)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(healthz)
	if opts.Metrics != nil {
		r.Methods(http.MethodGet).Path("/metrics").Handler(opts.Metrics.Handler())
	}

	lm := log.LoggingMiddleware{
		Logger: opts.Logger,
	}
	r.Use(lm.PrepareLogger)
	r.Use(lm.LogRequests)
	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(ContentType, MimeTextPlain)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
