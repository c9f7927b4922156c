package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/open-component-model/decoding-server/pkg/encoding"
	"github.com/open-component-model/decoding-server/pkg/log"
	"github.com/open-component-model/decoding-server/pkg/metrics"
)

func CreateDecodeHandler(formatters map[string]encoding.Formatter, maxContentLength int, m *metrics.Decoder) http.Handler {
	return &DecodeHandler{
		formatters:       formatters,
		maxContentLength: maxContentLength,
		metrics:          m,
	}
}

// DecodeHandler decodes the request body and answers with the decoded
// data rendered in the media type requested by the Accept header.
type DecodeHandler struct {
	formatters       map[string]encoding.Formatter
	maxContentLength int
	metrics          *metrics.Decoder
}

func (h *DecodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLoggerFromContext(r.Context())

	name := strings.ToLower(EncodingFromRequest(r))
	fields := []zap.Field{
		zap.String("encoding", name),
		zap.String("client", ReadUserIP(r)),
	}
	if r.TLS != nil && len(r.TLS.VerifiedChains) > 0 && len(r.TLS.VerifiedChains[0]) > 0 {
		fields = append(fields, zap.String("commonName", r.TLS.VerifiedChains[0][0].Subject.CommonName))
	}
	logger.Info("request", fields...)

	accept, ok := AcceptedMediaType(r, h.formatters)
	if !ok {
		HandleHTTPError(
			fmt.Sprintf("unknown %s header %q. possible values: %q", AcceptHeader, r.Header.Get(AcceptHeader), encoding.MediaTypes(h.formatters)),
			nil,
			http.StatusNotAcceptable,
			logger,
			w,
		)
		return
	}
	formatter := h.formatters[accept]

	decoder, err := encoding.GetDecoder(name)
	if err != nil {
		HandleHTTPError("unsupported encoding", err, http.StatusBadRequest, logger, w)
		return
	}

	data, err := ContentFromRequest(r, h.maxContentLength)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		HandleHTTPError("invalid request content", err, status, logger, w)
		return
	}

	size := len(data)
	decoded, err := decoder.Decode(data)
	h.metrics.Observe(name, size, len(decoded), err)
	if err != nil {
		HandleHTTPError("unable to decode", err, http.StatusBadRequest, logger, w)
		return
	}
	logger.Info("decoded", zap.Int("input-size", size), zap.Int("output-size", len(decoded)))

	annotations := map[string]string{
		encoding.EncodingHeader: name,
	}
	respBody, err := formatter.Format(decoded, annotations)
	if err != nil {
		HandleHTTPError("unable to build response body", err, http.StatusInternalServerError, logger, w)
		return
	}

	w.Header().Set(ContentType, accept)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBody); err != nil {
		logger.Error("unable to write response body", zap.Error(err))
		return
	}
}
