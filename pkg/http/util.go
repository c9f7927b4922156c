package http

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// HandleHTTPError is a utility function which logs an error and then returns it back to the client
func HandleHTTPError(msg string, wrappedErr error, httpStatus int, logger *zap.Logger, w http.ResponseWriter) {
	logger.Error(msg, zap.Error(wrappedErr), zap.Int("status", httpStatus))
	if wrappedErr != nil {
		msg = fmt.Sprintf("%s: %s", msg, wrappedErr.Error())
	}
	http.Error(w, msg, httpStatus)
}

func ReadUserIP(r *http.Request) string {
	IPAddress := r.Header.Get("X-Real-Ip")
	if IPAddress == "" {
		IPAddress = r.Header.Get("X-Forwarded-For")
	}
	if IPAddress == "" {
		IPAddress = r.RemoteAddr
	}
	return IPAddress
}
