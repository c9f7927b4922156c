package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/open-component-model/decoding-server/pkg/encoding"
)

// ErrBodyTooLarge is returned when the request body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("request body too large")

// EncodingFromRequest determines the input encoding from the route
// variable, the Content-Encoding header, or a "+suffix" of the
// Content-Type, in that order. It defaults to base64.
func EncodingFromRequest(r *http.Request) string {
	if enc := mux.Vars(r)[EncodingVar]; enc != "" {
		return enc
	}
	if enc := r.Header.Get(ContentEncoding); enc != "" {
		return enc
	}
	t := r.Header.Get(ContentType)
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	if i := strings.LastIndex(t, "+"); i > 0 {
		return strings.TrimSpace(t[i+1:])
	}
	return encoding.Base64
}

// AcceptedMediaType picks the first media type of the Accept header
// that has a formatter. Parameters such as q values are ignored, a
// missing header or a wildcard selects the raw octet stream.
func AcceptedMediaType(r *http.Request, formatters map[string]encoding.Formatter) (string, bool) {
	accept := r.Header.Values(AcceptHeader)
	if len(accept) == 0 {
		return encoding.MediaTypeOctetStream, true
	}
	for _, value := range accept {
		for _, t := range strings.Split(value, ",") {
			if i := strings.Index(t, ";"); i >= 0 {
				t = t[:i]
			}
			t = strings.ToLower(strings.TrimSpace(t))
			switch t {
			case "":
				continue
			case "*/*", "application/*":
				t = encoding.MediaTypeOctetStream
			}
			if _, ok := formatters[t]; ok {
				return t, true
			}
		}
	}
	return "", false
}

// ContentFromRequest reads the request body, refusing more than
// maxContentLength bytes.
func ContentFromRequest(r *http.Request, maxContentLength int) ([]byte, error) {
	if r.ContentLength > int64(maxContentLength) {
		return nil, fmt.Errorf("%w: content length of %d exceeds maximum content length of %d", ErrBodyTooLarge, r.ContentLength, maxContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxContentLength)+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read request body: %w", err)
	}
	if len(body) > maxContentLength {
		return nil, fmt.Errorf("%w: body exceeds maximum content length of %d", ErrBodyTooLarge, maxContentLength)
	}
	if r.ContentLength >= 0 && int64(len(body)) != r.ContentLength {
		return nil, fmt.Errorf("corrupted request body: expected %d bytes, but got only %d", r.ContentLength, len(body))
	}
	return body, nil
}
