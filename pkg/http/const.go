package http

const (
	// Http Header Keys
	AcceptHeader        = "Accept"
	ContentType         = "Content-Type"
	ContentLengthHeader = "Content-Length"
	ContentEncoding     = "Content-Encoding"

	// Content types
	MimeOctetStream = "application/octet-stream"
	MimeTextPlain   = "text/plain"

	// Route variables
	EncodingVar = "encoding"
)
