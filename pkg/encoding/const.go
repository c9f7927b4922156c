package encoding

const (
	// Supported Encodings
	Base64       = "base64"
	Base64Raw    = "base64-raw"
	Base64URL    = "base64url"
	Base64URLRaw = "base64url-raw"
	Hex          = "hex"
	Gzip         = "gzip"
	Raw          = "raw"

	// DataPEMBlockType defines the type of a pem block carrying decoded data.
	DataPEMBlockType = "DATA"

	// MediaType
	// MediaTypePEM defines the media type for pem formatted data.
	MediaTypePEM = "application/x-pem-file"
	// MediaTypeOctetStream provides the decoded data in various encodings.
	MediaTypeOctetStream       = "application/octet-stream"
	MediaTypeOctetStreamHex    = "application/octet-stream+hex"
	MediaTypeOctetStreamBase64 = "application/octet-stream+base64"

	// EncodingHeader defines a pem header naming the encoding the data was decoded from.
	EncodingHeader = "Encoding"
)
