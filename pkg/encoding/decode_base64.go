package encoding

import (
	"github.com/open-component-model/decoding-server/pkg/base64"
)

func init() {
	RegisterDecoder(Base64, base64Decoder{base64.StdEncoding})
	RegisterDecoder(Base64Raw, base64Decoder{base64.RawStdEncoding})
	RegisterDecoder(Base64URL, base64Decoder{base64.URLEncoding})
	RegisterDecoder(Base64URLRaw, base64Decoder{base64.RawURLEncoding})
}

// base64Decoder decodes in place, so the result shares storage with data.
type base64Decoder struct {
	enc *base64.Encoding
}

func (d base64Decoder) Decode(data []byte) ([]byte, error) {
	n, err := d.enc.DecodeInPlace(data)
	if err != nil {
		return nil, err
	}
	return data[:n], nil
}
