package encoding

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// MaxInflatedSize limits the output of the gzip decoder.
var MaxInflatedSize int64 = 64 << 20

func init() {
	RegisterDecoder(Gzip, gzipDecoder{})
}

type gzipDecoder struct{}

func (d gzipDecoder) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, MaxInflatedSize+1))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if int64(len(out)) > MaxInflatedSize {
		return nil, fmt.Errorf("gzip: inflated data exceeds %d bytes", MaxInflatedSize)
	}
	return out, nil
}
