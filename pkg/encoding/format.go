package encoding

import (
	"bytes"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"sort"

	"github.com/open-component-model/decoding-server/pkg/base64"
)

// Formatter renders decoded data for output.
type Formatter interface {
	Format(data []byte, annotations map[string]string) ([]byte, error)
}

// CreateFormatters returns the supported output formats keyed by media type.
func CreateFormatters() map[string]Formatter {
	return map[string]Formatter{
		MediaTypeOctetStream:       &RawFormatter{},
		MediaTypeOctetStreamBase64: &Base64Formatter{},
		MediaTypeOctetStreamHex:    &HexFormatter{},
		MediaTypePEM:               &PEMFormatter{},
	}
}

// MediaTypes returns the sorted keys of formatters.
func MediaTypes(formatters map[string]Formatter) []string {
	keys := make([]string, 0, len(formatters))
	for k := range formatters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

////////////////////////////////////////////////////////////////////////////////

type RawFormatter struct{}

func (f *RawFormatter) Format(data []byte, annotations map[string]string) ([]byte, error) {
	return data, nil
}

////////////////////////////////////////////////////////////////////////////////

type HexFormatter struct{}

func (f *HexFormatter) Format(data []byte, annotations map[string]string) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(data)))
	hex.Encode(out, data)
	return out, nil
}

////////////////////////////////////////////////////////////////////////////////

type Base64Formatter struct{}

func (f *Base64Formatter) Format(data []byte, annotations map[string]string) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

////////////////////////////////////////////////////////////////////////////////

// PEMFormatter wraps the data into a single DATA block, using the
// annotations as block headers.
type PEMFormatter struct{}

func (f *PEMFormatter) Format(data []byte, annotations map[string]string) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})

	block := &pem.Block{
		Type:    DataPEMBlockType,
		Headers: annotations,
		Bytes:   data,
	}
	if err := pem.Encode(buf, block); err != nil {
		return nil, fmt.Errorf("unable to pem encode data: %w", err)
	}
	return buf.Bytes(), nil
}
