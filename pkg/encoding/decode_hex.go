package encoding

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

func init() {
	RegisterDecoder(Hex, hexDecoder{})
}

type hexDecoder struct{}

func (d hexDecoder) Decode(data []byte) ([]byte, error) {
	data = bytes.TrimRight(data, " \t\r\n\x00")
	n, err := hex.Decode(data, data)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return data[:n], nil
}
