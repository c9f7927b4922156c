package encoding

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Decoder converts encoded input into its binary form. Implementations
// may reuse the storage of the input for the result.
type Decoder interface {
	Decode(data []byte) ([]byte, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(data []byte) ([]byte, error)

func (f DecoderFunc) Decode(data []byte) ([]byte, error) {
	return f(data)
}

var (
	lock     sync.RWMutex
	decoders = map[string]Decoder{
		// raw input is already binary
		Raw: DecoderFunc(func(data []byte) ([]byte, error) { return data, nil }),
	}
)

func RegisterDecoder(name string, d Decoder) {
	lock.Lock()
	defer lock.Unlock()
	decoders[name] = d
}

func SupportedDecoders() []string {
	lock.RLock()
	defer lock.RUnlock()
	s := []string{}
	for k := range decoders {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

func GetDecoder(name string) (Decoder, error) {
	lock.RLock()
	decoder := decoders[strings.ToLower(name)]
	lock.RUnlock()
	if decoder == nil {
		return nil, fmt.Errorf("unknown encoding %q (supported %s)", name, strings.Join(SupportedDecoders(), ","))
	}
	return decoder, nil
}
