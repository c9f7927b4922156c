package base64

import (
	"encoding/binary"
	"errors"
	"strconv"
)

const (
	StdPadding rune = '=' // standard padding '='
	NoPadding  rune = -1  // no padding
)

var (
	// ErrInvalidCharacter is reported for a byte that is neither in
	// the alphabet nor padding.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidPadding is reported for padding in a non-terminal
	// position, an invalid amount of padding, or non-zero padding
	// bits in strict mode.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrTruncatedInput is reported when the input does not consist
	// of whole quanta.
	ErrTruncatedInput = errors.New("truncated input")
)

// CorruptInputError describes malformed Base64 input.
type CorruptInputError struct {
	// Offset is the index of the offending byte in the input.
	Offset int
	// Err is one of ErrInvalidCharacter, ErrInvalidPadding or
	// ErrTruncatedInput.
	Err error
}

func (e *CorruptInputError) Error() string {
	return "base64: " + e.Err.Error() + " at input byte " + strconv.Itoa(e.Offset)
}

func (e *CorruptInputError) Unwrap() error {
	return e.Err
}

// StdEncoding is the standard Base64 encoding.
//
// It uses the following table:
//
//    ABCDEFGHIJKLMNOPQRSTUVWXYZ
//    abcdefghijklmnopqrstuvwxyz
//    0123456789
//    +/
//
var StdEncoding = &Encoding{
	lookup:    stdLookup,
	revLookup: stdRevLookup,
	padChar:   StdPadding,
}

// RawStdEncoding is the unpadded standard Base64 encoding.
var RawStdEncoding = &Encoding{
	lookup:    stdLookup,
	revLookup: stdRevLookup,
	padChar:   NoPadding,
}

// URLEncoding is the base64url encoding.
//
// It uses the following table:
//
//    ABCDEFGHIJKLMNOPQRSTUVWXYZ
//    abcdefghijklmnopqrstuvwxyz
//    0123456789
//    -_
//
var URLEncoding = &Encoding{
	lookup:    urlLookup,
	revLookup: urlRevLookup,
	padChar:   StdPadding,
}

// RawURLEncoding is the unpadded base64url encoding.
var RawURLEncoding = &Encoding{
	lookup:    urlLookup,
	revLookup: urlRevLookup,
	padChar:   NoPadding,
}

// Encoding is a particular Base64 alphabet and padding policy.
type Encoding struct {
	lookup    func(c uint) byte
	revLookup func(c uint) byte
	padChar   rune
	strict    bool
}

// Strict returns an identical Encoding that rejects non-zero
// padding bits in the final quantum (see section 3.5 of RFC 4648).
func (e Encoding) Strict() *Encoding {
	e.strict = true
	return &e
}

// EncodedLen returns the size in bytes of the Base64 encoding of n
// source bytes.
func (e *Encoding) EncodedLen(n int) int {
	if e.padChar == NoPadding {
		return (n*8 + 5) / 6
	}
	return (n + 2) / 3 * 4
}

// DecodedLen returns the maximum length in bytes of the decoded
// form of n bytes of Base64-encoded data.
func (e *Encoding) DecodedLen(n int) int {
	if e.padChar == NoPadding {
		return n * 6 / 8
	}
	return n / 4 * 3
}

// Encode encodes src, writing EncodedLen(len(src)) bytes to dst.
func (e *Encoding) Encode(dst, src []byte) {
	lookup := e.lookup
	for len(src) >= 3 {
		v := uint(src[0])<<16 | uint(src[1])<<8 | uint(src[2])
		dst[0] = lookup(v >> 18 & 0x3f)
		dst[1] = lookup(v >> 12 & 0x3f)
		dst[2] = lookup(v >> 6 & 0x3f)
		dst[3] = lookup(v & 0x3f)
		src = src[3:]
		dst = dst[4:]
	}

	switch len(src) {
	case 2:
		v := uint(src[0])<<16 | uint(src[1])<<8
		dst[0] = lookup(v >> 18 & 0x3f)
		dst[1] = lookup(v >> 12 & 0x3f)
		dst[2] = lookup(v >> 6 & 0x3f)
		if e.padChar != NoPadding {
			dst[3] = byte(e.padChar)
		}
	case 1:
		v := uint(src[0]) << 16
		dst[0] = lookup(v >> 18 & 0x3f)
		dst[1] = lookup(v >> 12 & 0x3f)
		if e.padChar != NoPadding {
			dst[2] = byte(e.padChar)
			dst[3] = byte(e.padChar)
		}
	}
}

// EncodeToString returns the Base64 encoding of src.
func (e *Encoding) EncodeToString(src []byte) string {
	dst := make([]byte, e.EncodedLen(len(src)))
	e.Encode(dst, src)
	return string(dst)
}

// DecodeInPlace decodes buf using StdEncoding and writes the result
// over the beginning of buf. See Encoding.DecodeInPlace.
func DecodeInPlace(buf []byte) (int, error) {
	return StdEncoding.DecodeInPlace(buf)
}

// DecodeInPlace decodes buf and writes the decoded bytes to
// buf[:n], returning n. The decoded form is never longer than the
// encoded form, so n <= len(buf).
//
// If buf is malformed DecodeInPlace returns 0 and a
// *CorruptInputError, and buf is left unchanged.
func (e *Encoding) DecodeInPlace(buf []byte) (int, error) {
	return e.Decode(buf, buf)
}

// Decode decodes src, writing at most DecodedLen(len(src)) bytes to
// dst, and returns the number of bytes written.
//
// dst may alias src as long as both begin at the same address;
// every write lands on input that has already been read.
//
// If src is malformed Decode returns 0 and a *CorruptInputError
// without writing to dst.
func (e *Encoding) Decode(dst, src []byte) (int, error) {
	src = trimTrailing(src)
	if len(src) == 0 {
		return 0, nil
	}

	body := src
	if e.padChar != NoPadding {
		for len(body) > 0 && body[len(body)-1] == byte(e.padChar) {
			body = body[:len(body)-1]
		}
	}

	if err := e.validate(body); err != nil {
		return 0, err
	}
	if err := e.checkLength(len(body), len(src)-len(body)); err != nil {
		return 0, err
	}
	if e.strict {
		if err := e.checkPaddingBits(body); err != nil {
			return 0, err
		}
	}
	return e.decode(dst, body), nil
}

// DecodeString returns the bytes represented by the Base64 string s.
func (e *Encoding) DecodeString(s string) ([]byte, error) {
	dst := []byte(s)
	n, err := e.DecodeInPlace(dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// trimTrailing strips the ignorable run of whitespace and NUL
// bytes at the end of src.
func trimTrailing(src []byte) []byte {
	for len(src) > 0 {
		switch src[len(src)-1] {
		case '\n', '\r', ' ', '\t', 0:
			src = src[:len(src)-1]
		default:
			return src
		}
	}
	return src
}

// validate checks that every byte of body is in the alphabet.
func (e *Encoding) validate(body []byte) error {
	var failed byte
	for _, c := range body {
		failed |= e.revLookup(uint(c))
	}
	if failed&0x80 == 0 {
		return nil
	}

	for i, c := range body {
		if e.revLookup(uint(c)) != invalid {
			continue
		}
		if rune(c) == StdPadding {
			return &CorruptInputError{Offset: i, Err: ErrInvalidPadding}
		}
		return &CorruptInputError{Offset: i, Err: ErrInvalidCharacter}
	}
	return nil
}

// checkLength checks that n data characters followed by pad padding
// characters form whole quanta.
func (e *Encoding) checkLength(n, pad int) error {
	if e.padChar == NoPadding {
		// Unpadded data may end in a 2 or 3 character quantum.
		if n%4 == 1 {
			return &CorruptInputError{Offset: n - 1, Err: ErrTruncatedInput}
		}
		return nil
	}

	switch {
	case pad > 2:
		return &CorruptInputError{Offset: n + 2, Err: ErrInvalidPadding}
	case pad > 0 && (n+pad)%4 != 0:
		return &CorruptInputError{Offset: n, Err: ErrInvalidPadding}
	case pad == 0 && n%4 != 0:
		return &CorruptInputError{Offset: n - n%4, Err: ErrTruncatedInput}
	}
	return nil
}

// checkPaddingBits rejects a final partial quantum whose unused low
// bits are non-zero.
func (e *Encoding) checkPaddingBits(body []byte) error {
	i := len(body) - 1
	switch len(body) % 4 {
	case 2:
		if e.revLookup(uint(body[i]))&0x0f != 0 {
			return &CorruptInputError{Offset: i, Err: ErrInvalidPadding}
		}
	case 3:
		if e.revLookup(uint(body[i]))&0x03 != 0 {
			return &CorruptInputError{Offset: i, Err: ErrInvalidPadding}
		}
	}
	return nil
}

// decode decodes the validated, unpadded src into dst.
//
// The n'th output byte is written only after input byte 4n/3 has
// been read, which makes decoding over src itself safe.
func (e *Encoding) decode(dst, src []byte) (n int) {
	rev := e.revLookup

	// Convert 8 -> 6 while at least 8 bytes of dst remain.
	for len(src) >= 8 && len(dst)-n >= 8 {
		c := uint64(rev(uint(src[0])))<<58 |
			uint64(rev(uint(src[1])))<<52 |
			uint64(rev(uint(src[2])))<<46 |
			uint64(rev(uint(src[3])))<<40 |
			uint64(rev(uint(src[4])))<<34 |
			uint64(rev(uint(src[5])))<<28 |
			uint64(rev(uint(src[6])))<<22 |
			uint64(rev(uint(src[7])))<<16
		binary.BigEndian.PutUint64(dst[n:], c)
		src = src[8:]
		n += 6
	}

	for len(src) >= 4 {
		v := uint(rev(uint(src[0])))<<18 |
			uint(rev(uint(src[1])))<<12 |
			uint(rev(uint(src[2])))<<6 |
			uint(rev(uint(src[3])))
		dst[n+0] = byte(v >> 16)
		dst[n+1] = byte(v >> 8)
		dst[n+2] = byte(v)
		src = src[4:]
		n += 3
	}

	switch len(src) {
	case 3:
		v := uint(rev(uint(src[0])))<<18 |
			uint(rev(uint(src[1])))<<12 |
			uint(rev(uint(src[2])))<<6
		dst[n+0] = byte(v >> 16)
		dst[n+1] = byte(v >> 8)
		n += 2
	case 2:
		v := uint(rev(uint(src[0])))<<18 |
			uint(rev(uint(src[1])))<<12
		dst[n+0] = byte(v >> 16)
		n++
	}
	return n
}
