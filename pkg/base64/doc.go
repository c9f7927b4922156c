// Package base64 implements strict Base64 decoding and encoding as
// specified by RFC 4648, with support for decoding in place.
//
// Decoding in place
//
// The decoded form of Base64 data is never longer than its encoded
// form, so DecodeInPlace writes the decoded bytes over the
// beginning of the same buffer that holds the encoded text and
// returns the length of the valid prefix:
//
//    buf := []byte("aGVsbG8=")
//    n, err := base64.DecodeInPlace(buf) // 5, nil
//    fmt.Printf("%s", buf[:n])          // hello
//
// Decoding policy
//
// Decoding is strict. A run of '\n', '\r', ' ', '\t' and NUL bytes at
// the very end of the input is ignored; such bytes anywhere else are
// invalid. Malformed input is reported as a *CorruptInputError
// wrapping one of ErrInvalidCharacter, ErrInvalidPadding or
// ErrTruncatedInput, and the decoded length is zero. The input is
// validated before anything is written, so a failed in-place decode
// leaves the buffer untouched.
//
// Unlike encoding/base64, this package never returns partially
// decoded data together with an error.
package base64
