//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package sys

import "errors"

func Detach() error {
	return errors.New("detaching is not supported on this platform")
}
