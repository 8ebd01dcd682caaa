//go:build !unix

package terminal

import "errors"

func query(uintptr) (int, int, error) {
	return 0, 0, errors.New("terminal size not supported on this platform")
}
