package writers

import (
	"io"
	"syscall"

	"stcall/internal/errors"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// quiet drops broken-pipe errors.
func quiet(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
