// Package inputs opens hit tables and catalogs from a path, stdin ("-"),
// or gzip-compressed files.
package inputs

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"stcall/internal/errors"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path. Gzip is detected by magic number (1F 8B)
// or by a .gz suffix. "-" reads stdin, which is sniffed the same way and
// never closed.
func Open(path string) (io.ReadCloser, error) {
	return open(path, os.Stdin)
}

func open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == Stdin {
		br := bufio.NewReader(stdin)
		sig, _ := br.Peek(2)
		if !isGzip(sig) {
			return io.NopCloser(br), nil
		}
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "gzip <stdin>")
		}
		return gr, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, errors.Wrapf(err, "rewind %s", path)
	}
	if isGzip(sig[:n]) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, errors.Wrapf(err, "gzip %s", path)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

func isGzip(sig []byte) bool {
	return len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b
}

// Name is how a path appears in error messages.
func Name(path string) string {
	if path == Stdin {
		return "<stdin>"
	}
	return path
}
