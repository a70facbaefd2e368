// Package fileio opens model files for one read or write pass. Paths ending
// in ".gz" are (de)compressed on the fly and "-" names stdin or stdout.
package fileio

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const Stdio = "-"

func isGzip(path string) bool { return strings.HasSuffix(path, ".gz") }

// Open returns a reader for path. Closing it releases the file and any
// decompressor.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

// Create truncates or creates path for writing. Close flushes the
// compressor, if any, before closing the file.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return f, nil
	}
	zw := gzip.NewWriter(f)
	return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *readCloser) Close() error { return closeAll(c.closers) }

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (c *writeCloser) Close() error { return closeAll(c.closers) }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
