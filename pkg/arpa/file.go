package arpa

import (
	"errors"

	"github.com/samcharles93/treegram/internal/fileio"
	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
)

// ReadFile reads the model at path ("-" for stdin, ".gz" decompressed).
// The file is closed before ReadFile returns.
func ReadFile(path string, v *vocab.Vocabulary, log logger.Logger) (*treegram.TreeGram, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return NewReader(f, log).Read(v)
}

// WriteFile writes t to path ("-" for stdout, ".gz" compressed).
func WriteFile(path string, t *treegram.TreeGram, log logger.Logger) (err error) {
	f, err := fileio.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return NewWriter(f, log).Write(t)
}
