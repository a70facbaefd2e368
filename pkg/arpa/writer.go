package arpa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
)

// Writer emits trees in ARPA format.
type Writer struct {
	w   *bufio.Writer
	log logger.Logger
	buf []byte
}

// NewWriter returns a Writer over w. Warnings go to log; a nil log discards them.
func NewWriter(w io.Writer, log logger.Logger) *Writer {
	if log == nil {
		log = logger.Discard()
	}
	return &Writer{w: bufio.NewWriterSize(w, 256*1024), log: log}
}

// Write emits t.
//
// Back-off trees are written from stored node values. Interpolated trees
// get an `\interpolated` header line and each probability is recomputed
// with ResolveLogProb; values above 0 are written as 0. Either way the
// lines hold back-off form values, so reading the output back resolves
// every gram to what was written.
func (w *Writer) Write(t *treegram.TreeGram) error {
	interpolated := t.Type() == treegram.Interpolated
	if interpolated {
		w.printf("%s\n", markerInterpolated)
	}
	w.printf("%s\n", markerData)
	for k := 1; k <= t.Order(); k++ {
		w.printf("ngram %d=%d\n", k, t.GramCount(k))
	}

	it := treegram.NewIterator(t)
	for k := 1; k <= t.Order(); k++ {
		w.printf("\n\\%d-grams:\n", k)
		for it.Next(k) {
			gram := it.Gram()
			logProb := float64(it.Current().LogProb)
			if interpolated {
				logProb = t.ResolveLogProb(gram)
				if logProb > 0 {
					w.log.Warn("n-gram had logprob > 0, corrected",
						"ngram", spell(t, gram), "logprob", logProb)
					logProb = 0
				}
			}

			b := strconv.AppendFloat(w.buf[:0], logProb, 'g', -1, 32)
			for _, id := range gram {
				b = append(b, ' ')
				b = append(b, t.Word(id)...)
			}
			if it.HasChildren() {
				b = append(b, ' ')
				b = strconv.AppendFloat(b, float64(it.Current().BackOff), 'g', -1, 32)
			}
			b = append(b, '\n')
			w.buf = b
			if _, err := w.w.Write(b); err != nil {
				return fmt.Errorf("arpa: write: %w", err)
			}
		}
	}
	w.printf("\n%s\n", markerEnd)

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("arpa: write: %w", err)
	}
	return nil
}

// printf writes through the buffer; errors stick in bufio and surface at Flush.
func (w *Writer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.w, format, args...)
}

func spell(t *treegram.TreeGram, gram treegram.Gram) string {
	words := make([]string, len(gram))
	for i, id := range gram {
		words[i] = t.Word(id)
	}
	return strings.Join(words, " ")
}
