// Package arpa reads and writes n-gram language models in the ARPA text
// format:
//
//	\data\
//	ngram 1=<c1>
//	...
//	ngram N=<cN>
//
//	\1-grams:
//	<logprob> <w1> [<backoff>]
//	...
//	\end\
//
// An optional `\interpolated` line before `\data\` marks a model blended
// from two others. Its lines still hold back-off form values, so such a
// file resolves the same whether or not the marker is honored.
package arpa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
)

const (
	markerData         = `\data\`
	markerEnd          = `\end\`
	markerInterpolated = `\interpolated`

	maxLineSize = 16 * 1024 * 1024
)

// Reader parses one ARPA stream. It carries the line counter used in
// diagnostics, so a Reader must not be shared between streams.
type Reader struct {
	sc  *bufio.Scanner
	log logger.Logger

	line int    // number of the last line read
	text string // last line read, trimmed
	eof  bool

	counts       []int
	interpolated bool
}

// NewReader returns a Reader over r. Warnings go to log; a nil log discards them.
func NewReader(r io.Reader, log logger.Logger) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	if log == nil {
		log = logger.Discard()
	}
	return &Reader{sc: sc, log: log}
}

// Counts returns the per-order counts declared by the header.
func (r *Reader) Counts() []int { return append([]int(nil), r.counts...) }

// Read parses the whole stream into a finalized tree whose words are
// resolved through v. Words unseen in v are added to it at any order.
func (r *Reader) Read(v *vocab.Vocabulary) (*treegram.TreeGram, error) {
	if err := r.readHeader(); err != nil {
		return nil, err
	}

	tree := treegram.New(len(r.counts), v)
	if r.interpolated {
		tree.SetType(treegram.Interpolated)
	}
	total := 0
	for _, c := range r.counts {
		total += c
	}
	r.log.Debug("reading arpa model", "order", len(r.counts), "grams", total, "interpolated", r.interpolated)

	for order := 1; order <= len(r.counts); order++ {
		if err := r.readOrder(tree, order); err != nil {
			return nil, err
		}
	}

	if !r.eof && r.text != markerEnd {
		return nil, r.errorf("expected %s", markerEnd)
	}
	tree.Finalize()
	return tree, nil
}

func (r *Reader) readHeader() error {
	for {
		if err := r.advance(); err != nil {
			return err
		}
		if r.eof {
			return r.errorf("missing %s marker", markerData)
		}
		switch r.text {
		case markerInterpolated:
			r.interpolated = true
		case markerData:
			return r.readCounts()
		}
	}
}

func (r *Reader) readCounts() error {
	for {
		if err := r.advance(); err != nil {
			return err
		}
		if r.eof {
			return r.errorf("unexpected end of file in header")
		}
		if r.text == "" {
			if len(r.counts) == 0 {
				continue
			}
			return nil
		}
		if !strings.HasPrefix(r.text, "ngram ") {
			if len(r.counts) == 0 {
				return r.errorf("expected ngram count")
			}
			return nil
		}

		decl := strings.TrimSpace(strings.TrimPrefix(r.text, "ngram "))
		k, c, ok := strings.Cut(decl, "=")
		if !ok {
			return r.errorf("malformed ngram count")
		}
		order, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || order != len(r.counts)+1 {
			return r.errorf("expected count for order %d", len(r.counts)+1)
		}
		count, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil || count < 0 {
			return r.errorf("invalid ngram count")
		}
		r.counts = append(r.counts, count)
	}
}

func (r *Reader) readOrder(tree *treegram.TreeGram, order int) error {
	if err := r.skipBlank(); err != nil {
		return err
	}
	if r.eof {
		return r.errorf("unexpected end of file, expected \\%d-grams:", order)
	}
	if sectionOrder(r.text) != order {
		return r.errorf("expected \\%d-grams:", order)
	}

	maxOrder := len(r.counts)
	want := r.counts[order-1]
	tree.ReserveOrder(order, want)
	sorter := treegram.NewGramSorter(order, want)
	gram := make(treegram.Gram, order)
	for read := 0; read < want; {
		if err := r.advance(); err != nil {
			return err
		}
		if r.eof {
			return r.errorf("unexpected end of file, %d of %d %d-grams read", read, want, order)
		}
		if r.text == "" {
			continue
		}

		fields := strings.Fields(r.text)
		switch len(fields) {
		case order + 1:
			if order < maxOrder {
				r.log.Warn("missing back-off weight", "line", r.line, "columns", len(fields), "order", order)
			}
		case order + 2:
			if order == maxOrder {
				r.log.Warn("back-off weight on highest order", "line", r.line, "columns", len(fields), "order", order)
			}
		default:
			return r.errorf("%d columns", len(fields))
		}

		logProb, err := strconv.ParseFloat(fields[0], 32)
		if err != nil {
			return r.errorf("invalid log-probability %q", fields[0])
		}
		var backOff float64
		if len(fields) == order+2 {
			backOff, err = strconv.ParseFloat(fields[order+1], 32)
			if err != nil {
				return r.errorf("invalid back-off weight %q", fields[order+1])
			}
		}
		for i := 0; i < order; i++ {
			gram[i] = tree.AddWord(fields[i+1])
		}
		sorter.Add(gram, float32(logProb), float32(backOff))
		read++
	}

	sorter.Sort()
	if sorter.Len() != want {
		return fmt.Errorf("%w: sorter holds %d %d-grams, header declares %d", ErrInternal, sorter.Len(), order, want)
	}
	for i := 0; i < sorter.Len(); i++ {
		d := sorter.Data(i)
		if err := tree.AddGram(sorter.Gram(i), d.LogProb, d.BackOff); err != nil {
			return fmt.Errorf("arpa: %d-grams ending line %d: %w", order, r.line, err)
		}
	}

	// Step past the last line of the section and leave the next non-blank
	// line (or EOF) for the caller.
	if err := r.advance(); err != nil {
		return err
	}
	return r.skipBlank()
}

// advance reads the next line. At end of input it sets eof and clears text.
func (r *Reader) advance() error {
	if r.eof {
		return nil
	}
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return fmt.Errorf("arpa: read line %d: %w", r.line+1, err)
		}
		r.eof = true
		r.text = ""
		return nil
	}
	r.line++
	r.text = strings.TrimSpace(r.sc.Text())
	return nil
}

func (r *Reader) skipBlank() error {
	for !r.eof && r.text == "" {
		if err := r.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) errorf(format string, args ...any) error {
	return &ParseError{Line: r.line, Reason: fmt.Sprintf(format, args...), Text: r.text}
}

// sectionOrder returns k for a `\k-grams:` line and 0 otherwise.
func sectionOrder(line string) int {
	if !strings.HasPrefix(line, `\`) || !strings.HasSuffix(line, "-grams:") {
		return 0
	}
	k, err := strconv.Atoi(line[1 : len(line)-len("-grams:")])
	if err != nil || k < 1 {
		return 0
	}
	return k
}
