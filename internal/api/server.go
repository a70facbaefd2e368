// Package api serves read-only queries over one finalized model.
package api

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/treegram/internal/treegram"
)

// Server answers queries against a finalized TreeGram. The tree is never
// mutated after construction, so handlers read it without locking.
type Server struct {
	model *treegram.TreeGram
	name  string
}

// NewServer returns a Server for model; name is reported by /v1/model.
func NewServer(model *treegram.TreeGram, name string) (*Server, error) {
	if model == nil {
		return nil, errors.New("api: nil model")
	}
	if !model.Finalized() {
		return nil, treegram.ErrNotFinalized
	}
	return &Server{model: model, name: name}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/model", s.handleModel)
	e.POST("/v1/logprob", s.handleLogProb)
	e.POST("/v1/sentence", s.handleSentence)
}

func (s *Server) handleModel(c *echo.Context) error {
	v := s.model.Vocab()
	return c.JSON(http.StatusOK, ModelResponse{
		ID:        newID("model"),
		Object:    "model",
		Name:      s.name,
		Type:      s.model.Type().String(),
		Order:     s.model.Order(),
		Counts:    s.model.Counts(),
		VocabSize: v.Len(),
		OOV:       v.OOV(),
	})
}

func (s *Server) handleLogProb(c *echo.Context) error {
	req, err := decodeJSON[LogProbRequest](c.Request().Body)
	if err != nil {
		return writeRequestError(c, err)
	}
	words, err := logProbWords(req)
	if err != nil {
		return writeRequestError(c, err)
	}
	return c.JSON(http.StatusOK, LogProbResponse{
		ID:      newID("lp"),
		Object:  "logprob",
		Words:   words,
		LogProb: s.model.LogProb(words),
		Unknown: s.unknown(words),
	})
}

func (s *Server) handleSentence(c *echo.Context) error {
	req, err := decodeJSON[SentenceRequest](c.Request().Body)
	if err != nil {
		return writeRequestError(c, err)
	}
	words := strings.Fields(req.Text)
	lp := s.model.SentenceLogProb(words)
	return c.JSON(http.StatusOK, SentenceResponse{
		ID:         newID("sent"),
		Object:     "sentence",
		Words:      words,
		LogProb:    lp,
		Perplexity: math.Pow(10, -lp/float64(len(words)+1)),
		Unknown:    s.unknown(words),
	})
}

func logProbWords(req LogProbRequest) ([]string, error) {
	if len(req.Words) > 0 && req.Text != "" {
		return nil, newFieldError("text", "words and text are mutually exclusive")
	}
	words := req.Words
	if req.Text != "" {
		words = strings.Fields(req.Text)
	}
	if len(words) == 0 {
		return nil, newFieldError("words", "at least one word is required")
	}
	for _, w := range words {
		if w == "" || strings.ContainsAny(w, " \t\n") {
			return nil, newFieldError("words", "words must be non-empty and contain no whitespace")
		}
	}
	return words, nil
}

func (s *Server) unknown(words []string) []string {
	var out []string
	v := s.model.Vocab()
	for _, w := range words {
		if _, ok := v.ID(w); !ok {
			out = append(out, w)
		}
	}
	return out
}
