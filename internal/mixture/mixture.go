// Package mixture loads several ARPA models against one shared vocabulary
// and blends the first two into an interpolated model.
package mixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
	"github.com/samcharles93/treegram/pkg/arpa"
)

var ErrComponents = errors.New("mixture: invalid component list")

// Component is one model of the mixture. Model is nil until loaded.
type Component struct {
	Path   string
	Weight float64
	Model  *treegram.TreeGram
}

// ParseComponents parses "path,weight;path,weight". Empty segments are
// ignored; each remaining segment must be exactly one path and one weight
// in [0,1].
func ParseComponents(list string) ([]Component, error) {
	var comps []Component
	for seg := range strings.SplitSeq(list, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts := strings.Split(seg, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q is not path,weight", ErrComponents, seg)
		}
		path := strings.TrimSpace(parts[0])
		if path == "" {
			return nil, fmt.Errorf("%w: empty path in %q", ErrComponents, seg)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || math.IsNaN(w) || w < 0 || w > 1 {
			return nil, fmt.Errorf("%w: bad weight in %q", ErrComponents, seg)
		}
		comps = append(comps, Component{Path: path, Weight: w})
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrComponents)
	}
	return comps, nil
}

// Loader reads component models so that they all agree on word ids.
type Loader struct {
	// OOV is the token given id 0 in every model. Empty means vocab.DefaultOOV.
	OOV string
	Log logger.Logger
	// Progress receives one "Model <path> <weight>" line per component.
	Progress io.Writer
}

// Load reads every component into comps[i].Model.
//
// Models are read in order. Before each read the shared vocabulary is
// copied into the model's fresh vocabulary, and afterwards the model's
// vocabulary is copied back. A final pass copies the complete shared
// vocabulary into every model, so words first seen in a later model are
// known to the earlier ones with the same ids.
func (l Loader) Load(ctx context.Context, comps []Component) error {
	log := l.Log
	if log == nil {
		log = logger.Discard()
	}
	shared, err := l.newVocab()
	if err != nil {
		return err
	}

	for i := range comps {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := &comps[i]
		if l.Progress != nil {
			_, _ = fmt.Fprintf(l.Progress, "Model %s %g\n", c.Path, c.Weight)
		}

		v, err := l.newVocab()
		if err != nil {
			return err
		}
		shared.CopyTo(v)
		model, err := arpa.ReadFile(c.Path, v, log.With("model", c.Path))
		if err != nil {
			return fmt.Errorf("load %s: %w", c.Path, err)
		}
		v.CopyTo(shared)
		c.Model = model
		log.Debug("model loaded", "path", c.Path, "order", model.Order(), "counts", model.Counts(), "vocab", v.Len())
	}

	for i := range comps {
		shared.CopyTo(comps[i].Model.Vocab())
	}
	log.Info("vocabularies synchronized", "models", len(comps), "words", shared.Len())
	return nil
}

func (l Loader) newVocab() (*vocab.Vocabulary, error) {
	v := vocab.New()
	if l.OOV != "" {
		if err := v.SetOOV(l.OOV); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Interpolate blends the first component's model with the second's at the
// first component's weight and returns the result. The first model is
// rewritten in place and handed over: comps[0].Model is cleared. Further
// components only took part in vocabulary synchronization.
func Interpolate(comps []Component) (*treegram.TreeGram, error) {
	if len(comps) < 2 {
		return nil, fmt.Errorf("%w: need 2 models, have %d", ErrComponents, len(comps))
	}
	a, b := comps[0].Model, comps[1].Model
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: models not loaded", ErrComponents)
	}
	if err := treegram.ApproximateInterpolate(a, b, comps[0].Weight); err != nil {
		return nil, err
	}
	comps[0].Model = nil
	return a, nil
}
