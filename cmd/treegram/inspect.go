package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
)

type orderSummary struct {
	Order       int `json:"order"`
	Grams       int `json:"grams"`
	WithBackOff int `json:"with_backoff"`
}

type modelSummary struct {
	Path      string         `json:"path"`
	Type      string         `json:"type"`
	Order     int            `json:"order"`
	VocabSize int            `json:"vocabulary_size"`
	OOV       string         `json:"oov"`
	Orders    []orderSummary `json:"orders"`
	Sentence  *sentenceScore `json:"sentence,omitempty"`
}

type sentenceScore struct {
	Text    string  `json:"text"`
	LogProb float64 `json:"log_prob"`
}

func inspectCmd() *cli.Command {
	var (
		asJSON bool
		score  string
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize an ARPA model",
		ArgsUsage: "<model.arpa>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON", Destination: &asJSON},
			&cli.StringFlag{Name: "score", Usage: "also print the log10 probability of this sentence", Destination: &score},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			path := cmd.Args().Get(0)
			model, err := readModel(path, logger.FromContext(ctx))
			if err != nil {
				return err
			}

			s := summarize(path, model)
			if cmd.IsSet("score") {
				s.Sentence = &sentenceScore{Text: score, LogProb: model.SentenceLogProb(strings.Fields(score))}
			}

			w := cmd.Root().Writer
			if asJSON {
				b, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "%s\n", b)
				return err
			}
			printSummary(w, s)
			return nil
		},
	}
}

func summarize(path string, model *treegram.TreeGram) modelSummary {
	s := modelSummary{
		Path:      path,
		Type:      model.Type().String(),
		Order:     model.Order(),
		VocabSize: model.Vocab().Len(),
		OOV:       model.Vocab().OOV(),
	}
	it := treegram.NewIterator(model)
	for k := 1; k <= model.Order(); k++ {
		o := orderSummary{Order: k, Grams: model.GramCount(k)}
		for it.Next(k) {
			if it.HasChildren() {
				o.WithBackOff++
			}
		}
		s.Orders = append(s.Orders, o)
	}
	return s
}

func printSummary(w io.Writer, s modelSummary) {
	_, _ = fmt.Fprintf(w, "Model: %s\n", s.Path)
	section(w, "Summary")
	row(w, "type", s.Type)
	row(w, "order", fmt.Sprintf("%d", s.Order))
	row(w, "vocabulary", fmt.Sprintf("%d words", s.VocabSize))
	row(w, "oov", fmt.Sprintf("%q", s.OOV))

	section(w, "N-grams")
	for _, o := range s.Orders {
		row(w, fmt.Sprintf("%d-grams", o.Order), fmt.Sprintf("%d (back-off weights: %d)", o.Grams, o.WithBackOff))
	}

	if s.Sentence != nil {
		section(w, "Sentence")
		row(w, "text", s.Sentence.Text)
		row(w, "log10 prob", fmt.Sprintf("%g", s.Sentence.LogProb))
	}
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	_, _ = fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%-24s %s\n", label+":", value)
}
