package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
	"github.com/samcharles93/treegram/pkg/arpa"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Read an ARPA model and write it back in canonical order",
		ArgsUsage: "<input.arpa> <output.arpa>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			log := logger.FromContext(ctx)
			in, out := cmd.Args().Get(0), cmd.Args().Get(1)

			model, err := readModel(in, log)
			if err != nil {
				return err
			}
			if err := arpa.WriteFile(out, model, log); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info("converted model", "input", in, "output", out, "type", model.Type(), "counts", model.Counts())
			return nil
		},
	}
}

// readModel loads path with the configured OOV token at id 0.
func readModel(path string, log logger.Logger) (*treegram.TreeGram, error) {
	v := vocab.New()
	if err := v.SetOOV(oovToken); err != nil {
		return nil, err
	}
	model, err := arpa.ReadFile(path, v, log.With("model", path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}
