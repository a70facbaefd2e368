package main

import (
	"context"
	"fmt"
	"math"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/mixture"
	"github.com/samcharles93/treegram/pkg/arpa"
)

// interpolateCmd blends the first listed model with the second at the
// first weight. Further models only extend the shared vocabulary.
func interpolateCmd() *cli.Command {
	return &cli.Command{
		Name:      "interpolate",
		Usage:     "Approximately interpolate two ARPA models into one",
		ArgsUsage: "<path,weight;path,weight> <output.arpa>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			log := logger.FromContext(ctx)

			comps, err := mixture.ParseComponents(cmd.Args().Get(0))
			if err != nil {
				return usageError(cmd, err)
			}
			if len(comps) < 2 {
				return usageError(cmd, fmt.Errorf("%w: need two models, got %d", mixture.ErrComponents, len(comps)))
			}
			if len(comps) > 2 {
				log.Warn("only the first two models are interpolated", "models", len(comps))
			}
			if sum := comps[0].Weight + comps[1].Weight; math.Abs(sum-1) > 1e-6 {
				log.Warn("weights do not sum to 1, using the first weight only",
					"weight", comps[0].Weight, "sum", sum)
			}

			loader := mixture.Loader{OOV: oovToken, Log: log, Progress: cmd.Root().Writer}
			if err := loader.Load(ctx, comps); err != nil {
				return err
			}
			model, err := mixture.Interpolate(comps)
			if err != nil {
				return err
			}

			out := cmd.Args().Get(1)
			if err := arpa.WriteFile(out, model, log); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info("wrote interpolated model", "path", out, "counts", model.Counts())
			return nil
		},
	}
}
