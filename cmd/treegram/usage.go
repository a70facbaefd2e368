package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

var errUsage = errors.New("usage error")

// requireArgs checks the positional argument count and prints the command
// usage to stderr when it is wrong.
func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() == n {
		return nil
	}
	return usageError(cmd, fmt.Errorf("%s expects %d arguments, got %d", cmd.Name, n, cmd.NArg()))
}

// usageError prints the command usage to stderr and marks err as a usage
// error. err stays matchable with errors.Is.
func usageError(cmd *cli.Command, err error) error {
	_, _ = fmt.Fprintf(cmd.Root().ErrWriter, "usage: %s %s %s\n", cmd.Root().Name, cmd.Name, cmd.ArgsUsage)
	return fmt.Errorf("%w: %w", errUsage, err)
}
