package main

import "github.com/urfave/cli/v3"

var (
	configPath string
	oovToken   string
	logLevel   string
	logFormat  string
	debug      bool
)

func globalFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "config file (default $TREEGRAM_CONFIG or ~/.config/treegram/config.yaml)",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "oov",
			Usage:       "token given id 0 in every model",
			Value:       "<UNK>",
			Destination: &oovToken,
		},
	}, loggingFlags()...)
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
