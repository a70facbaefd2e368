package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/treegram/internal/config"
	"github.com/samcharles93/treegram/internal/logger"
)

// cfg holds the resolved file/env configuration for the running command.
var cfg *config.Config

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath, true)
	}
	return config.Load()
}

// applyConfig copies config values into the global flag variables when
// the corresponding flag was not explicitly set.
func applyConfig(c *cli.Command, cfg *config.Config) {
	if !c.IsSet("oov") {
		oovToken = cfg.OOV
	}
	if !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg *config.Config, addr *string, readTimeout *time.Duration) {
	if !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if !c.IsSet("read-timeout") {
		*readTimeout = cfg.ReadTimeout
	}
}

// setup runs before any command: it resolves configuration and puts the
// logger into the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	c, err := loadConfig()
	if err != nil {
		return ctx, err
	}
	cfg = c
	applyConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Setup(level, logFormat, cmd.Root().ErrWriter)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}
