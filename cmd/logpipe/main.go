package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "logpipe",
		Usage: "Feed, follow and prune the logs of the logging subsystem",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file (.yaml, .yml, .toml or .json)",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "Override the configured logging level",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Working directory the log paths are relative to",
			},
		},
		Commands: []*cli.Command{
			emitCommand(),
			tailCommand(),
			pruneCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log.Fatal().Err(err).Msg("logpipe failed")
	}
}
