package main

import (
	"context"
	"fmt"

	"github.com/quotewatch/logging"
	"github.com/urfave/cli/v3"
)

func pruneCommand() *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "Apply log file retention once",
		ArgsUsage: "[log dir]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "keep",
				Usage: "Number of files to keep (default: configured log_file_max_files)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			fc, err := resolveConfig(c)
			if err != nil {
				return err
			}
			dir := fc.logDir()
			if c.Args().Present() {
				dir = c.Args().First()
			}
			keep := fc.Logging.LogFileMaxFiles
			if c.IsSet("keep") {
				keep = int(c.Int("keep"))
			}
			if err := logging.PruneDir(dir, keep); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.Root().Writer, "pruned %s, keeping %d files\n", dir, keep)
			return err
		},
	}
}
