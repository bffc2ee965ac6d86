package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keshon/fvc/internal/repo/history"
)

func logCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "log",
		Usage:       "Show commit history",
		ArgsUsage:   "<repo> [filename]",
		Description: "Lists snapshots per file, oldest first. Commit messages are shown below their snapshot.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-count",
				Aliases: []string{"n"},
				Usage:   "Show only the last <n> commits",
			},
			&cli.BoolFlag{
				Name:  "oneline",
				Usage: "Show each commit as <filename>.<timestamp>",
			},
		},
		Action: action(env, 1, "log <repo> [filename]", func(c *cli.Context) error {
			r := env.open(c)
			recs, err := r.CommitHistory(c.Args().Get(1))
			if err != nil {
				return fail(c, err)
			}
			if len(recs) == 0 {
				printLine(c, "No commits found.")
				return nil
			}
			recs = lastN(recs, c.Int("max-count"))

			if c.Bool("oneline") {
				for _, rec := range recs {
					printLine(c, rec.Name())
				}
				return nil
			}

			headerColor.Fprintln(c.App.Writer, "Commit History:")
			for _, rec := range recs {
				fmt.Fprintf(c.App.Writer, "File: %s | Timestamp: %s\n", rec.Filename, rec.Timestamp)
				if !rec.HasMessage {
					continue
				}
				msg, err := r.Message(rec.Filename, rec.Timestamp)
				if err != nil {
					return fail(c, err)
				}
				fmt.Fprintf(c.App.Writer, "    %s\n", msg)
			}
			return nil
		}),
	}
}

func lastN(recs []history.Record, n int) []history.Record {
	if n <= 0 || n >= len(recs) {
		return recs
	}
	return recs[len(recs)-n:]
}
