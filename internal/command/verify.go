package command

import (
	"github.com/urfave/cli/v2"
)

func verifyCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "verify",
		Usage:       "Check the commit store for stray or malformed entries",
		ArgsUsage:   "<repo>",
		Description: "Reports malformed snapshot names, messages without a snapshot and snapshots of files\nthat are no longer tracked. Nothing is changed.",
		Action: action(env, 1, "verify <repo>", func(c *cli.Context) error {
			rep, err := env.open(c).Verify()
			if err != nil {
				return fail(c, err)
			}
			if rep.OK() {
				success(c, "Repository OK (%d snapshots, %d messages)", rep.Snapshots, rep.Messages)
				return nil
			}
			headerColor.Fprintf(c.App.Writer, "Found %d problems:\n", len(rep.Problems))
			for _, p := range rep.Problems {
				errColor.Fprintf(c.App.Writer, "  %s\n", p)
			}
			return nil
		}),
	}
}
