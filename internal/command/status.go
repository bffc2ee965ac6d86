package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keshon/fvc/internal/repo"
)

func statusCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "status",
		Usage:       "Show repository status",
		ArgsUsage:   "<repo>",
		Description: "Lists tracked files with their state and the total commit count.\nThe config.txt marker and files matching ignore patterns are not counted as tracked.",
		Action: action(env, 1, "status <repo>", func(c *cli.Context) error {
			st, err := env.open(c).Status()
			if errors.Is(err, repo.ErrNotARepository) {
				printLine(c, "Not a valid VCS repository")
				return nil
			}
			if err != nil {
				return fail(c, err)
			}
			fmt.Fprint(c.App.Writer, st.String())
			return nil
		}),
	}
}
