package command

import (
	"github.com/urfave/cli/v2"
)

func initCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "init",
		Usage:       "Initialize a new repository",
		ArgsUsage:   "<repo>",
		Description: "Creates the repository directory, its commits directory and the config.txt marker.\nRunning init on an existing repository changes nothing.",
		Action: action(env, 1, "init <repo>", func(c *cli.Context) error {
			r := env.open(c)
			created, err := r.Initialize()
			if err != nil {
				return fail(c, err)
			}
			if created {
				success(c, "Initialized empty VCS repository in %s", r.Root())
			} else {
				success(c, "Reinitialized existing VCS repository in %s", r.Root())
			}
			return nil
		}),
	}
}
