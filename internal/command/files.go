package command

import (
	"strings"

	"github.com/urfave/cli/v2"
)

func addCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "add",
		Usage:       "Add a file to the repository",
		ArgsUsage:   "<repo> <filename>",
		Description: "Stores an obfuscated copy of <filename> in the repository under its base name,\nreplacing any previous copy.",
		Action: action(env, 2, "add <repo> <filename>", func(c *cli.Context) error {
			name, err := env.open(c).AddFile(c.Args().Get(1))
			if err != nil {
				return fail(c, err)
			}
			success(c, "File %s added to repository.", name)
			return nil
		}),
	}
}

func commitCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "commit",
		Usage:       "Commit a file with an optional message",
		ArgsUsage:   "<repo> <filename> [message]",
		Description: "Snapshots the repository copy of <filename> into commits/<filename>.<timestamp>.\nTwo commits of one file within the same second keep only the later one.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Commit message (also accepted after <filename>)",
			},
		},
		Action: action(env, 2, "commit <repo> <filename> [message]", func(c *cli.Context) error {
			msg, err := commitMessage(c)
			if err != nil {
				return err
			}

			rec, err := env.open(c).CommitFile(c.Args().Get(1), msg)
			if err != nil {
				return fail(c, err)
			}
			success(c, "File %s committed (timestamp: %s).", rec.Filename, rec.Timestamp)
			return nil
		}),
	}
}

// commitMessage resolves the message from the flag or the trailing arguments.
// Flags are not parsed after positionals, so a trailing -m is handled here.
func commitMessage(c *cli.Context) (string, error) {
	usage := cli.Exit("Usage: fvc commit <repo> <filename> [message]", 1)

	msg := c.String("message")
	if c.NArg() <= 2 {
		return msg, nil
	}
	rest := c.Args().Slice()[2:]
	if msg != "" {
		return "", usage
	}

	switch first := rest[0]; {
	case first == "-m", first == "-message", first == "--message":
		if len(rest) < 2 {
			return "", usage
		}
		return strings.Join(rest[1:], " "), nil
	case strings.HasPrefix(first, "-m="), strings.HasPrefix(first, "-message="), strings.HasPrefix(first, "--message="):
		_, v, _ := strings.Cut(first, "=")
		return strings.Join(append([]string{v}, rest[1:]...), " "), nil
	}
	return strings.Join(rest, " "), nil
}

func revertCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "revert",
		Usage:       "Revert a file to a committed version",
		ArgsUsage:   "<repo> <filename> [timestamp]",
		Description: "Restores the snapshot taken at [timestamp], or the latest snapshot, into the repository.",
		Action: action(env, 2, "revert <repo> <filename> [timestamp]", func(c *cli.Context) error {
			rec, err := env.open(c).RevertFile(c.Args().Get(1), c.Args().Get(2))
			if err != nil {
				return fail(c, err)
			}
			success(c, "File %s reverted to %s.", rec.Filename, rec.Name())
			return nil
		}),
	}
}

func checkoutCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:        "checkout",
		Usage:       "Retrieve and decode a file from the repository",
		ArgsUsage:   "<repo> <filename>",
		Description: "Writes the decoded content of <filename> to <filename>.decrypted in the checkout\ndirectory. The repository copy is not modified.",
		Action: action(env, 2, "checkout <repo> <filename>", func(c *cli.Context) error {
			name := c.Args().Get(1)
			out, err := env.open(c).CheckoutFile(name)
			if err != nil {
				return fail(c, err)
			}
			success(c, "File %s checked out as %s.", name, out)
			return nil
		}),
	}
}
