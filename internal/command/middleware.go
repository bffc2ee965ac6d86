package command

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// Middleware wraps a command action.
type Middleware func(cli.ActionFunc) cli.ActionFunc

// applyMiddlewares wraps action so the first middleware runs outermost.
func applyMiddlewares(action cli.ActionFunc, mws ...Middleware) cli.ActionFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		action = mws[i](action)
	}
	return action
}

// withArgs rejects invocations with fewer than n positional arguments.
func withArgs(n int, usage string) Middleware {
	return func(next cli.ActionFunc) cli.ActionFunc {
		return func(c *cli.Context) error {
			if c.NArg() < n {
				return cli.Exit("Usage: fvc "+usage, 1)
			}
			return next(c)
		}
	}
}

// withDebugArgs logs the command line at debug level.
func withDebugArgs(env *Env) Middleware {
	return func(next cli.ActionFunc) cli.ActionFunc {
		return func(c *cli.Context) error {
			if env.Logger != nil {
				env.Logger.Debug("running command", slog.String("command", c.Command.Name), slog.Any("args", c.Args().Slice()))
			}
			return next(c)
		}
	}
}

// action builds a command action with the middlewares every command shares.
func action(env *Env, n int, usage string, fn cli.ActionFunc) cli.ActionFunc {
	return applyMiddlewares(fn, withArgs(n, usage), withDebugArgs(env))
}

var (
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	headerColor = color.New(color.Faint)
)

// fail reports an operation failure. Failures are not process errors, so the
// exit status stays zero.
func fail(c *cli.Context, err error) error {
	errColor.Fprintf(c.App.ErrWriter, "Error: %v\n", err)
	return nil
}

func success(c *cli.Context, format string, args ...any) {
	okColor.Fprintf(c.App.Writer, format+"\n", args...)
}

func printLine(c *cli.Context, args ...any) {
	fmt.Fprintln(c.App.Writer, args...)
}
