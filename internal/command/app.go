// Package command wires repository operations to the fvc command line.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/keshon/fvc/internal/config"
	"github.com/keshon/fvc/internal/fs"
	"github.com/keshon/fvc/internal/repo"
)

// Version is set at build time.
var Version = "dev"

// Env carries what commands share once the app has started. Tests replace
// the filesystem and the clock.
type Env struct {
	FS  fs.FS
	Now func() time.Time

	Settings *config.Settings
	Logger   *slog.Logger
}

// App creates the CLI application on the OS filesystem.
func App() *cli.App {
	return NewApp(&Env{})
}

// NewApp creates the CLI application around env.
func NewApp(env *Env) *cli.App {
	if env == nil {
		env = &Env{}
	}
	if env.FS == nil {
		env.FS = fs.NewOSFS()
	}
	if env.Now == nil {
		env.Now = time.Now
	}

	return &cli.App{
		Name:    "fvc",
		Usage:   "Minimal file versioning with obfuscated snapshots",
		Version: Version,
		Commands: []*cli.Command{
			initCmd(env),
			addCmd(env),
			commitCmd(env),
			revertCmd(env),
			checkoutCmd(env),
			statusCmd(env),
			logCmd(env),
			verifyCmd(env),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"FVC_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "key",
				Usage:   "Obfuscation key (overrides the configuration file)",
				EnvVars: []string{"FVC_KEY"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
		Before: func(c *cli.Context) error {
			return env.setup(c)
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				if err := cli.ShowAppHelp(c); err != nil {
					return err
				}
				return cli.Exit("", 1)
			}
			return cli.Exit(fmt.Sprintf("Unknown command: %s", c.Args().First()), 1)
		},
	}
}

// Run executes the app with os.Args and returns the process exit code.
func Run() int {
	app := App()
	code := 0
	app.ExitErrHandler = func(c *cli.Context, err error) {
		code = exitCode(c, err)
	}
	if err := app.Run(os.Args); err != nil && code == 0 {
		fmt.Fprintln(os.Stderr, "Error:", err)
		code = 1
	}
	return code
}

func exitCode(c *cli.Context, err error) int {
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(c.App.ErrWriter, msg)
	}
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

// setup loads settings, applies global flag overrides and builds the logger.
func (e *Env) setup(c *cli.Context) error {
	s, err := loadSettings(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	if k := c.String("key"); k != "" {
		s.Key = k
	}
	if l := c.String("log-level"); l != "" {
		s.Log.Level = l
	}
	if f := c.String("log-format"); f != "" {
		s.Log.Format = f
	}
	if err := s.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	e.Settings = s
	e.Logger = setupLogger(c.App.ErrWriter, s.Log)
	return nil
}

func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.Load(path)
	}
	def, err := config.DefaultSettingsPath()
	if err != nil {
		return config.DefaultSettings(), nil
	}
	return config.LoadOrDefault(def)
}

func setupLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// open returns a handle on the repository named by the first argument.
func (e *Env) open(c *cli.Context) *repo.Repository {
	return repo.New(c.Args().First(), &repo.Options{
		FS:             e.FS,
		Key:            e.Settings.TransformKey(),
		CheckoutDir:    e.Settings.Checkout.Dir,
		CheckoutSuffix: e.Settings.Checkout.Suffix,
		Ignore:         e.Settings.Ignore,
		Now:            e.Now,
		Logger:         e.Logger,
	})
}
