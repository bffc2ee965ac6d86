// Package repo implements the repository model: the lifecycle of tracked
// files in the working area and their snapshots in the commit store.
package repo

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/keshon/fvc/internal/config"
	"github.com/keshon/fvc/internal/fs"
	"github.com/keshon/fvc/internal/repo/history"
	"github.com/keshon/fvc/internal/repo/store"
	"github.com/keshon/fvc/internal/transform"
)

var (
	ErrNotARepository   = errors.New("not a valid VCS repository")
	ErrSourceNotFound   = errors.New("file not found")
	ErrNoMatchingCommit = errors.New("no matching commit")
	ErrInvalidName      = errors.New("invalid file name")
	ErrIO               = store.ErrIO
)

// Options configures a Repository. The zero value of every field selects its
// default.
type Options struct {
	FS             fs.FS
	Key            transform.Key
	WorkDir        string // resolves relative sources
	CheckoutDir    string // receives checkouts, defaults to WorkDir
	CheckoutSuffix string
	Ignore         []string // doublestar patterns hidden from TrackedFiles
	Now            func() time.Time
	Logger         *slog.Logger
}

// Repository is a working area rooted at a directory plus its commit store.
type Repository struct {
	Config *config.RepoConfig

	store  *store.Store
	key    transform.Key
	work   string
	outDir string
	suffix string
	ignore []string
	now    func() time.Time
	log    *slog.Logger
}

// New returns a handle on the repository rooted at root. Nothing is touched
// on disk until an operation runs.
func New(root string, opts *Options) *Repository {
	if opts == nil {
		opts = &Options{}
	}

	r := &Repository{
		Config: config.NewRepoConfig(root),
		store:  store.New(opts.FS),
		key:    opts.Key,
		work:   opts.WorkDir,
		outDir: opts.CheckoutDir,
		suffix: opts.CheckoutSuffix,
		ignore: opts.Ignore,
		now:    opts.Now,
		log:    opts.Logger,
	}
	if r.key == "" {
		r.key = transform.DefaultKey
	}
	if r.work == "" {
		r.work = "."
	}
	if r.outDir == "" {
		r.outDir = r.work
	}
	if r.suffix == "" {
		r.suffix = config.DefaultCheckoutSuffix
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.log = r.log.With("repo", root)
	return r
}

// Root returns the repository root path.
func (r *Repository) Root() string { return r.Config.Root }

// Initialize creates the working area, the commit store and the marker file.
// On an already valid repository it does nothing and reports created=false.
func (r *Repository) Initialize() (bool, error) {
	if r.IsValid() {
		r.log.Debug("repository already initialized")
		return false, nil
	}

	for _, d := range []string{r.Config.WorkingDir(), r.Config.CommitsDir()} {
		if err := r.store.MkdirAll(d); err != nil {
			return false, fmt.Errorf("failed to create dir %q: %w", d, err)
		}
	}

	marker := config.Marker{
		Version: config.FormatVersion,
		Created: history.Format(r.now()),
	}
	if err := r.store.Write(marker.Bytes(), r.Config.MarkerPath()); err != nil {
		return false, fmt.Errorf("failed to write marker: %w", err)
	}

	r.log.Debug("repository initialized", "created", marker.Created)
	return true, nil
}

// IsValid reports whether the working area and commit store are directories
// and the marker file exists.
func (r *Repository) IsValid() bool {
	return r.store.IsDir(r.Config.WorkingDir()) &&
		r.store.IsDir(r.Config.CommitsDir()) &&
		r.store.IsFile(r.Config.MarkerPath())
}

// Marker reads the repository marker.
func (r *Repository) Marker() (config.Marker, error) {
	if !r.IsValid() {
		return config.Marker{}, ErrNotARepository
	}
	data, err := r.store.Read(r.Config.MarkerPath())
	if err != nil {
		return config.Marker{}, err
	}
	return config.ParseMarker(data)
}

func (r *Repository) ensureValid() error {
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrNotARepository, r.Config.Root)
	}
	return nil
}

// checkName rejects names that would leave the working area or collide with
// the repository layout.
func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
	case strings.ContainsAny(name, `/\`):
	case name == config.MarkerFile, name == config.CommitsDir:
	case strings.HasPrefix(name, store.TempPrefix):
	default:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidName, name)
}

func (r *Repository) resolveSource(source string) string {
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(r.work, source)
}
