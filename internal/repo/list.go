package repo

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/keshon/fvc/internal/config"
	"github.com/keshon/fvc/internal/repo/history"
)

// TrackedFiles returns the files in the working area, sorted by name. The
// marker file and names matching an ignore pattern are left out.
func (r *Repository) TrackedFiles() ([]string, error) {
	if err := r.ensureValid(); err != nil {
		return nil, err
	}

	names, err := r.store.List(r.Config.WorkingDir(), "")
	if err != nil {
		return nil, err
	}

	out := names[:0]
	for _, n := range names {
		if n == config.MarkerFile || r.ignored(n) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *Repository) ignored(name string) bool {
	for _, p := range r.ignore {
		// patterns are validated when settings load
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// CommitHistory returns the snapshots of name, or of every file when name is
// empty, in listing order: per file oldest first, files by name.
func (r *Repository) CommitHistory(name string) ([]history.Record, error) {
	if err := r.ensureValid(); err != nil {
		return nil, err
	}
	if name != "" {
		if err := checkName(name); err != nil {
			return nil, err
		}
	}

	ix, err := r.index(name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return ix.Records(), nil
	}
	return ix.For(name), nil
}

// Message returns the message attached to a snapshot, or "" when it has none.
func (r *Repository) Message(name, timestamp string) (string, error) {
	if err := r.ensureValid(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}

	path := r.Config.CommitPath(history.MessageName(history.SnapshotName(name, timestamp)))
	if !r.store.IsFile(path) {
		return "", nil
	}
	data, err := r.store.Read(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// index scans the commit store, restricted to entries of name when given.
func (r *Repository) index(name string) (*history.Index, error) {
	prefix := ""
	if name != "" {
		prefix = name + "."
	}
	entries, err := r.store.List(r.Config.CommitsDir(), prefix)
	if err != nil {
		return nil, err
	}
	return history.Build(r.Config.CommitsDir(), entries), nil
}
