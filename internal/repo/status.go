package repo

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/keshon/fvc/internal/config"
)

// FileState compares a working-area copy with its latest snapshot.
type FileState int

const (
	StateNew       FileState = iota // never committed
	StateCommitted                  // same bytes as the latest snapshot
	StateModified                   // differs from the latest snapshot
)

func (s FileState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateCommitted:
		return "committed"
	case StateModified:
		return "modified"
	default:
		return "unknown"
	}
}

// FileStatus describes one tracked file.
type FileStatus struct {
	Name    string
	Commits int
	State   FileState
	Hash    string // xxh3-128 of the stored bytes
}

// Status summarizes a repository.
type Status struct {
	Root         string
	Marker       config.Marker
	Files        []FileStatus
	TotalCommits int
}

// Status reads the working area and the commit store without changing either.
func (r *Repository) Status() (*Status, error) {
	marker, err := r.Marker()
	if err != nil {
		return nil, err
	}
	names, err := r.TrackedFiles()
	if err != nil {
		return nil, err
	}
	ix, err := r.index("")
	if err != nil {
		return nil, err
	}

	st := &Status{
		Root:         r.Config.Root,
		Marker:       marker,
		Files:        make([]FileStatus, 0, len(names)),
		TotalCommits: ix.Len(),
	}
	counts := ix.Counts()

	for _, name := range names {
		data, err := r.store.Read(r.Config.TrackedPath(name))
		if err != nil {
			return nil, err
		}
		fsum := fingerprint(data)
		f := FileStatus{Name: name, Commits: counts[name], Hash: fsum}

		if latest, ok := ix.Latest(name); ok {
			snap, err := r.store.Read(latest.Path)
			if err != nil {
				return nil, err
			}
			f.State = StateModified
			if fingerprint(snap) == fsum {
				f.State = StateCommitted
			}
		}
		st.Files = append(st.Files, f)
	}
	return st, nil
}

func fingerprint(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// String renders the status report.
func (s *Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", s.Root)
	fmt.Fprintf(&b, "Tracked files (%d):\n", len(s.Files))
	for _, f := range s.Files {
		fmt.Fprintf(&b, "  %s [%s]\n", f.Name, f.State)
	}
	fmt.Fprintf(&b, "Total commits: %d\n", s.TotalCommits)
	return b.String()
}
