package repo

import (
	"fmt"
	"strings"

	"github.com/keshon/fvc/internal/config"
	"github.com/keshon/fvc/internal/repo/history"
)

// ProblemKind classifies a commit-store entry that Verify flagged.
type ProblemKind int

const (
	Malformed     ProblemKind = iota // name does not parse as <file>.<timestamp>
	OrphanMessage                    // message without its snapshot
	Untracked                        // snapshot of a file no longer in the working area
)

func (k ProblemKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case OrphanMessage:
		return "orphan message"
	case Untracked:
		return "untracked"
	default:
		return "unknown"
	}
}

type Problem struct {
	Entry string
	Kind  ProblemKind
}

func (p Problem) String() string { return fmt.Sprintf("%s: %s", p.Kind, p.Entry) }

// VerifyReport lists what Verify found in the commit store.
type VerifyReport struct {
	Snapshots int
	Messages  int
	Problems  []Problem
}

// OK reports whether no problems were found.
func (v *VerifyReport) OK() bool { return len(v.Problems) == 0 }

// Verify checks every commit-store entry against the naming scheme and the
// working area. It changes nothing.
func (r *Repository) Verify() (*VerifyReport, error) {
	tracked, err := r.TrackedFiles()
	if err != nil {
		return nil, err
	}
	entries, err := r.store.List(r.Config.CommitsDir(), "")
	if err != nil {
		return nil, err
	}

	isTracked := make(map[string]struct{}, len(tracked))
	for _, n := range tracked {
		isTracked[n] = struct{}{}
	}
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e] = struct{}{}
	}

	rep := &VerifyReport{}
	for _, e := range entries {
		if history.IsMessage(e) {
			rep.Messages++
			if _, ok := present[strings.TrimSuffix(e, config.MessageSuffix)]; !ok {
				rep.Problems = append(rep.Problems, Problem{Entry: e, Kind: OrphanMessage})
			}
			continue
		}

		rec, ok := history.Parse(e)
		if !ok || rec.Filename == "" || !history.Valid(rec.Timestamp) {
			rep.Problems = append(rep.Problems, Problem{Entry: e, Kind: Malformed})
			continue
		}
		rep.Snapshots++
		if _, ok := isTracked[rec.Filename]; !ok {
			rep.Problems = append(rep.Problems, Problem{Entry: e, Kind: Untracked})
		}
	}

	r.log.Debug("commit store verified", "snapshots", rep.Snapshots, "problems", len(rep.Problems))
	return rep, nil
}
