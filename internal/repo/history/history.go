// Package history derives structured commit records from commit-store entry
// names.
//
// A snapshot is stored as "<filename>.<timestamp>", its optional message as
// "<filename>.<timestamp>.msg". The timestamp is fixed-width and zero-padded,
// so sorting entry names lexicographically sorts the snapshots of one file
// chronologically.
package history

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/keshon/fvc/internal/config"
)

// Layout is the time layout of snapshot timestamps (YYYYMMDDHHMMSS).
const Layout = "20060102150405"

const separator = "."

// Format renders t as a snapshot timestamp. Two commits of the same file
// within one second produce the same timestamp and the later overwrites the
// earlier snapshot.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Valid reports whether ts is a well-formed snapshot timestamp.
func Valid(ts string) bool {
	if len(ts) != len(Layout) {
		return false
	}
	for i := 0; i < len(ts); i++ {
		if ts[i] < '0' || ts[i] > '9' {
			return false
		}
	}
	_, err := time.ParseInLocation(Layout, ts, time.Local)
	return err == nil
}

// SnapshotName returns the commit-store entry name of a snapshot.
func SnapshotName(filename, timestamp string) string {
	return filename + separator + timestamp
}

// MessageName returns the entry name of the message attached to a snapshot.
func MessageName(snapshot string) string {
	return snapshot + config.MessageSuffix
}

// IsMessage reports whether entry is a commit message artifact.
func IsMessage(entry string) bool {
	return strings.HasSuffix(entry, config.MessageSuffix)
}

// Record describes one snapshot.
type Record struct {
	Filename   string
	Timestamp  string
	Path       string
	HasMessage bool
}

// Name returns the entry name the record was parsed from.
func (r Record) Name() string {
	return SnapshotName(r.Filename, r.Timestamp)
}

// Time parses the record timestamp in local time.
func (r Record) Time() (time.Time, error) {
	return time.ParseInLocation(Layout, r.Timestamp, time.Local)
}

// Parse splits entry at its last separator. Entries without a separator
// yield no record.
func Parse(entry string) (Record, bool) {
	i := strings.LastIndex(entry, separator)
	if i < 0 {
		return Record{}, false
	}
	return Record{
		Filename:  entry[:i],
		Timestamp: entry[i+1:],
	}, true
}

// Index is a read-only view of the snapshots in a commit store. It is rebuilt
// from a directory listing on every query and never persisted.
type Index struct {
	records []Record
}

// Build indexes entries listed from dir. Entries must already be in
// lexicographic order; message artifacts mark their snapshot and are
// otherwise skipped.
func Build(dir string, entries []string) *Index {
	messages := make(map[string]struct{})
	for _, e := range entries {
		if IsMessage(e) {
			messages[strings.TrimSuffix(e, config.MessageSuffix)] = struct{}{}
		}
	}

	ix := &Index{records: make([]Record, 0, len(entries))}
	for _, e := range entries {
		if IsMessage(e) {
			continue
		}
		rec, ok := Parse(e)
		if !ok {
			continue
		}
		rec.Path = filepath.Join(dir, e)
		_, rec.HasMessage = messages[e]
		ix.records = append(ix.records, rec)
	}
	return ix
}

// Records returns all records in listing order.
func (ix *Index) Records() []Record {
	return append([]Record(nil), ix.records...)
}

// Len returns the number of snapshots.
func (ix *Index) Len() int { return len(ix.records) }

// For returns the snapshots of filename, oldest first.
func (ix *Index) For(filename string) []Record {
	var out []Record
	for _, r := range ix.records {
		if r.Filename == filename {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the most recent snapshot of filename.
func (ix *Index) Latest(filename string) (Record, bool) {
	recs := ix.For(filename)
	if len(recs) == 0 {
		return Record{}, false
	}
	return recs[len(recs)-1], true
}

// Find returns the snapshot of filename taken at timestamp.
func (ix *Index) Find(filename, timestamp string) (Record, bool) {
	for _, r := range ix.records {
		if r.Filename == filename && r.Timestamp == timestamp {
			return r, true
		}
	}
	return Record{}, false
}

// Counts returns the number of snapshots per filename.
func (ix *Index) Counts() map[string]int {
	out := make(map[string]int)
	for _, r := range ix.records {
		out[r.Filename]++
	}
	return out
}
