package repo

import (
	"fmt"
	"path/filepath"

	"github.com/keshon/fvc/internal/repo/history"
	"github.com/keshon/fvc/internal/transform"
)

// AddFile stores the transformed content of source in the working area under
// its base name and returns that name. A prior copy is overwritten.
func (r *Repository) AddFile(source string) (string, error) {
	if err := r.ensureValid(); err != nil {
		return "", err
	}
	name := filepath.Base(source)
	if err := checkName(name); err != nil {
		return "", err
	}

	src := r.resolveSource(source)
	if !r.store.IsFile(src) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	data, err := r.store.Read(src)
	if err != nil {
		return "", err
	}

	dst := r.Config.TrackedPath(name)
	if err := r.store.WriteTransformed(data, dst, r.key, transform.Encode); err != nil {
		return "", fmt.Errorf("failed to add %q: %w", name, err)
	}

	r.log.Debug("file added", "file", name, "source", src, "bytes", len(data))
	return name, nil
}

// CommitFile snapshots the working-area copy of name. The snapshot keeps the
// stored bytes as they are. A commit within the same second as a previous
// commit of name replaces it.
func (r *Repository) CommitFile(name, message string) (history.Record, error) {
	if err := r.ensureValid(); err != nil {
		return history.Record{}, err
	}
	if err := checkName(name); err != nil {
		return history.Record{}, err
	}

	src := r.Config.TrackedPath(name)
	if !r.store.IsFile(src) {
		return history.Record{}, fmt.Errorf("%w: %s is not tracked", ErrSourceNotFound, name)
	}

	ts := history.Format(r.now())
	entry := history.SnapshotName(name, ts)
	rec := history.Record{
		Filename:   name,
		Timestamp:  ts,
		Path:       r.Config.CommitPath(entry),
		HasMessage: message != "",
	}

	if err := r.store.Copy(src, rec.Path); err != nil {
		return history.Record{}, fmt.Errorf("failed to commit %q: %w", name, err)
	}

	msgPath := r.Config.CommitPath(history.MessageName(entry))
	if rec.HasMessage {
		if err := r.store.Write([]byte(message+"\n"), msgPath); err != nil {
			return history.Record{}, fmt.Errorf("failed to write commit message: %w", err)
		}
	} else if err := r.store.Remove(msgPath); err != nil {
		return history.Record{}, fmt.Errorf("failed to clear stale commit message: %w", err)
	}

	r.log.Debug("file committed", "file", name, "timestamp", ts, "message", rec.HasMessage)
	return rec, nil
}

// RevertFile restores a snapshot of name into the working area, decoding it
// on the way. With an empty timestamp the most recent snapshot is used.
func (r *Repository) RevertFile(name, timestamp string) (history.Record, error) {
	if err := r.ensureValid(); err != nil {
		return history.Record{}, err
	}
	if err := checkName(name); err != nil {
		return history.Record{}, err
	}

	ix, err := r.index(name)
	if err != nil {
		return history.Record{}, err
	}

	var (
		rec history.Record
		ok  bool
	)
	if timestamp == "" {
		rec, ok = ix.Latest(name)
	} else {
		rec, ok = ix.Find(name, timestamp)
	}
	if !ok {
		if timestamp == "" {
			return history.Record{}, fmt.Errorf("%w: no commits for %s", ErrNoMatchingCommit, name)
		}
		return history.Record{}, fmt.Errorf("%w: %s", ErrNoMatchingCommit, history.SnapshotName(name, timestamp))
	}

	dst := r.Config.TrackedPath(name)
	if err := r.store.CopyTransformed(rec.Path, dst, r.key, transform.Decode); err != nil {
		return history.Record{}, fmt.Errorf("failed to revert %q: %w", name, err)
	}

	r.log.Debug("file reverted", "file", name, "timestamp", rec.Timestamp)
	return rec, nil
}

// CheckoutFile decodes the working-area copy of name into a new file in the
// checkout directory and returns its path. The working-area copy is left alone.
func (r *Repository) CheckoutFile(name string) (string, error) {
	if err := r.ensureValid(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}

	src := r.Config.TrackedPath(name)
	if !r.store.IsFile(src) {
		return "", fmt.Errorf("%w: %s is not tracked", ErrSourceNotFound, name)
	}

	dst := filepath.Join(r.outDir, name+r.suffix)
	if err := r.store.CopyTransformed(src, dst, r.key, transform.Decode); err != nil {
		return "", fmt.Errorf("failed to check out %q: %w", name, err)
	}

	r.log.Debug("file checked out", "file", name, "dest", dst)
	return dst, nil
}
