// Package store manages the files of a repository: enumeration and naming of
// commit-store entries, and every write into the working area or the commit
// store.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshon/fvc/internal/fs"
	"github.com/keshon/fvc/internal/transform"
)

// ErrIO marks a failure at the filesystem boundary.
var ErrIO = errors.New("i/o failure")

// TempPrefix starts the names of in-flight temp files. List never returns
// them.
const TempPrefix = ".fvc-tmp-"

// Store reads and writes repository files through an FS.
type Store struct {
	fs fs.FS
}

// New creates a store on fsys, or on the OS filesystem when fsys is nil.
func New(fsys fs.FS) *Store {
	if fsys == nil {
		fsys = fs.NewOSFS()
	}
	return &Store{fs: fsys}
}

// List returns the names of the regular files in dir whose name starts with
// prefix, sorted lexicographically. An empty prefix matches every file.
func (s *Store) List(dir, prefix string) ([]string, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, ioErr("list", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, TempPrefix) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the bytes stored at path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, ioErr("read", path, err)
	}
	return data, nil
}

// Write stores data at path, replacing any existing file.
func (s *Store) Write(data []byte, path string) error {
	return writeAtomic(s.fs, data, path)
}

// WriteTransformed runs the transform over data while storing it at path.
func (s *Store) WriteTransformed(data []byte, path string, key transform.Key, dir transform.Direction) error {
	if dir != transform.Encode && dir != transform.Decode {
		return fmt.Errorf("%s %q: unknown direction", dir, path)
	}
	if len(key) == 0 {
		return fmt.Errorf("%s %q: %w", dir, path, transform.ErrEmptyKey)
	}
	return writeAtomic(fs.NewTransformFS(s.fs, key), data, path)
}

// Copy replaces dst with the exact bytes of src.
func (s *Store) Copy(src, dst string) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return ioErr("open", src, err)
	}
	defer in.Close()

	return replace(s.fs, dst, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return ioErr("copy", src, err)
		}
		return nil
	})
}

// CopyTransformed replaces dst with the transformed bytes of src.
func (s *Store) CopyTransformed(src, dst string, key transform.Key, dir transform.Direction) error {
	data, err := s.Read(src)
	if err != nil {
		return err
	}
	out, err := transform.Run(data, key, dir)
	if err != nil {
		return fmt.Errorf("%s %q: %w", dir, src, err)
	}
	return writeAtomic(s.fs, out, dst)
}

// IsDir reports whether path is a directory.
func (s *Store) IsDir(path string) bool { return s.fs.IsDir(path) }

// IsFile reports whether path is a regular file.
func (s *Store) IsFile(path string) bool {
	fi, err := s.fs.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Remove deletes path. A missing path is not an error.
func (s *Store) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !s.fs.IsNotExist(err) {
		return ioErr("remove", path, err)
	}
	return nil
}

// MkdirAll creates dir and any missing parents.
func (s *Store) MkdirAll(dir string) error {
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return ioErr("mkdir", dir, err)
	}
	return nil
}

func writeAtomic(fsys fs.FS, data []byte, path string) error {
	return replace(fsys, path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return ioErr("write", path, err)
		}
		return nil
	})
}

// replace writes into a temp file next to path and renames it over path.
func replace(fsys fs.FS, path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if !fsys.IsDir(dir) {
		return ioErr("create", path, os.ErrNotExist)
	}

	tmp, tmpPath, err := fsys.CreateTempFile(dir, TempPrefix+"*")
	if err != nil {
		return ioErr("create", path, err)
	}

	if err := fill(tmp); err != nil {
		tmp.Close()
		fsys.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpPath)
		return ioErr("close", tmpPath, err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return ioErr("rename", path, err)
	}
	return nil
}

func ioErr(op, path string, err error) error {
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %s %q: %w", ErrIO, op, path, err)
}
