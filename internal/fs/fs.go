package fs

import (
	"io"
	"os"
)

// FS is the filesystem surface the repository store works through. Files are
// only ever replaced by renaming a finished temp file over them.
type FS interface {
	Open(path string) (io.ReadSeekCloser, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
	Stat(path string) (os.FileInfo, error)
	CreateTempFile(dir, pattern string) (io.WriteCloser, string, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	IsDir(path string) bool
	IsNotExist(err error) bool
}
