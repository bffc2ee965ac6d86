package fs

import (
	"bytes"
	"io"
	"os"

	"github.com/keshon/fvc/internal/transform"
)

// TransformFS wraps another FS and runs the reversible transform over file
// contents: writes store transformed bytes, reads return transformed bytes.
// Since the transform is self-inverse, the same wrapper both obscures
// plaintext on write and recovers it on read.
type TransformFS struct {
	underlying FS
	key        transform.Key
}

func NewTransformFS(base FS, key transform.Key) *TransformFS {
	return &TransformFS{underlying: base, key: key}
}

func (t *TransformFS) Open(path string) (io.ReadSeekCloser, error) {
	data, err := t.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &memReadSeekCloser{Reader: bytes.NewReader(data)}, nil
}

func (t *TransformFS) ReadFile(path string) ([]byte, error) {
	data, err := t.underlying.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return transform.Apply(data, t.key)
}

// CreateTempFile returns a writer that transforms everything written to it.
func (t *TransformFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	if len(t.key) == 0 {
		return nil, "", transform.ErrEmptyKey
	}
	wc, name, err := t.underlying.CreateTempFile(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return &transformWriter{dst: wc, key: t.key}, name, nil
}

// Pass-through for other operations
func (t *TransformFS) MkdirAll(path string, perm os.FileMode) error {
	return t.underlying.MkdirAll(path, perm)
}
func (t *TransformFS) Remove(path string) error { return t.underlying.Remove(path) }
func (t *TransformFS) Rename(oldPath, newPath string) error {
	return t.underlying.Rename(oldPath, newPath)
}
func (t *TransformFS) Stat(path string) (os.FileInfo, error)      { return t.underlying.Stat(path) }
func (t *TransformFS) ReadDir(path string) ([]os.DirEntry, error) { return t.underlying.ReadDir(path) }
func (t *TransformFS) IsNotExist(err error) bool                  { return t.underlying.IsNotExist(err) }
func (t *TransformFS) IsDir(path string) bool                     { return t.underlying.IsDir(path) }

// transformWriter keeps the key position across Write calls so chunked
// writes produce the same bytes as a single Apply over the whole stream.
type transformWriter struct {
	dst io.WriteCloser
	key transform.Key
	off int
}

func (w *transformWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	n := len(w.key)
	for i, b := range p {
		buf[i] = b ^ w.key[(w.off+i)%n]
	}
	written, err := w.dst.Write(buf)
	w.off += written
	return written, err
}

func (w *transformWriter) Close() error { return w.dst.Close() }
