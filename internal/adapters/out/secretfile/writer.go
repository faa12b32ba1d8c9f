// Package secretfile writes note content to short-lived, owner-only files.
package secretfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/boundaries/out"
	"github.com/bnema/rbwchain/internal/domain"
)

const (
	// DefaultPattern is passed to os.CreateTemp; '*' becomes a random string.
	DefaultPattern = "rbwchain-*"

	ownerOnly = 0o600
	dirPerms  = 0o700
)

// file is the subset of *os.File the writer needs.
type file interface {
	Name() string
	Chmod(fs.FileMode) error
	WriteString(string) (int, error)
	Sync() error
	Close() error
}

// Writer implements the SecretFileWriter interface on the local filesystem.
type Writer struct {
	dir     string
	pattern string
	create  func(dir, pattern string) (file, error)
	log     *log.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithDir sets the directory holding secret files. If dir is relative it is
// taken relative to the system temporary directory ([os.TempDir]).
func WithDir(dir string) Option {
	return func(w *Writer) {
		w.dir = dir
	}
}

// WithPattern sets the os.CreateTemp name pattern.
func WithPattern(pattern string) Option {
	return func(w *Writer) {
		if pattern != "" {
			w.pattern = pattern
		}
	}
}

// NewWriter creates a writer.
func NewWriter(log *log.Logger, opts ...Option) *Writer {
	w := &Writer{
		pattern: DefaultPattern,
		create: func(dir, pattern string) (file, error) {
			return os.CreateTemp(dir, pattern)
		},
		log: log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the absolute directory new files are created in.
func (w *Writer) Dir() string {
	dir := os.TempDir()
	if w.dir != "" {
		if filepath.IsAbs(w.dir) {
			dir = filepath.Clean(w.dir)
		} else {
			dir = filepath.Join(dir, w.dir)
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

// Write creates a new file readable and writable only by the current user
// and writes content to it verbatim. Any failure after creation removes the
// file before the error is returned.
func (w *Writer) Write(content string) (out.Artifact, error) {
	dir := w.Dir()
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("%w: failed to create directory %q: %v", domain.ErrWriteFailed, dir, err)
	}

	f, err := w.create(dir, w.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temporary file: %v", domain.ErrWriteFailed, err)
	}

	artifact := &Artifact{path: f.Name(), log: w.log}
	w.log.Debug("created temporary file", "path", artifact.path)

	fail := func(step string, err error) (out.Artifact, error) {
		_ = f.Close()
		if rmErr := artifact.Release(); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return nil, fmt.Errorf("%w: failed to %s temporary file: %v", domain.ErrWriteFailed, step, err)
	}

	if err := f.Chmod(ownerOnly); err != nil {
		return fail("chmod", err)
	}
	if _, err := f.WriteString(content); err != nil {
		return fail("write secret content to", err)
	}
	if err := f.Sync(); err != nil {
		return fail("flush", err)
	}
	if err := f.Close(); err != nil {
		return fail("close", err)
	}

	w.log.Debug("wrote secret content to temporary file", "path", artifact.path, "bytes", len(content))

	return artifact, nil
}

// Artifact owns a secret file until Release is called.
type Artifact struct {
	path string
	log  *log.Logger

	once sync.Once
	err  error
}

// Path returns the file location.
func (a *Artifact) Path() string {
	return a.path
}

// Release deletes the file once. A file that is already gone is not an error.
func (a *Artifact) Release() error {
	a.once.Do(func() {
		err := os.Remove(a.path)
		switch {
		case err == nil:
			a.log.Debug("removed temporary file", "path", a.path)
		case errors.Is(err, fs.ErrNotExist):
			a.log.Debug("temporary file already removed", "path", a.path)
		default:
			a.err = fmt.Errorf("failed to remove temporary file %q: %w", a.path, err)
		}
	})
	return a.err
}
