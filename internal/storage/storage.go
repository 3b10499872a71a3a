package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/google/uuid"
)

// OutputStore holds finished report files for the duration of their
// download window. Files are published under a uniquified name so two
// requests processing identically named inputs never race on one path.
type OutputStore struct {
	dir string
}

// NewOutputStore creates the output directory, optionally wiping stale
// reports left over from a previous run.
func NewOutputStore(dir string, clearOnStart bool) (*OutputStore, error) {
	if clearOnStart {
		if err := os.RemoveAll(dir); err != nil {
			return nil, errors.Wrapf(err, "failed to clear output directory %s", dir)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	return &OutputStore{dir: dir}, nil
}

// Dir returns the store's base directory.
func (s *OutputStore) Dir() string {
	return s.dir
}

// Publish copies a finished file into the store under a uniquified
// variant of filename and returns the name it was published as. The
// source is expected to be a fully composed report; nothing is visible
// in the store until the copy completes.
func (s *OutputStore) Publish(srcPath, filename string) (string, error) {
	uniqueName := uniquify(filepath.Base(filename))
	dstPath := filepath.Join(s.dir, uniqueName)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open composed report %s", srcPath)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create output file %s", dstPath)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", errors.Wrapf(err, "failed to write output file %s", dstPath)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", errors.Wrapf(err, "failed to finalize output file %s", dstPath)
	}

	return uniqueName, nil
}

// Resolve maps a published filename back to its path inside the store.
// Names that would escape the store directory are rejected.
func (s *OutputStore) Resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", errors.InvalidInput("invalid download filename")
	}

	path := filepath.Join(s.dir, filename)
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve output directory")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve download path")
	}
	if !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		return "", errors.InvalidInput("invalid download filename")
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", errors.NotFound("file")
	}
	return path, nil
}

// uniquify inserts a short random token before the extension to prevent
// cross-request filename collisions.
func uniquify(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return base + "_" + uuid.New().String()[:8] + ext
}

// ScopedDir is a per-request transient working directory. It is released
// unconditionally when the request completes, success or failure.
type ScopedDir struct {
	path string
}

// NewScopedDir acquires a fresh temporary directory for one request.
func NewScopedDir() (*ScopedDir, error) {
	path, err := os.MkdirTemp("", "typecheck-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create working directory")
	}
	return &ScopedDir{path: path}, nil
}

// Path returns the directory path.
func (d *ScopedDir) Path() string {
	return d.path
}

// Join returns the path of name inside the directory.
func (d *ScopedDir) Join(name string) string {
	return filepath.Join(d.path, filepath.Base(name))
}

// Release removes the directory and everything in it. Safe to call from
// a defer on every exit path.
func (d *ScopedDir) Release() error {
	return os.RemoveAll(d.path)
}
