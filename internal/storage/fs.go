package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// recordName guards against path tricks in record names.
var recordName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FS implements Provider with one JSON file per record in a data
// directory.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates an FS provider rooted at the given directory. The
// directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

func (f *FS) path(name string) (string, error) {
	if !recordName.MatchString(name) {
		return "", fmt.Errorf("storage: invalid record name %q", name)
	}
	return filepath.Join(f.root, name+".json"), nil
}

// ReadRecord returns the raw bytes of a record file.
func (f *FS) ReadRecord(name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// WriteRecord atomically replaces a record file: tmp file, fsync, rename.
func (f *FS) WriteRecord(name string, data []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".planner-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string {
	return f.root
}
