package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hupe1980/lexgo"
)

// Directory is a flat namespace of write-once segment files.
type Directory interface {
	// CreateOutput creates a new file. Creating a file that already exists
	// fails with an error satisfying errors.Is(err, os.ErrExist).
	CreateOutput(ctx context.Context, name string) (*OutputStream, error)

	// OpenInput opens an existing file for reading. Missing files fail with
	// lexgo.ErrNotFound, empty files with lexgo.ErrIllegalState.
	OpenInput(ctx context.Context, name string) (*MMapInput, error)

	// Delete removes a file.
	Delete(ctx context.Context, name string) error

	// List returns the sorted names of all files.
	List(ctx context.Context) ([]string, error)
}

// ValidateName rejects names that would escape a flat directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid file name %q", lexgo.ErrIllegalArgument, name)
	}
	return nil
}

// FSDirectory stores files in a local filesystem directory and reads them
// through memory mappings.
type FSDirectory struct {
	root string
}

var _ Directory = (*FSDirectory)(nil)

// NewFSDirectory returns a directory rooted at root, creating it if needed.
func NewFSDirectory(root string) (*FSDirectory, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSDirectory{root: root}, nil
}

// Root returns the directory path.
func (d *FSDirectory) Root() string {
	return d.root
}

// CreateOutput implements Directory.
func (d *FSDirectory) CreateOutput(ctx context.Context, name string) (*OutputStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(d.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return NewOutputStream(name, f), nil
}

// OpenInput implements Directory.
func (d *FSDirectory) OpenInput(ctx context.Context, name string) (*MMapInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	src, err := OpenSource(filepath.Join(d.root, name))
	if err != nil {
		return nil, err
	}
	return NewMMapInput(src, name), nil
}

// Delete implements Directory.
func (d *FSDirectory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	return os.Remove(filepath.Join(d.root, name))
}

// List implements Directory.
func (d *FSDirectory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
