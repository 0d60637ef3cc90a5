package store

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/hupe1980/lexgo"
)

// MemoryDirectory is an in-memory Directory for tests and transient indexes.
// Files become visible when their output is closed. It is safe for
// concurrent use.
type MemoryDirectory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{files: make(map[string][]byte)}
}

// CreateOutput implements Directory.
func (d *MemoryDirectory) CreateOutput(ctx context.Context, name string) (*OutputStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	d.mu.RLock()
	_, exists := d.files[name]
	d.mu.RUnlock()
	if exists {
		return nil, &os.PathError{Op: "create", Path: name, Err: os.ErrExist}
	}
	return NewOutputStream(name, &memoryFile{dir: d, name: name}), nil
}

// OpenInput implements Directory.
func (d *MemoryDirectory) OpenInput(ctx context.Context, name string) (*MMapInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	data, ok := d.files[name]
	d.mu.RUnlock()
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: lexgo.ErrNotFound}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: cannot map empty file %q", lexgo.ErrIllegalState, name)
	}
	return NewMMapInput(NewSourceFromBytes(data), name), nil
}

// Delete implements Directory.
func (d *MemoryDirectory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.files[name]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: lexgo.ErrNotFound}
	}
	delete(d.files, name)
	return nil
}

// List implements Directory.
func (d *MemoryDirectory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Sorted(maps.Keys(d.files)), nil
}

// Corrupt flips the bits of one byte of a stored file. Tests use it to
// exercise checksum verification.
func (d *MemoryDirectory) Corrupt(name string, pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.files[name]
	if !ok {
		return &os.PathError{Op: "corrupt", Path: name, Err: lexgo.ErrNotFound}
	}
	if pos < 0 || pos >= len(data) {
		return fmt.Errorf("%w: position %d outside file of length %d", lexgo.ErrIllegalArgument, pos, len(data))
	}
	// Stored slices may be shared with open inputs, so replace rather than mutate.
	cp := bytes.Clone(data)
	cp[pos] ^= 0xff
	d.files[name] = cp
	return nil
}

type memoryFile struct {
	dir  *MemoryDirectory
	name string
	buf  bytes.Buffer
}

func (f *memoryFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memoryFile) Close() error {
	f.dir.mu.Lock()
	defer f.dir.mu.Unlock()

	if _, exists := f.dir.files[f.name]; exists {
		return &os.PathError{Op: "create", Path: f.name, Err: os.ErrExist}
	}
	f.dir.files[f.name] = bytes.Clone(f.buf.Bytes())
	return nil
}
