package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/internal/compress"
	"github.com/hupe1980/lexgo/internal/resource"
	"github.com/hupe1980/lexgo/store"
)

// Options configures a remote Directory.
type Options struct {
	// Compression applied to uploaded objects. Downloads detect the format,
	// so changing it never invalidates existing objects.
	Compression compress.Type

	// Resources throttles transfer bandwidth. nil means unlimited.
	Resources *resource.Controller

	// Logger receives transfer events.
	Logger *lexgo.Logger
}

// DefaultOptions are used by NewDirectory.
var DefaultOptions = Options{
	Compression: compress.Zstd,
	Logger:      lexgo.NoopLogger(),
}

// Directory stores segment files in a Backend and reads them through memory
// mappings of a local cache. Outputs are written to the cache and uploaded
// when closed; inputs are downloaded into the cache on first open.
type Directory struct {
	backend Backend
	cache   *store.FSDirectory
	opts    Options
	group   singleflight.Group
}

var _ store.Directory = (*Directory)(nil)

// NewDirectory returns a Directory over backend caching files in cacheDir.
func NewDirectory(backend Backend, cacheDir string, optFns ...func(o *Options)) (*Directory, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = lexgo.NoopLogger()
	}

	cache, err := store.NewFSDirectory(cacheDir)
	if err != nil {
		return nil, err
	}

	return &Directory{
		backend: backend,
		cache:   cache,
		opts:    opts,
	}, nil
}

func (d *Directory) cachePath(name string) string {
	return filepath.Join(d.cache.Root(), name)
}

// CreateOutput implements store.Directory. The object is uploaded when the
// returned output is closed; Close reports upload failures.
func (d *Directory) CreateOutput(ctx context.Context, name string) (*store.OutputStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(d.cachePath(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return store.NewOutputStream(name, &uploadingFile{File: f, ctx: ctx, dir: d, name: name}), nil
}

// OpenInput implements store.Directory.
func (d *Directory) OpenInput(ctx context.Context, name string) (*store.MMapInput, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(d.cachePath(name)); errors.Is(err, os.ErrNotExist) {
		_, err, _ = d.group.Do(name, func() (any, error) {
			return nil, d.download(ctx, name)
		})
		if err != nil {
			return nil, err
		}
	}
	return d.cache.OpenInput(ctx, name)
}

// Delete implements store.Directory. The cached copy is removed as well.
func (d *Directory) Delete(ctx context.Context, name string) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	if err := d.backend.Delete(ctx, name); err != nil {
		return err
	}
	return d.Evict(name)
}

// List implements store.Directory by listing the backend.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	return d.backend.List(ctx, "")
}

// Evict drops the cached copy of name. The next OpenInput downloads it again.
// Inputs that are already open keep their mapping.
func (d *Directory) Evict(name string) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(d.cachePath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Directory) upload(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() {
		d.logTransfer(ctx, "upload", name, time.Since(start), err)
	}()

	f, err := os.Open(d.cachePath(name))
	if err != nil {
		return err
	}
	defer f.Close()

	if d.opts.Compression == compress.None {
		info, err := f.Stat()
		if err != nil {
			return err
		}
		r := resource.NewRateLimitedReader(ctx, f, d.opts.Resources)
		return d.backend.Put(ctx, name, r, info.Size())
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Throttle the compressed stream, which is what reaches the backend.
		cw, err := compress.NewWriter(resource.NewRateLimitedWriter(gctx, pw, d.opts.Resources), d.opts.Compression)
		if err != nil {
			_ = pw.CloseWithError(err)
			return err
		}
		_, err = io.Copy(cw, f)
		if cerr := cw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
		return err
	})

	g.Go(func() error {
		err := d.backend.Put(gctx, name, pr, -1)
		if err != nil {
			_ = pr.CloseWithError(err)
		} else {
			// Drain so the compressor never blocks on a backend that stopped early.
			_, _ = io.Copy(io.Discard, pr)
		}
		return err
	})

	return g.Wait()
}

func (d *Directory) download(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() {
		d.logTransfer(ctx, "download", name, time.Since(start), err)
	}()

	body, err := d.backend.Get(ctx, name)
	if err != nil {
		return err
	}
	defer body.Close()

	r, err := compress.NewReader(resource.NewRateLimitedReader(ctx, body, d.opts.Resources))
	if err != nil {
		return err
	}
	defer r.Close()

	tmp, err := os.CreateTemp(d.cache.Root(), "."+name+".*.part")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download %q: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.cachePath(name))
}

func (d *Directory) logTransfer(ctx context.Context, op, name string, took time.Duration, err error) {
	l := d.opts.Logger.WithFile(name)
	if err != nil && !errors.Is(err, lexgo.ErrNotFound) {
		l.ErrorContext(ctx, "remote transfer failed", "op", op, "error", err)
		return
	}
	l.DebugContext(ctx, "remote transfer", "op", op, "took", took, "error", err)
}

// uploadingFile is the cache file behind an output; closing it uploads the
// finished file.
type uploadingFile struct {
	*os.File
	ctx  context.Context
	dir  *Directory
	name string
}

func (f *uploadingFile) Close() error {
	if err := f.File.Close(); err != nil {
		return err
	}
	if err := f.dir.upload(f.ctx, f.name); err != nil {
		return fmt.Errorf("upload %q: %w", f.name, err)
	}
	return nil
}
