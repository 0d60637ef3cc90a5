package remote

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/internal/compress"
	"github.com/hupe1980/lexgo/internal/resource"
)

func writeFile(t *testing.T, d *Directory, name string, payload []byte) {
	t.Helper()
	out, err := d.CreateOutput(context.Background(), name)
	require.NoError(t, err)
	_, err = out.Write(payload)
	require.NoError(t, err)
	require.NoError(t, out.WriteLong(42))
	require.NoError(t, out.Close())
}

func TestDirectoryRoundTrip(t *testing.T) {
	payload := []byte("segment data segment data segment data")

	for _, typ := range []compress.Type{compress.None, compress.LZ4, compress.Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			ctx := context.Background()
			backend := NewMemoryBackend()

			writer, err := NewDirectory(backend, t.TempDir(), func(o *Options) {
				o.Compression = typ
				o.Resources = resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
			})
			require.NoError(t, err)
			writeFile(t, writer, "_0.nvd", payload)

			obj, ok := backend.Object("_0.nvd")
			require.True(t, ok)
			assert.Equal(t, typ, compress.Detect(obj))

			// A second directory with an empty cache must download the object.
			reader, err := NewDirectory(backend, t.TempDir())
			require.NoError(t, err)

			in, err := reader.OpenInput(ctx, "_0.nvd")
			require.NoError(t, err)
			defer in.Close()

			assert.Equal(t, int64(len(payload)+8), in.Len())
			v, err := in.ReadLongAt(int64(len(payload)))
			require.NoError(t, err)
			assert.Equal(t, int64(42), v)

			names, err := reader.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"_0.nvd"}, names)
		})
	}
}

func TestDirectoryCompressedUploadIsThrottled(t *testing.T) {
	backend := NewMemoryBackend()
	d, err := NewDirectory(backend, t.TempDir(), func(o *Options) {
		o.Compression = compress.Zstd
		o.Resources = resource.NewController(resource.Config{IOLimitBytesPerSec: 1})
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out, err := d.CreateOutput(ctx, "_0.nvd")
	require.NoError(t, err)
	_, err = out.Write([]byte("segment data that cannot fit in a one byte per second budget"))
	require.NoError(t, err)
	assert.Error(t, out.Close())

	_, ok := backend.Object("_0.nvd")
	assert.False(t, ok)
}

func TestDirectoryEvictAndDelete(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	cacheDir := t.TempDir()

	d, err := NewDirectory(backend, cacheDir)
	require.NoError(t, err)
	writeFile(t, d, "_1.nvm", []byte("meta"))

	require.NoError(t, d.Evict("_1.nvm"))
	_, err = os.Stat(filepath.Join(cacheDir, "_1.nvm"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	in, err := d.OpenInput(ctx, "_1.nvm")
	require.NoError(t, err)
	require.NoError(t, in.Close())
	_, err = os.Stat(filepath.Join(cacheDir, "_1.nvm"))
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, "_1.nvm"))
	_, ok := backend.Object("_1.nvm")
	assert.False(t, ok)

	_, err = d.OpenInput(ctx, "_1.nvm")
	assert.ErrorIs(t, err, lexgo.ErrNotFound)

	// Evicting something that is not cached is fine.
	require.NoError(t, d.Evict("_1.nvm"))
}

func TestDirectoryRejectsBadNames(t *testing.T) {
	d, err := NewDirectory(NewMemoryBackend(), t.TempDir())
	require.NoError(t, err)

	_, err = d.CreateOutput(context.Background(), "a/b")
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)
	_, err = d.OpenInput(context.Background(), "..")
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)
}

func TestDirectoryUploadCanceled(t *testing.T) {
	backend := NewMemoryBackend()
	d, err := NewDirectory(backend, t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := d.CreateOutput(ctx, "_2.nvd")
	require.NoError(t, err)
	require.NoError(t, out.WriteInt(7))

	cancel()
	err = out.Close()
	require.Error(t, err)
	_, ok := backend.Object("_2.nvd")
	assert.False(t, ok)
}

func TestMemoryBackendList(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	for _, k := range []string{"b/2", "a/1", "b/1"} {
		require.NoError(t, b.Put(ctx, k, strings.NewReader(k), int64(len(k))))
	}

	keys, err := b.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1", "b/2"}, keys)

	_, err = b.Get(ctx, "missing")
	assert.ErrorIs(t, err, lexgo.ErrNotFound)
}
