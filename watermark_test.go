package main

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermarkStoreReadAbsent(t *testing.T) {
	store := newWatermarkStore(memfs.New())

	_, ok, err := store.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatermarkStoreWriteRead(t *testing.T) {
	fs := memfs.New()
	store := newWatermarkStore(fs)

	require.NoError(t, store.Write(Watermark{Seconds: 1600000000, Offset: -300}))

	data, err := util.ReadFile(fs, watermarkFile)
	require.NoError(t, err)
	assert.Equal(t, "1600000000 -300", string(data))

	w, ok, err := store.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Watermark{Seconds: 1600000000, Offset: -300}, w)
}

func TestWatermarkStoreOverwrite(t *testing.T) {
	fs := memfs.New()
	store := newWatermarkStore(fs)

	require.NoError(t, store.Write(Watermark{Seconds: 100, Offset: 60}))
	require.NoError(t, store.Write(Watermark{Seconds: 200, Offset: 0}))

	w, ok, err := store.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Watermark{Seconds: 200, Offset: 0}, w)

	_, err = fs.Stat(watermarkFile + ".tmp")
	assert.Error(t, err, "temporary file should be renamed away")
}

func TestWatermarkStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	store := newWatermarkStore(osfs.New(dir, osfs.WithBoundOS()))

	require.NoError(t, store.Write(Watermark{Seconds: 1700000000, Offset: 120}))

	w, ok, err := newWatermarkStore(osfs.New(dir, osfs.WithBoundOS())).Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Watermark{Seconds: 1700000000, Offset: 120}, w)
}

func TestWatermarkStoreMalformed(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, watermarkFile, []byte("yesterday"), 0644))

	_, _, err := newWatermarkStore(fs).Read()
	require.Error(t, err)
	assert.True(t, ErrStorage.Is(err))
}

func TestParseWatermark(t *testing.T) {
	w, err := parseWatermark("  42\t-90\n")
	require.NoError(t, err)
	assert.Equal(t, Watermark{Seconds: 42, Offset: -90}, w)

	_, err = parseWatermark("42")
	assert.Error(t, err)
	_, err = parseWatermark("42 x")
	assert.Error(t, err)
	_, err = parseWatermark("x 0")
	assert.Error(t, err)
}

func TestWatermarkCompare(t *testing.T) {
	a := Watermark{Seconds: 10, Offset: 0}
	b := Watermark{Seconds: 10, Offset: 60}
	c := Watermark{Seconds: 11, Offset: -60}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 0, c.Compare(c))
	assert.Equal(t, -1, MinWatermark.Compare(Watermark{Seconds: -1 << 40}))
}
