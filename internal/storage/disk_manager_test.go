package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileManager_ReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fm, err := NewFileManager(filepath.Join(dir, "data.db"))
	require.NoError(t, err)
	defer fm.Close()

	src := make([]byte, PageSize)
	src[0] = 0xAB
	src[PageSize-1] = 0xCD

	require.NoError(t, fm.WritePage(3, src))

	dst := make([]byte, PageSize)
	require.NoError(t, fm.ReadPage(3, dst))
	require.Equal(t, src, dst)
}

func TestFileManager_ReadNeverWrittenPageIsZeroFilled(t *testing.T) {
	dir := t.TempDir()
	fm, err := NewFileManager(filepath.Join(dir, "data.db"))
	require.NoError(t, err)
	defer fm.Close()

	dst := make([]byte, PageSize)
	for i := range dst {
		dst[i] = 0xFF
	}
	require.NoError(t, fm.ReadPage(7, dst))

	for _, b := range dst {
		require.Zero(t, b)
	}
}

func TestFileManager_RejectsWrongSizedBuffers(t *testing.T) {
	dir := t.TempDir()
	fm, err := NewFileManager(filepath.Join(dir, "data.db"))
	require.NoError(t, err)
	defer fm.Close()

	require.ErrorIs(t, fm.WritePage(0, make([]byte, PageSize-1)), ErrWriteExceedPageSize)
	require.ErrorIs(t, fm.ReadPage(0, make([]byte, PageSize+1)), ErrReadExceedPageSize)
}

func TestFileManager_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	src := make([]byte, PageSize)
	src[100] = 42
	require.NoError(t, fm.WritePage(0, src))
	require.NoError(t, fm.Close())

	// Confirm the file actually exists on disk with content.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	fm2, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm2.Close()

	dst := make([]byte, PageSize)
	require.NoError(t, fm2.ReadPage(0, dst))
	require.Equal(t, byte(42), dst[100])
}

func TestInMemoryManager_ReadWriteRoundTrip(t *testing.T) {
	m := NewInMemoryManager()

	src := make([]byte, PageSize)
	src[5] = 9
	require.NoError(t, m.WritePage(1, src))

	dst := make([]byte, PageSize)
	require.NoError(t, m.ReadPage(1, dst))
	require.Equal(t, src, dst)

	require.Equal(t, 1, m.WrittenPages())
}

func TestInMemoryManager_UnwrittenPageIsZero(t *testing.T) {
	m := NewInMemoryManager()
	dst := make([]byte, PageSize)
	for i := range dst {
		dst[i] = 1
	}
	require.NoError(t, m.ReadPage(99, dst))
	for _, b := range dst {
		require.Zero(t, b)
	}
}
