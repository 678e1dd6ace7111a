package nbt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileCreateSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.dat")

	f, err := Open(path, ModeCreate)
	require.NoError(t, err)

	name, err := NewString("LevelName", "New World")
	require.NoError(t, err)
	require.NoError(t, f.Root().Add(name, false))
	require.NoError(t, f.Save())

	loaded, err := Open(path, ModeLoad)
	require.NoError(t, err)
	require.True(t, loaded.Root().Equal(f.Root()))
}

func TestFileModifyCreatesWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.dat")

	f, err := Open(path, ModeModify)
	require.NoError(t, err)
	require.Equal(t, 0, f.Root().Len())
}

func TestFileModifyTreatsEmptyFileAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.dat")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := Open(path, ModeModify)
	require.NoError(t, err)
	require.Equal(t, 0, f.Root().Len())
}

func TestFileModifyLoadsWhenPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.dat")

	first, err := Open(path, ModeCreate)
	require.NoError(t, err)
	ageTag := NewLong("Age", 100)
	require.NoError(t, first.Root().Add(ageTag, false))
	require.NoError(t, first.Save())

	second, err := Open(path, ModeModify)
	require.NoError(t, err)
	require.Equal(t, int64(100), second.Root().Get("Age").(*LongTag).Value())
}

func TestFileLoadMissingFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dat")
	_, err := Open(path, ModeLoad)
	require.Error(t, err)
}

func TestFileCopyToIsIndependent(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "src.dat")
	dstPath := filepath.Join(t.TempDir(), "dst.dat")

	src, err := Open(srcPath, ModeCreate)
	require.NoError(t, err)
	nameTag, _ := NewString("n", "original")
	require.NoError(t, src.Root().Add(nameTag, false))
	require.NoError(t, src.Save())

	dst, err := src.CopyTo(dstPath)
	require.NoError(t, err)
	require.True(t, dst.Root().Equal(src.Root()))

	_ = dst.Root().Get("n").(*StringTag).SetValue("changed")
	require.NotEqual(t, "changed", src.Root().Get("n").(*StringTag).Value())
}

func TestFileWithoutGzipStoresRawStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.dat")
	f, err := Open(path, ModeCreate, WithoutGzip())
	require.NoError(t, err)
	require.NoError(t, f.Save())

	loaded, err := Open(path, ModeLoad, WithoutGzip())
	require.NoError(t, err)
	require.True(t, loaded.Root().Equal(f.Root()))
}
