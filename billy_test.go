package atfs

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func testingBillyFs(t *testing.T) *BillyFs {
	t.Helper()
	return NewBillyFs(testingFs(t))
}

func TestBillyFs_ReadWrite(t *testing.T) {
	bfs := testingBillyFs(t)

	require.NoError(t, bfs.MkdirAll(bfs.Join("/docs", "notes"), 0755))
	require.NoError(t, util.WriteFile(bfs, "/docs/readme", []byte("read me"), 0644))

	f, err := bfs.Open("/docs/readme")
	require.NoError(t, err)
	require.NoError(t, f.Lock())

	buf := make([]byte, 7)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "read me", string(buf))

	require.NoError(t, f.Unlock())
	require.NoError(t, f.Close())

	infos, err := bfs.ReadDir("/docs")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "notes", infos[0].Name())
	require.True(t, infos[0].IsDir())
	require.Equal(t, "readme", infos[1].Name())

	info, err := bfs.Lstat("/docs/readme")
	require.NoError(t, err)
	require.False(t, info.IsDir())
}

func TestBillyFs_RenameRemove(t *testing.T) {
	bfs := testingBillyFs(t)

	require.NoError(t, util.WriteFile(bfs, "/a", []byte("a"), 0644))
	require.NoError(t, bfs.Rename("/a", "/b"))

	_, err := bfs.Stat("/a")
	require.True(t, os.IsNotExist(err), err)

	require.NoError(t, bfs.Remove("/b"))
	_, err = bfs.Stat("/b")
	require.True(t, os.IsNotExist(err), err)
}

func TestBillyFs_RenameOverExisting(t *testing.T) {
	bfs := testingBillyFs(t)
	require.NoError(t, bfs.MkdirAll("/git", 0755))

	// Lock files are committed by renaming them over the original.
	require.NoError(t, util.WriteFile(bfs, "/git/index", []byte("old"), 0644))
	require.NoError(t, util.WriteFile(bfs, "/git/index_lock", []byte("new"), 0644))
	require.NoError(t, bfs.Rename("/git/index_lock", "/git/index"))

	content, err := util.ReadFile(bfs, "/git/index")
	require.NoError(t, err)
	require.Equal(t, "new", string(content[:3]))

	_, err = bfs.Stat("/git/index_lock")
	require.True(t, os.IsNotExist(err), err)

	infos, err := bfs.ReadDir("/git")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	err = bfs.Rename("/git/index", "/git")
	require.True(t, os.IsExist(err), err)
}

func TestBillyFs_TempFile(t *testing.T) {
	bfs := testingBillyFs(t)
	require.NoError(t, bfs.MkdirAll("/tmp", 0755))

	first, err := bfs.TempFile("/tmp", "pack")
	require.NoError(t, err)
	second, err := bfs.TempFile("/tmp", "pack")
	require.NoError(t, err)
	require.NotEqual(t, first.Name(), second.Name())
	require.Equal(t, "/tmp/pack0", first.Name())
	require.Equal(t, "/tmp/pack1", second.Name())

	anonymous, err := bfs.TempFile("/tmp", "")
	require.NoError(t, err)
	require.Equal(t, "/tmp/tmp0", anonymous.Name())
}

func TestBillyFs_Chroot(t *testing.T) {
	bfs := testingBillyFs(t)
	require.NoError(t, bfs.MkdirAll("/home/tim", 0755))
	require.NoError(t, util.WriteFile(bfs, "/home/tim/notes", []byte("notes"), 0644))

	home, err := bfs.Chroot("/home")
	require.NoError(t, err)

	info, err := home.Stat("tim/notes")
	require.NoError(t, err)
	require.Equal(t, "notes", info.Name())

	require.NoError(t, util.WriteFile(home, "tim/todo", []byte("todo"), 0644))
	_, err = bfs.Stat("/home/tim/todo")
	require.NoError(t, err)

	_, err = bfs.Chroot("/home/tim/notes")
	require.ErrorIs(t, err, ErrNotDirectory)

	_, err = bfs.Chroot("/missing")
	require.True(t, os.IsNotExist(err), err)

	require.Equal(t, "/", bfs.Root())
}

func TestBillyFs_Unsupported(t *testing.T) {
	bfs := testingBillyFs(t)

	require.ErrorIs(t, bfs.Symlink("/a", "/b"), billy.ErrNotSupported)

	_, err := bfs.Readlink("/b")
	require.ErrorIs(t, err, billy.ErrNotSupported)

	caps := bfs.Capabilities()
	require.NotZero(t, caps&billy.WriteCapability)
	require.NotZero(t, caps&billy.SeekCapability)
	require.Zero(t, caps&billy.TruncateCapability)
	require.Zero(t, caps&billy.LockCapability)
}
