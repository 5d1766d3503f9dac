package atfs

import (
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/spf13/afero"
)

// maxTempAttempts limits how many names TempFile tries.
const maxTempAttempts = 10000

// BillyFs exposes an Fs as billy.Filesystem, so that go-billy based code like go-git can use an ATFS volume.
// Symlinks do not exist in ATFS, Lstat is the same as Stat.
type BillyFs struct {
	fs *Fs
}

var (
	_ billy.Filesystem = (*BillyFs)(nil)
	_ billy.Capable    = (*BillyFs)(nil)
)

// NewBillyFs wraps fs.
func NewBillyFs(fs *Fs) *BillyFs {
	return &BillyFs{fs: fs}
}

// billyFile adds the locking billy expects. A volume is used by a single process, locks are no-ops.
type billyFile struct {
	*FsFile
}

func (billyFile) Lock() error   { return nil }
func (billyFile) Unlock() error { return nil }

func toBillyFile(f afero.File, err error) (billy.File, error) {
	if err != nil {
		return nil, err
	}
	return billyFile{f.(*FsFile)}, nil
}

func (b *BillyFs) Create(filename string) (billy.File, error) {
	return toBillyFile(b.fs.Create(filename))
}

func (b *BillyFs) Open(filename string) (billy.File, error) {
	return toBillyFile(b.fs.Open(filename))
}

func (b *BillyFs) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	return toBillyFile(b.fs.OpenFile(filename, flag, perm))
}

func (b *BillyFs) Stat(filename string) (os.FileInfo, error) {
	return b.fs.Stat(filename)
}

func (b *BillyFs) Rename(oldpath, newpath string) error {
	return b.fs.Rename(oldpath, newpath)
}

func (b *BillyFs) Remove(filename string) error {
	return b.fs.Remove(filename)
}

func (b *BillyFs) Join(elem ...string) string {
	return path.Join(elem...)
}

// TempFile creates a new file in dir named prefix followed by a number.
// prefix has to be a valid name start, an empty prefix becomes "tmp".
func (b *BillyFs) TempFile(dir, prefix string) (billy.File, error) {
	if prefix == "" {
		prefix = "tmp"
	}

	for i := 0; i < maxTempAttempts; i++ {
		name := path.Join(dir, prefix+strconv.Itoa(i))
		f, err := b.fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
		if os.IsExist(err) {
			continue
		}
		return toBillyFile(f, err)
	}

	return nil, &os.PathError{Op: "createtemp", Path: path.Join(dir, prefix+"*"), Err: os.ErrExist}
}

// ReadDir returns the entries of the directory sorted by name.
func (b *BillyFs) ReadDir(dirname string) ([]os.FileInfo, error) {
	d, err := b.fs.Open(dirname)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	infos, err := d.Readdir(-1)
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (b *BillyFs) MkdirAll(filename string, perm os.FileMode) error {
	return b.fs.MkdirAll(filename, perm)
}

func (b *BillyFs) Lstat(filename string) (os.FileInfo, error) {
	return b.fs.Stat(filename)
}

// Symlink is not supported.
func (b *BillyFs) Symlink(target, link string) error {
	return &os.PathError{Op: "symlink", Path: link, Err: billy.ErrNotSupported}
}

// Readlink is not supported.
func (b *BillyFs) Readlink(link string) (string, error) {
	return "", &os.PathError{Op: "readlink", Path: link, Err: billy.ErrNotSupported}
}

// Chroot returns a view of the directory p, which has to exist.
func (b *BillyFs) Chroot(p string) (billy.Filesystem, error) {
	info, err := b.fs.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, pathError("chroot", p, ErrNotDirectory)
	}
	return chroot.New(b, p), nil
}

func (b *BillyFs) Root() string {
	return "/"
}

// Capabilities reports that files can be read, written and seeked but neither truncated nor locked.
func (b *BillyFs) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.WriteCapability | billy.ReadAndWriteCapability | billy.SeekCapability
}
