package atfs

import (
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aligator/goatfs/checkpoint"
	"github.com/spf13/afero"
)

const (
	// DefaultFileBlocks is the capacity of files created through Fs.
	DefaultFileBlocks = 1

	// DefaultDirBlocks is the capacity of directories created through Fs.
	DefaultDirBlocks = 1
)

// Fs exposes a Volume as afero.Fs.
//
// Names use slashes like every afero filesystem: "/home/tim" is the ATFS path "home.tim".
// A slash separated component which contains a dot can not be represented and is rejected.
type Fs struct {
	vol *Volume

	fileBlocks uint32
	dirBlocks  uint32
}

var _ afero.Fs = (*Fs)(nil)

// FsOption configures an Fs.
type FsOption func(*Fs)

// WithFileBlocks sets the capacity of files created by Create and OpenFile.
func WithFileBlocks(blocks uint32) FsOption {
	return func(fs *Fs) {
		fs.fileBlocks = blocks
	}
}

// WithDirBlocks sets the capacity of directories created by Mkdir and MkdirAll.
func WithDirBlocks(blocks uint32) FsOption {
	return func(fs *Fs) {
		fs.dirBlocks = blocks
	}
}

// NewFs wraps vol.
func NewFs(vol *Volume, opts ...FsOption) *Fs {
	fs := &Fs{
		vol:        vol,
		fileBlocks: DefaultFileBlocks,
		dirBlocks:  DefaultDirBlocks,
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Volume returns the wrapped volume.
func (fs *Fs) Volume() *Volume {
	return fs.vol
}

// ToPath converts a slash separated name into an ATFS path.
// "", "." and "/" are the root directory.
func ToPath(name string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" {
		return "", nil
	}

	parts := strings.Split(cleaned, "/")
	for _, part := range parts {
		if strings.IndexByte(part, Separator) >= 0 {
			return "", ErrPathFormatInvalid
		}
	}

	p := strings.Join(parts, string(Separator))
	if !Validate(p) {
		return "", ErrPathFormatInvalid
	}
	return p, nil
}

// pathError wraps err into an os.PathError.
// Missing and existing entries are reported with the plain os errors, because os.IsNotExist
// and os.IsExist only compare the error directly. Everything else keeps the ATFS error.
func pathError(op, name string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound):
		err = os.ErrNotExist
	case errors.Is(err, ErrExists):
		err = os.ErrExist
	case errors.Is(err, ErrPathFormatInvalid), errors.Is(err, ErrNameTooLong):
		err = checkpoint.Wrap(err, os.ErrInvalid)
	default:
		err = checkpoint.From(err)
	}

	return &os.PathError{Op: op, Path: name, Err: err}
}

func (fs *Fs) lookup(name string) (string, DirEntry, error) {
	p, err := ToPath(name)
	if err != nil {
		return "", DirEntry{}, err
	}
	entry, err := fs.vol.Lookup(p)
	return p, entry, err
}

// Create creates the file name with the default file capacity.
// An existing file is replaced by an empty one, whatever its capacity was.
func (fs *Fs) Create(name string) (afero.File, error) {
	p, entry, err := fs.lookup(name)
	switch {
	case err == nil && entry.IsDir():
		return nil, pathError("open", name, ErrIsDirectory)
	case err != nil && err != ErrNotFound:
		return nil, pathError("open", name, err)
	}

	entry, err = fs.createFile(p)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return newFsFile(fs, name, entry, true), nil
}

// createFile creates p with the default file capacity and zeroes it.
func (fs *Fs) createFile(p string) (DirEntry, error) {
	if err := fs.vol.Create(p, TypeFile, fs.fileBlocks); err != nil {
		return DirEntry{}, err
	}
	entry, err := fs.vol.Lookup(p)
	if err != nil {
		return DirEntry{}, err
	}

	if err := fs.vol.zeroExtent(entry.Extent); err != nil {
		if delErr := fs.vol.Delete(p); delErr != nil {
			fs.vol.log.Warn("could not remove partly created file",
				slog.String("path", p),
				slog.String("err", delErr.Error()))
		}
		return DirEntry{}, err
	}
	return entry, nil
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	p, _, err := fs.lookup(name)
	if err == nil {
		return pathError("mkdir", name, ErrExists)
	}
	if err != ErrNotFound {
		return pathError("mkdir", name, err)
	}

	return pathError("mkdir", name, fs.vol.Create(p, TypeDir, fs.dirBlocks))
}

func (fs *Fs) MkdirAll(name string, perm os.FileMode) error {
	p, err := ToPath(name)
	if err != nil {
		return pathError("mkdir", name, err)
	}

	current := ""
	for rest := p; rest != ""; rest = Rest(rest) {
		current = Join(current, First(rest))

		entry, err := fs.vol.Lookup(current)
		switch err {
		case nil:
			if !entry.IsDir() {
				return pathError("mkdir", name, ErrNotDirectory)
			}
		case ErrNotFound:
			if err := fs.vol.Create(current, TypeDir, fs.dirBlocks); err != nil {
				return pathError("mkdir", name, err)
			}
		default:
			return pathError("mkdir", name, err)
		}
	}
	return nil
}

func (fs *Fs) Open(name string) (afero.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens name. With os.O_CREATE a missing file is created empty with the default capacity.
// os.O_TRUNC has no effect because the capacity of a file is fixed and no length is stored.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	p, entry, err := fs.lookup(name)
	switch {
	case err == ErrNotFound && flag&os.O_CREATE != 0:
		if entry, err = fs.createFile(p); err != nil {
			return nil, pathError("open", name, err)
		}
	case err != nil:
		return nil, pathError("open", name, err)
	case flag&(os.O_CREATE|os.O_EXCL) == os.O_CREATE|os.O_EXCL:
		return nil, pathError("open", name, ErrExists)
	}

	writable := flag&(os.O_WRONLY|os.O_RDWR) != 0
	if entry.IsDir() && writable {
		return nil, pathError("open", name, ErrIsDirectory)
	}

	return newFsFile(fs, name, entry, writable), nil
}

// Remove deletes a file or an empty directory.
func (fs *Fs) Remove(name string) error {
	p, entry, err := fs.lookup(name)
	if err != nil {
		return pathError("remove", name, err)
	}

	if entry.IsDir() {
		empty, err := fs.vol.isEmptyDir(entry.Extent)
		if err != nil {
			return pathError("remove", name, err)
		}
		if !empty {
			return pathError("remove", name, ErrDirectoryNotEmpty)
		}
	}

	return pathError("remove", name, fs.vol.Delete(p))
}

// RemoveAll deletes name and everything below it. Removing the root directory empties it.
func (fs *Fs) RemoveAll(name string) error {
	p, entry, err := fs.lookup(name)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return pathError("removeall", name, err)
	}

	if p == "" {
		return pathError("removeall", name, fs.vol.clearDir(entry.Extent, 1))
	}
	return pathError("removeall", name, fs.vol.Delete(p))
}

// Rename moves oldname to newname like os.Rename.
// An existing file at newname is replaced, an existing directory is not.
func (fs *Fs) Rename(oldname, newname string) error {
	src, err := ToPath(oldname)
	if err != nil {
		return pathError("rename", oldname, err)
	}
	dst, err := ToPath(newname)
	if err != nil {
		return pathError("rename", newname, err)
	}

	source, err := fs.vol.Lookup(src)
	if err != nil {
		return pathError("rename", oldname, err)
	}
	if src == dst {
		return nil
	}

	target, err := fs.vol.Lookup(dst)
	switch {
	case err == nil && src != "" && !source.IsDir() && !target.IsDir():
		if err := fs.vol.Delete(dst); err != nil {
			return pathError("rename", newname, err)
		}
	case err != nil && err != ErrNotFound:
		return pathError("rename", newname, err)
	}

	return pathError("rename", oldname, fs.vol.Move(dst, src))
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	_, entry, err := fs.lookup(name)
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	return entry.FileInfo(fs.vol.blockSize), nil
}

func (fs *Fs) Name() string {
	return "ATFS"
}

// Chmod is not supported, ATFS has no permissions.
func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return pathError("chmod", name, ErrNotSupported)
}

// Chown is not supported, ATFS has no owners.
func (fs *Fs) Chown(name string, uid, gid int) error {
	return pathError("chown", name, ErrNotSupported)
}

// Chtimes is not supported, ATFS has no timestamps.
func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return pathError("chtimes", name, ErrNotSupported)
}
