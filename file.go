package atfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/goatfs/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile  = errors.New("could not read file completely")
	ErrWriteFile = errors.New("could not write file completely")
	ErrSeekFile  = errors.New("could not seek inside of the file")
	ErrReadDir   = errors.New("could not read the directory")
)

// FsFile is an open file or directory of an Fs.
// Reads and writes are byte granular, the size of a file is the capacity of its extent.
type FsFile struct {
	fs   *Fs
	name string

	entry    DirEntry
	handle   *File
	dir      *Dir
	writable bool

	offset int64
}

var _ afero.File = (*FsFile)(nil)

func newFsFile(fs *Fs, name string, entry DirEntry, writable bool) *FsFile {
	f := &FsFile{
		fs:       fs,
		name:     name,
		entry:    entry,
		handle:   &File{vol: fs.vol, Extent: entry.Extent, Type: entry.Type},
		writable: writable,
	}
	if entry.IsDir() {
		f.dir = fs.vol.dirOf(entry.Extent)
	}
	return f
}

func (f *FsFile) size() int64 {
	return int64(f.entry.Size) << f.fs.vol.blockShift
}

// Close releases the handle. The file is not usable afterwards.
func (f *FsFile) Close() error {
	if f.handle == nil {
		return afero.ErrFileClosed
	}

	f.handle = nil
	f.dir = nil
	f.entry = DirEntry{}
	f.writable = false
	f.offset = 0
	return nil
}

// blockRange returns the blocks covering [off, off+n) and the offset of off inside the first of them.
// n has to be greater than 0.
func (f *FsFile) blockRange(off int64, n int) (first, count uint32, skip int64) {
	shift := f.fs.vol.blockShift
	firstBlock := off >> shift
	lastBlock := (off + int64(n) - 1) >> shift
	return uint32(firstBlock), uint32(lastBlock - firstBlock + 1), off - firstBlock<<shift
}

func (f *FsFile) Read(p []byte) (n int, err error) {
	n, err = f.ReadAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

// ReadAt reads len(p) bytes at off. Reading past the capacity returns io.EOF.
func (f *FsFile) ReadAt(p []byte, off int64) (n int, err error) {
	if f.handle == nil {
		return 0, afero.ErrFileClosed
	}
	if f.dir != nil {
		return 0, checkpoint.Wrap(ErrIsDirectory, ErrReadFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	size := f.size()
	if off >= size {
		return 0, io.EOF
	}

	want := len(p)
	if int64(want) > size-off {
		want = int(size - off)
		err = io.EOF
	}

	first, count, skip := f.blockRange(off, want)
	buf := make([]byte, int(count)<<f.fs.vol.blockShift)
	if rerr := f.handle.Read(first, count, buf); rerr != nil {
		return 0, checkpoint.Wrap(rerr, ErrReadFile)
	}

	return copy(p, buf[skip:skip+int64(want)]), err
}

// Seek jumps to a specific offset in the file. This affects Read and Write but not ReadAt and WriteAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *FsFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *FsFile) Write(p []byte) (n int, err error) {
	n, err = f.WriteAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

// WriteAt writes p at off. Files never grow, so writing past the capacity fails
// with ErrOutOfBounds and nothing is written.
func (f *FsFile) WriteAt(p []byte, off int64) (n int, err error) {
	if f.handle == nil {
		return 0, afero.ErrFileClosed
	}
	if f.dir != nil {
		return 0, checkpoint.Wrap(ErrIsDirectory, ErrWriteFile)
	}
	if !f.writable {
		return 0, checkpoint.Wrap(os.ErrPermission, ErrWriteFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, ErrWriteFile)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > f.size()-off {
		return 0, checkpoint.Wrap(ErrOutOfBounds, ErrWriteFile)
	}

	shift := f.fs.vol.blockShift
	first, count, skip := f.blockRange(off, len(p))
	buf := make([]byte, int(count)<<shift)

	// Blocks which are only partly overwritten need their old content.
	aligned := skip == 0 && (off+int64(len(p)))&(int64(1)<<shift-1) == 0
	if !aligned {
		if err := f.handle.Read(first, count, buf); err != nil {
			return 0, checkpoint.Wrap(err, ErrWriteFile)
		}
	}

	copy(buf[skip:], p)
	if err := f.handle.Write(first, count, buf); err != nil {
		return 0, checkpoint.Wrap(err, ErrWriteFile)
	}
	return len(p), nil
}

func (f *FsFile) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *FsFile) Name() string {
	return f.name
}

// Readdir reads the contents of a directory.
// May return syscall.ENOTDIR if the current FsFile is no directory.
func (f *FsFile) Readdir(count int) ([]os.FileInfo, error) {
	if f.handle == nil {
		return nil, afero.ErrFileClosed
	}
	if f.dir == nil {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	var result []os.FileInfo
	for count <= 0 || len(result) < count {
		entry, err := f.dir.ReadNext()
		if err == ErrEndOfDirectory {
			break
		}
		if err != nil {
			return result, checkpoint.Wrap(err, ErrReadDir)
		}
		result = append(result, entry.FileInfo(f.fs.vol.blockSize))
	}

	if count > 0 && len(result) == 0 {
		return result, io.EOF
	}
	return result, nil
}

func (f *FsFile) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, checkpoint.Wrap(err, ErrReadDir)
}

func (f *FsFile) Stat() (os.FileInfo, error) {
	if f.handle == nil {
		return nil, afero.ErrFileClosed
	}
	return f.entry.FileInfo(f.fs.vol.blockSize), nil
}

// Sync flushes the device if it supports that.
func (f *FsFile) Sync() error {
	if s, ok := f.fs.vol.dev.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Truncate only accepts the current size, the capacity of a file is fixed at creation.
func (f *FsFile) Truncate(size int64) error {
	if size == f.size() {
		return nil
	}
	return checkpoint.Wrap(ErrNotSupported, ErrWriteFile)
}
