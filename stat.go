package atfs

import (
	"os"
	"time"
)

// FileInfo returns the entry as os.FileInfo. blockSize converts the extent into a byte size.
// The name used is the entry name, the root directory is called "/".
func (e DirEntry) FileInfo(blockSize uint32) os.FileInfo {
	return entryFileInfo{
		entry: e,
		size:  int64(e.Size) * int64(blockSize),
	}
}

type entryFileInfo struct {
	entry DirEntry
	size  int64
}

func (e entryFileInfo) Name() string {
	if e.entry.Name == "" {
		return "/"
	}
	return e.entry.Name
}

// Size is the capacity of the extent. ATFS does not store how much of it is used.
func (e entryFileInfo) Size() int64 {
	return e.size
}

func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0755
	}
	return 0644
}

// ModTime is always the zero time, ATFS keeps no timestamps.
func (e entryFileInfo) ModTime() time.Time {
	return time.Time{}
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
