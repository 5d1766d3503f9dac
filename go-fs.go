package atfs

import (
	"io/fs"
	"sort"
)

// GoFs serves an ATFS volume as read only fs.FS.
// Names follow fs.ValidPath, the root is ".".
type GoFs struct {
	*Fs
}

var (
	_ fs.FS        = GoFs{}
	_ fs.StatFS    = GoFs{}
	_ fs.ReadDirFS = GoFs{}
)

// NewGoFS mounts dev and returns it as fs.FS.
func NewGoFS(dev BlockDevice, opts ...Option) (*GoFs, error) {
	vol, err := Mount(dev, opts...)
	if err != nil {
		return nil, err
	}

	return &GoFs{NewFs(vol)}, nil
}

// invalidName reports a name fs.FS does not accept as fs.ErrInvalid.
func invalidName(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, invalidName("open", name)
	}

	_, entry, err := g.Fs.lookup(name)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return goFile{newFsFile(g.Fs, name, entry, false)}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, invalidName("stat", name)
	}
	return g.Fs.Stat(name)
}

// ReadDir returns the entries of the directory name sorted by name.
func (g GoFs) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, invalidName("readdir", name)
	}

	_, entry, err := g.Fs.lookup(name)
	if err != nil {
		return nil, pathError("readdir", name, err)
	}
	if !entry.IsDir() {
		return nil, pathError("readdir", name, ErrNotDirectory)
	}

	entries, err := goFile{newFsFile(g.Fs, name, entry, false)}.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// goFile narrows an FsFile to fs.ReadDirFile.
type goFile struct {
	*FsFile
}

func (f goFile) ReadDir(n int) ([]fs.DirEntry, error) {
	infos, err := f.Readdir(n)

	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, err
}
