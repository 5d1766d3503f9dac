package atfs

import (
	"log/slog"
	"strings"
)

// Lookup returns the entry path points to.
// The root directory is returned as an unnamed directory entry.
func (v *Volume) Lookup(path string) (DirEntry, error) {
	loc, err := v.locate(path)
	if err != nil {
		return DirEntry{}, err
	}

	if loc.isRoot() {
		return DirEntry{Type: TypeDir, Extent: loc.Parent}, nil
	}
	return v.FindEntry(loc.Parent, loc.Name)
}

// Open returns a handle to the file or directory at path.
func (v *Volume) Open(path string) (*File, error) {
	entry, err := v.Lookup(path)
	if err != nil {
		return nil, err
	}
	return &File{vol: v, Extent: entry.Extent, Type: entry.Type}, nil
}

// OpenDir returns an iterator over the directory at path.
func (v *Volume) OpenDir(path string) (*Dir, error) {
	entry, err := v.Lookup(path)
	if err != nil {
		return nil, err
	}
	if !entry.IsDir() {
		return nil, ErrNotDirectory
	}
	return v.dirOf(entry.Extent), nil
}

func (v *Volume) dirOf(ext Extent) *Dir {
	return &Dir{File: File{vol: v, Extent: ext, Type: TypeDir}}
}

// Create reserves size blocks and adds an entry of the given type at path.
//
// An existing entry with the same name is replaced. Its old extent, and for a
// directory everything below it, is released afterwards.
// New directories are zeroed, file contents are left as they are.
// If the entry cannot be inserted the reserved blocks are freed again.
func (v *Volume) Create(path string, typ EntryType, size uint32) error {
	if typ != TypeDir && typ != TypeFile {
		return ErrNotSupported
	}

	loc, err := v.locate(path)
	if err != nil {
		return err
	}
	if loc.isRoot() {
		return ErrRootOperation
	}
	if len(loc.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	old, err := v.FindEntry(loc.Parent, loc.Name)
	replaced := err == nil
	if err != nil && err != ErrNotFound {
		return err
	}

	start, err := v.Alloc(size)
	if err != nil {
		return err
	}

	entry := DirEntry{Type: typ, Extent: Extent{Start: start, Size: size}, Name: loc.Name}

	if typ == TypeDir {
		err = v.zeroExtent(entry.Extent)
	}
	if err == nil {
		err = v.InsertEntry(loc.Parent, entry)
	}
	if err != nil {
		v.undoAlloc(entry.Extent)
		return err
	}

	v.log.Debug("created entry",
		slog.String("path", path),
		slog.String("type", typ.String()),
		slog.Uint64("start", uint64(start)),
		slog.Uint64("size", uint64(size)))

	if replaced {
		return v.releaseTree(old, 0)
	}
	return nil
}

// undoAlloc frees a just allocated extent after a later step failed.
func (v *Volume) undoAlloc(ext Extent) {
	if err := v.Free(ext.Start, ext.Size); err != nil {
		v.log.Warn("could not release extent, blocks are leaked",
			slog.Uint64("start", uint64(ext.Start)),
			slog.Uint64("size", uint64(ext.Size)),
			slog.String("err", err.Error()))
	}
}

// Delete removes the entry at path. Directories are deleted recursively, depth first.
// Every child is unlinked from its directory before its blocks are freed, so an
// aborted delete may leak blocks but never leaves an entry pointing to free space.
func (v *Volume) Delete(path string) error {
	loc, err := v.locate(path)
	if err != nil {
		return err
	}
	if loc.isRoot() {
		return ErrRootOperation
	}

	entry, err := v.FindEntry(loc.Parent, loc.Name)
	if err != nil {
		return err
	}

	if err := v.deleteEntry(loc.Parent, entry, 0); err != nil {
		return err
	}

	v.log.Debug("deleted entry", slog.String("path", path))
	return nil
}

func (v *Volume) deleteEntry(parent Extent, entry DirEntry, depth int) error {
	if entry.IsDir() {
		if err := v.clearDir(entry.Extent, depth+1); err != nil {
			return err
		}
	}

	if _, err := v.DeleteEntryByName(parent, entry.Name); err != nil {
		return err
	}
	return v.Free(entry.Start, entry.Size)
}

// clearDir deletes every entry of dir.
func (v *Volume) clearDir(dir Extent, depth int) error {
	if depth > v.maxDepth {
		return ErrTooDeep
	}

	d := v.dirOf(dir)
	for {
		child, err := d.ReadNext()
		if err == ErrEndOfDirectory {
			return nil
		}
		if err != nil {
			return err
		}

		if err := v.deleteEntry(dir, child, depth); err != nil {
			return err
		}
	}
}

// releaseTree frees an entry which is no longer linked from any directory.
func (v *Volume) releaseTree(entry DirEntry, depth int) error {
	if entry.IsDir() {
		if err := v.clearDir(entry.Extent, depth+1); err != nil {
			return err
		}
	}
	return v.Free(entry.Start, entry.Size)
}

// Move relinks the entry at src under dst. No file data is copied.
// dst must not exist yet. If src cannot be unlinked, the new link is removed again.
func (v *Volume) Move(dst, src string) error {
	srcLoc, err := v.locate(src)
	if err != nil {
		return err
	}
	dstLoc, err := v.locate(dst)
	if err != nil {
		return err
	}
	if srcLoc.isRoot() || dstLoc.isRoot() {
		return ErrRootOperation
	}
	if len(dstLoc.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	entry, err := v.FindEntry(srcLoc.Parent, srcLoc.Name)
	if err != nil {
		return err
	}
	if entry.IsDir() && isWithin(dst, src) {
		return ErrInvalidMove
	}

	if err := v.ensureAbsent(dstLoc); err != nil {
		return err
	}

	moved := entry
	moved.Name = dstLoc.Name
	if err := v.InsertEntry(dstLoc.Parent, moved); err != nil {
		return err
	}

	if _, err := v.DeleteEntryByName(srcLoc.Parent, srcLoc.Name); err != nil {
		if _, undoErr := v.DeleteEntryByName(dstLoc.Parent, dstLoc.Name); undoErr != nil {
			v.log.Warn("entry is linked twice after failed move",
				slog.String("src", src),
				slog.String("dst", dst),
				slog.String("err", undoErr.Error()))
		}
		return err
	}

	v.log.Debug("moved entry", slog.String("src", src), slog.String("dst", dst))
	return nil
}

// isWithin reports whether path is dir itself or lies below it.
func isWithin(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(Separator))
}

func (v *Volume) ensureAbsent(loc Location) error {
	_, err := v.FindEntry(loc.Parent, loc.Name)
	switch err {
	case nil:
		return ErrExists
	case ErrNotFound:
		return nil
	default:
		return err
	}
}

// Copy duplicates the entry at src, recursively for directories, into fresh extents at dst.
// dst must not exist yet. On failure everything allocated for the copy is released.
func (v *Volume) Copy(dst, src string) error {
	srcLoc, err := v.locate(src)
	if err != nil {
		return err
	}
	dstLoc, err := v.locate(dst)
	if err != nil {
		return err
	}
	if srcLoc.isRoot() || dstLoc.isRoot() {
		return ErrRootOperation
	}
	if len(dstLoc.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	entry, err := v.FindEntry(srcLoc.Parent, srcLoc.Name)
	if err != nil {
		return err
	}
	if entry.IsDir() && isWithin(dst, src) {
		return ErrInvalidMove
	}

	if err := v.ensureAbsent(dstLoc); err != nil {
		return err
	}

	dup, err := v.copyTree(entry, 0)
	if err != nil {
		return err
	}

	dup.Name = dstLoc.Name
	if err := v.InsertEntry(dstLoc.Parent, dup); err != nil {
		v.undoTree(dup, 0)
		return err
	}

	v.log.Debug("copied entry", slog.String("src", src), slog.String("dst", dst))
	return nil
}

// copyTree allocates a new extent for entry and fills it with a copy of its content.
// The returned entry is not linked anywhere yet.
func (v *Volume) copyTree(entry DirEntry, depth int) (DirEntry, error) {
	if depth > v.maxDepth {
		return DirEntry{}, ErrTooDeep
	}

	start, err := v.Alloc(entry.Size)
	if err != nil {
		return DirEntry{}, err
	}

	dup := entry
	dup.Start = start

	if !entry.IsDir() {
		if err := v.copyBlocks(dup.Extent, entry.Extent); err != nil {
			v.undoAlloc(dup.Extent)
			return DirEntry{}, err
		}
		return dup, nil
	}

	if err := v.zeroExtent(dup.Extent); err != nil {
		v.undoAlloc(dup.Extent)
		return DirEntry{}, err
	}

	if err := v.copyChildren(dup.Extent, entry.Extent, depth); err != nil {
		v.undoTree(dup, depth)
		return DirEntry{}, err
	}
	return dup, nil
}

func (v *Volume) copyChildren(dst, src Extent, depth int) error {
	d := v.dirOf(src)
	for {
		child, err := d.ReadNext()
		if err == ErrEndOfDirectory {
			return nil
		}
		if err != nil {
			return err
		}

		dup, err := v.copyTree(child, depth+1)
		if err != nil {
			return err
		}
		if err := v.InsertEntry(dst, dup); err != nil {
			v.undoTree(dup, depth+1)
			return err
		}
	}
}

func (v *Volume) undoTree(entry DirEntry, depth int) {
	if err := v.releaseTree(entry, depth); err != nil {
		v.log.Warn("could not release copy", slog.String("name", entry.Name), slog.String("err", err.Error()))
	}
}

func (v *Volume) copyBlocks(dst, src Extent) error {
	buf := v.block()
	defer v.release(buf)

	for i := uint32(0); i < src.Size; i++ {
		if err := v.dev.Read(src.Start+i, 1, buf); err != nil {
			return err
		}
		if err := v.dev.Write(dst.Start+i, 1, buf); err != nil {
			return err
		}
	}
	return nil
}

func (v *Volume) zeroExtent(ext Extent) error {
	buf := v.block()
	defer v.release(buf)

	zero(buf)
	for i := uint32(0); i < ext.Size; i++ {
		if err := v.dev.Write(ext.Start+i, 1, buf); err != nil {
			return err
		}
	}
	return nil
}
