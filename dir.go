package atfs

import (
	"bytes"
	"log/slog"
)

// A directory is a file packed with EntrySize byte slots.
// Its capacity follows from its size: SizeBlocks * BlockSize / EntrySize slots.

// errStopScan ends a scan early without being an error.
type errStopScan struct{}

func (errStopScan) Error() string { return "stop scan" }

// scan calls fn for every slot in dir, free ones included.
// fn may modify slot and return dirty to get the block written back.
func (v *Volume) scan(dir Extent, fn func(block uint32, slot []byte) (dirty bool, err error)) error {
	buf := v.block()
	defer v.release(buf)

	for i := uint32(0); i < dir.Size; i++ {
		block := dir.Start + i
		if err := v.dev.Read(block, 1, buf); err != nil {
			return err
		}

		for off := uint32(0); off+EntrySize <= v.blockSize; off += EntrySize {
			dirty, err := fn(block, buf[off:off+EntrySize])
			if dirty {
				if werr := v.dev.Write(block, 1, buf); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Capacity returns the number of entry slots a directory of the given extent has.
func (v *Volume) Capacity(dir Extent) uint64 {
	return (uint64(dir.Size) << v.blockShift) / EntrySize
}

// FindEntry returns the used entry called name in dir.
func (v *Volume) FindEntry(dir Extent, name string) (DirEntry, error) {
	var found DirEntry
	err := v.scan(dir, func(_ uint32, slot []byte) (bool, error) {
		if EntryType(slot[offsetEntryType]) == TypeFree || !bytes.Equal(entryName(slot), []byte(name)) {
			return false, nil
		}
		found = decodeEntry(slot)
		return false, errStopScan{}
	})

	switch err.(type) {
	case errStopScan:
		return found, nil
	case nil:
		return DirEntry{}, ErrNotFound
	default:
		return DirEntry{}, err
	}
}

// InsertEntry stores entry in dir.
// An used slot with the same name is overwritten in place, even if the type differs.
// Otherwise the first free slot is used.
func (v *Volume) InsertEntry(dir Extent, entry DirEntry) error {
	if entry.Name == "" {
		return ErrPathFormatInvalid
	}
	if len(entry.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	var (
		freeFound bool
		freeBlock uint32
		freeSlot  int
		slotIndex int
		name      = []byte(entry.Name)
	)

	err := v.scan(dir, func(block uint32, slot []byte) (bool, error) {
		defer func() { slotIndex++ }()

		if EntryType(slot[offsetEntryType]) == TypeFree {
			if !freeFound {
				freeFound, freeBlock, freeSlot = true, block, slotIndex
			}
			return false, nil
		}

		if bytes.Equal(entryName(slot), name) {
			encodeEntry(slot, entry)
			return true, errStopScan{}
		}
		return false, nil
	})

	switch err.(type) {
	case errStopScan:
		v.log.Debug("replaced directory entry", slog.String("name", entry.Name), slog.Uint64("dir", uint64(dir.Start)))
		return nil
	case nil:
	default:
		return err
	}

	if !freeFound {
		return ErrDirectoryFull
	}

	buf := v.block()
	defer v.release(buf)

	if err := v.dev.Read(freeBlock, 1, buf); err != nil {
		return err
	}
	off := (freeSlot * EntrySize) % int(v.blockSize)
	encodeEntry(buf[off:], entry)
	if err := v.dev.Write(freeBlock, 1, buf); err != nil {
		return err
	}

	v.log.Debug("inserted directory entry", slog.String("name", entry.Name), slog.Uint64("dir", uint64(dir.Start)))
	return nil
}

// DeleteEntryByName clears the used entry called name in dir and returns what it contained.
// The extent of the entry stays allocated, the caller has to Free it.
func (v *Volume) DeleteEntryByName(dir Extent, name string) (DirEntry, error) {
	var removed DirEntry
	err := v.scan(dir, func(_ uint32, slot []byte) (bool, error) {
		if EntryType(slot[offsetEntryType]) == TypeFree || !bytes.Equal(entryName(slot), []byte(name)) {
			return false, nil
		}
		removed = decodeEntry(slot)
		zero(slot)
		return true, errStopScan{}
	})

	switch err.(type) {
	case errStopScan:
		v.log.Debug("deleted directory entry", slog.String("name", name), slog.Uint64("dir", uint64(dir.Start)))
		return removed, nil
	case nil:
		return DirEntry{}, ErrNotFound
	default:
		return DirEntry{}, err
	}
}

// isEmptyDir reports whether dir has no used slots.
func (v *Volume) isEmptyDir(dir Extent) (bool, error) {
	err := v.scan(dir, func(_ uint32, slot []byte) (bool, error) {
		if EntryType(slot[offsetEntryType]) != TypeFree {
			return false, errStopScan{}
		}
		return false, nil
	})

	switch err.(type) {
	case errStopScan:
		return false, nil
	case nil:
		return true, nil
	default:
		return false, err
	}
}

// Dir iterates over the used entries of a directory.
// The cursor is not persisted and becomes stale if the directory changes underneath.
type Dir struct {
	File

	block  uint32
	offset uint32
}

// ReadNext returns the next used entry.
// After the last entry it returns ErrEndOfDirectory.
func (d *Dir) ReadNext() (DirEntry, error) {
	v := d.vol
	buf := v.block()
	defer v.release(buf)

	for d.block < d.Size {
		if err := v.dev.Read(d.Start+d.block, 1, buf); err != nil {
			return DirEntry{}, err
		}

		for d.offset+EntrySize <= v.blockSize {
			slot := buf[d.offset : d.offset+EntrySize]
			d.offset += EntrySize
			if EntryType(slot[offsetEntryType]) != TypeFree {
				return decodeEntry(slot), nil
			}
		}

		d.block++
		d.offset = 0
	}

	return DirEntry{}, ErrEndOfDirectory
}

// Rewind moves the cursor back to the first slot.
func (d *Dir) Rewind() {
	d.block = 0
	d.offset = 0
}

// ReadAll returns all remaining used entries.
func (d *Dir) ReadAll() ([]DirEntry, error) {
	var entries []DirEntry
	for {
		entry, err := d.ReadNext()
		if err == ErrEndOfDirectory {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
}
