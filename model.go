// File model contains the structs and offsets which match the direct structures of the ATFS volume.

package atfs

import (
	"bytes"
	"encoding/binary"
)

// Signature is stored in the first four bytes of every formatted volume.
var Signature = [4]byte{'A', 'T', 'F', 'S'}

const (
	// Revision is the on-disk format revision written by Format.
	Revision = 1

	// BootBlock is the block holding the volume metadata and the head of the free list.
	BootBlock = 0

	// DefaultRootSize is the size of the root directory in blocks.
	DefaultRootSize = 4

	// EntrySize is the size of one directory entry in bytes.
	EntrySize = 64

	// MaxNameLength is the longest name that fits into a directory entry, excluding the NUL terminator.
	MaxNameLength = 54

	// Separator separates the components of a path.
	Separator = '.'
)

// Byte offsets inside the boot block.
// The free list fields are shared with every free extent header.
const (
	offsetSignature = 0
	offsetRevision  = 4
	offsetFreeNext  = 8
	offsetFreeSize  = 12
	offsetRootStart = 16
	offsetRootSize  = 20

	bootRecordSize = 24
)

// Byte offsets inside a directory entry.
const (
	offsetEntryStart = 0
	offsetEntrySize  = 4
	offsetEntryType  = 8
	offsetEntryName  = 9
)

// EntryType tells what a directory entry points to.
type EntryType uint8

const (
	TypeFree EntryType = iota
	TypeDir
	TypeFile
)

func (t EntryType) String() string {
	switch t {
	case TypeFree:
		return "free"
	case TypeDir:
		return "dir"
	case TypeFile:
		return "file"
	}
	return "unknown"
}

// Extent is a contiguous run of blocks.
type Extent struct {
	Start uint32
	Size  uint32
}

// End returns the first block after the extent.
func (e Extent) End() uint64 {
	return uint64(e.Start) + uint64(e.Size)
}

// bootRecord is the layout of the first bytes of block 0.
type bootRecord struct {
	Signature [4]byte
	Revision  uint32
	FreeNext  uint32
	FreeSize  uint32
	RootStart uint32
	RootSize  uint32
}

func (b *bootRecord) root() Extent {
	return Extent{Start: b.RootStart, Size: b.RootSize}
}

func readBootRecord(buf []byte) (bootRecord, error) {
	var rec bootRecord
	err := binary.Read(bytes.NewReader(buf[:bootRecordSize]), binary.LittleEndian, &rec)
	return rec, err
}

func (b *bootRecord) put(buf []byte) {
	copy(buf[offsetSignature:], b.Signature[:])
	WriteU32(buf, offsetRevision, b.Revision)
	WriteU32(buf, offsetFreeNext, b.FreeNext)
	WriteU32(buf, offsetFreeSize, b.FreeSize)
	WriteU32(buf, offsetRootStart, b.RootStart)
	WriteU32(buf, offsetRootSize, b.RootSize)
}

// entryRecord is the 64 byte layout of a directory entry.
type entryRecord struct {
	StartBlock uint32
	SizeBlocks uint32
	Type       uint8
	Name       [MaxNameLength + 1]byte
}

// DirEntry is a decoded directory entry.
type DirEntry struct {
	Type EntryType
	Extent
	Name string
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool {
	return e.Type == TypeDir
}

func decodeEntry(buf []byte) DirEntry {
	var rec entryRecord
	// The slice always holds a whole entry, so this cannot fail.
	_ = binary.Read(bytes.NewReader(buf[:EntrySize]), binary.LittleEndian, &rec)

	name := rec.Name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	return DirEntry{
		Type:   EntryType(rec.Type),
		Extent: Extent{Start: rec.StartBlock, Size: rec.SizeBlocks},
		Name:   string(name),
	}
}

func encodeEntry(buf []byte, e DirEntry) {
	slot := buf[:EntrySize]
	for i := range slot {
		slot[i] = 0
	}
	WriteU32(slot, offsetEntryStart, e.Start)
	WriteU32(slot, offsetEntrySize, e.Size)
	slot[offsetEntryType] = byte(e.Type)
	copy(slot[offsetEntryName:EntrySize-1], e.Name)
}

// entryName returns the raw name bytes of the entry at the start of buf without decoding the whole entry.
func entryName(buf []byte) []byte {
	name := buf[offsetEntryName:EntrySize]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		return name[:i]
	}
	return name
}
