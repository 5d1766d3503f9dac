package atfs

import "encoding/binary"

// ReadU32 reads a little endian uint32 at offset. There is no alignment requirement.
func ReadU32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset:])
}

// WriteU32 writes v as little endian uint32 at offset.
func WriteU32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], v)
}
