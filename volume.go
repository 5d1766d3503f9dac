package atfs

import (
	"log/slog"
	"math/bits"
)

// Volume is a mounted ATFS volume.
//
// A Volume expects exactly one operation in flight at a time.
// Callers sharing a volume between goroutines have to serialize the calls themselves.
type Volume struct {
	dev BlockDevice

	blockSize  uint32
	blockCount uint32
	blockShift uint32

	// scratch holds block sized buffers for reuse. Buffers are never kept across calls.
	scratch [][]byte

	log      *slog.Logger
	maxDepth int
}

// VolumeInfo describes the state of a volume.
type VolumeInfo struct {
	Revision    uint32
	BlockSize   uint32
	BlockCount  uint32
	Root        Extent
	FreeBlocks  uint64
	FreeExtents int
}

func newVolume(dev BlockDevice, c *config) (*Volume, error) {
	size := dev.BlockSize()
	if !validBlockSize(size) {
		return nil, ErrInvalidBlockSize
	}

	return &Volume{
		dev:        dev,
		blockSize:  size,
		blockCount: dev.BlockCount(),
		blockShift: uint32(bits.TrailingZeros32(size)),
		log:        c.logger,
		maxDepth:   c.maxDepth,
	}, nil
}

// Mount opens an already formatted volume.
func Mount(dev BlockDevice, opts ...Option) (*Volume, error) {
	v, err := newVolume(dev, newConfig(opts))
	if err != nil {
		return nil, err
	}

	boot, err := v.readBoot()
	if err != nil {
		return nil, err
	}

	if boot.Signature != Signature {
		return nil, ErrInvalidSignature
	}

	if boot.Revision != Revision {
		return nil, ErrUnsupportedRevision
	}

	v.log.Info("mounted volume",
		slog.Uint64("blockSize", uint64(v.blockSize)),
		slog.Uint64("blockCount", uint64(v.blockCount)),
		slog.Uint64("rootStart", uint64(boot.RootStart)),
		slog.Uint64("rootSize", uint64(boot.RootSize)))

	return v, nil
}

// Device returns the device the volume lives on.
func (v *Volume) Device() BlockDevice {
	return v.dev
}

// BlockSize returns the size of one block in bytes.
func (v *Volume) BlockSize() uint32 {
	return v.blockSize
}

// BlockSizePOT returns log2 of the block size.
func (v *Volume) BlockSizePOT() uint32 {
	return v.blockShift
}

// Root returns the extent of the root directory.
func (v *Volume) Root() (Extent, error) {
	boot, err := v.readBoot()
	if err != nil {
		return Extent{}, err
	}
	return boot.root(), nil
}

// Stat summarizes the volume by walking the free list.
func (v *Volume) Stat() (VolumeInfo, error) {
	boot, err := v.readBoot()
	if err != nil {
		return VolumeInfo{}, err
	}

	extents, err := v.FreeExtents()
	if err != nil {
		return VolumeInfo{}, err
	}

	info := VolumeInfo{
		Revision:    boot.Revision,
		BlockSize:   v.blockSize,
		BlockCount:  v.blockCount,
		Root:        boot.root(),
		FreeExtents: len(extents),
	}
	for _, e := range extents {
		info.FreeBlocks += uint64(e.Size)
	}
	return info, nil
}

func (v *Volume) block() []byte {
	if n := len(v.scratch); n > 0 {
		buf := v.scratch[n-1]
		v.scratch = v.scratch[:n-1]
		return buf
	}
	return make([]byte, v.blockSize)
}

func (v *Volume) release(buf []byte) {
	v.scratch = append(v.scratch, buf)
}

func zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
