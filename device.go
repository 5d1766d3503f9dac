package atfs

import (
	"math/bits"
	"os"

	"github.com/spf13/afero"
)

// BlockDevice provides synchronous access to a fixed number of fixed size blocks.
// buf must hold at least count * BlockSize() bytes.
// Generated mock using mockgen:
//
//	mockgen -source=device.go -destination=device_mock_test.go -package atfs
type BlockDevice interface {
	BlockSize() uint32
	BlockCount() uint32
	Read(block, count uint32, buf []byte) error
	Write(block, count uint32, buf []byte) error
}

// checkTransfer validates a transfer of count blocks starting at block against the device geometry.
func checkTransfer(blockSize, blockCount, block, count uint32, buf []byte) error {
	if count > blockCount || block > blockCount-count {
		return ErrDeviceOutOfBounds
	}
	if uint64(len(buf)) < uint64(count)*uint64(blockSize) {
		return ErrDeviceBuffer
	}
	return nil
}

func validBlockSize(size uint32) bool {
	return size >= EntrySize && bits.OnesCount32(size) == 1
}

// MemDevice keeps all blocks in memory.
type MemDevice struct {
	blockSize  uint32
	blockCount uint32
	data       []byte
}

// NewMemDevice creates a zeroed in-memory device.
func NewMemDevice(blockSize, blockCount uint32) (*MemDevice, error) {
	if !validBlockSize(blockSize) {
		return nil, ErrInvalidBlockSize
	}

	return &MemDevice{
		blockSize:  blockSize,
		blockCount: blockCount,
		data:       make([]byte, int(blockSize)*int(blockCount)),
	}, nil
}

func (d *MemDevice) BlockSize() uint32  { return d.blockSize }
func (d *MemDevice) BlockCount() uint32 { return d.blockCount }

func (d *MemDevice) Read(block, count uint32, buf []byte) error {
	if err := checkTransfer(d.blockSize, d.blockCount, block, count, buf); err != nil {
		return err
	}
	off := int(block) * int(d.blockSize)
	copy(buf, d.data[off:off+int(count)*int(d.blockSize)])
	return nil
}

func (d *MemDevice) Write(block, count uint32, buf []byte) error {
	if err := checkTransfer(d.blockSize, d.blockCount, block, count, buf); err != nil {
		return err
	}
	off := int(block) * int(d.blockSize)
	copy(d.data[off:off+int(count)*int(d.blockSize)], buf)
	return nil
}

// ImageDevice stores the blocks in an image file.
// Any afero.File works, so an image may live on disk or in an afero.MemMapFs.
type ImageDevice struct {
	file       afero.File
	blockSize  uint32
	blockCount uint32
}

// NewImageDevice uses file as image. The block count is derived from the file size,
// a trailing partial block is ignored.
func NewImageDevice(file afero.File, blockSize uint32) (*ImageDevice, error) {
	if !validBlockSize(blockSize) {
		return nil, ErrInvalidBlockSize
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	count := info.Size() / int64(blockSize)
	if count > int64(^uint32(0)) {
		return nil, ErrDeviceOutOfBounds
	}

	return &ImageDevice{
		file:       file,
		blockSize:  blockSize,
		blockCount: uint32(count),
	}, nil
}

// CreateImage creates (or truncates) the image name in fs with room for blockCount blocks.
func CreateImage(fs afero.Fs, name string, blockSize, blockCount uint32) (*ImageDevice, error) {
	if !validBlockSize(blockSize) {
		return nil, ErrInvalidBlockSize
	}

	file, err := fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	if err := file.Truncate(int64(blockSize) * int64(blockCount)); err != nil {
		file.Close()
		return nil, err
	}

	return &ImageDevice{
		file:       file,
		blockSize:  blockSize,
		blockCount: blockCount,
	}, nil
}

// OpenImage opens an existing image for reading and writing.
func OpenImage(fs afero.Fs, name string, blockSize uint32) (*ImageDevice, error) {
	file, err := fs.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	dev, err := NewImageDevice(file, blockSize)
	if err != nil {
		file.Close()
		return nil, err
	}
	return dev, nil
}

func (d *ImageDevice) BlockSize() uint32  { return d.blockSize }
func (d *ImageDevice) BlockCount() uint32 { return d.blockCount }

func (d *ImageDevice) Read(block, count uint32, buf []byte) error {
	if err := checkTransfer(d.blockSize, d.blockCount, block, count, buf); err != nil {
		return err
	}
	size := int(count) * int(d.blockSize)
	_, err := d.file.ReadAt(buf[:size], int64(block)*int64(d.blockSize))
	return err
}

func (d *ImageDevice) Write(block, count uint32, buf []byte) error {
	if err := checkTransfer(d.blockSize, d.blockCount, block, count, buf); err != nil {
		return err
	}
	size := int(count) * int(d.blockSize)
	_, err := d.file.WriteAt(buf[:size], int64(block)*int64(d.blockSize))
	return err
}

// Sync flushes the image file.
func (d *ImageDevice) Sync() error {
	return d.file.Sync()
}

// Close closes the image file.
func (d *ImageDevice) Close() error {
	return d.file.Close()
}
