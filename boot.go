package atfs

import "log/slog"

// Format writes an empty ATFS volume to dev and mounts it.
//
// Block 0 receives the boot block, the root directory follows it and everything
// behind the root directory becomes one single free extent.
// A failed write is not rolled back, format the device again.
func Format(dev BlockDevice, opts ...Option) (*Volume, error) {
	c := newConfig(opts)
	v, err := newVolume(dev, c)
	if err != nil {
		return nil, err
	}

	if c.rootSize == 0 {
		return nil, ErrInvalidSize
	}

	// The boot block, the root directory and at least one free block.
	if uint64(v.blockCount) < uint64(c.rootSize)+2 {
		return nil, ErrNoSpace
	}

	freeStart := c.rootSize + 1
	freeSize := v.blockCount - c.rootSize - 1

	buf := v.block()
	defer v.release(buf)

	zero(buf)
	boot := bootRecord{
		Signature: Signature,
		Revision:  Revision,
		FreeNext:  freeStart,
		FreeSize:  0,
		RootStart: 1,
		RootSize:  c.rootSize,
	}
	boot.put(buf)
	if err := dev.Write(BootBlock, 1, buf); err != nil {
		return nil, err
	}

	root := make([]byte, int(c.rootSize)*int(v.blockSize))
	if err := dev.Write(1, c.rootSize, root); err != nil {
		return nil, err
	}

	zero(buf)
	WriteU32(buf, offsetFreeNext, 0)
	WriteU32(buf, offsetFreeSize, freeSize)
	if err := dev.Write(freeStart, 1, buf); err != nil {
		return nil, err
	}

	v.log.Info("formatted volume",
		slog.Uint64("blockSize", uint64(v.blockSize)),
		slog.Uint64("blockCount", uint64(v.blockCount)),
		slog.Uint64("rootSize", uint64(c.rootSize)),
		slog.Uint64("freeBlocks", uint64(freeSize)))

	return v, nil
}

func (v *Volume) readBoot() (bootRecord, error) {
	buf := v.block()
	defer v.release(buf)

	if err := v.dev.Read(BootBlock, 1, buf); err != nil {
		return bootRecord{}, err
	}
	return readBootRecord(buf)
}
