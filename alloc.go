package atfs

import "log/slog"

// The free list is threaded through the first block of every free extent.
// Block 0 is the head node: its FreeNext field points to the first free extent
// and its FreeSize is always 0. The list is ordered by ascending start block.

// writeLink stores next and size in the free header of block.
// The boot block only gets its FreeNext field replaced, everything else in it is kept.
func (v *Volume) writeLink(block, next, size uint32) error {
	buf := v.block()
	defer v.release(buf)

	if block == BootBlock {
		if err := v.dev.Read(BootBlock, 1, buf); err != nil {
			return err
		}
		WriteU32(buf, offsetFreeNext, next)
	} else {
		zero(buf)
		WriteU32(buf, offsetFreeNext, next)
		WriteU32(buf, offsetFreeSize, size)
	}

	return v.dev.Write(block, 1, buf)
}

// readLink returns the free header of block.
func (v *Volume) readLink(block uint32) (next, size uint32, err error) {
	buf := v.block()
	defer v.release(buf)

	if err := v.dev.Read(block, 1, buf); err != nil {
		return 0, 0, err
	}
	return ReadU32(buf, offsetFreeNext), ReadU32(buf, offsetFreeSize), nil
}

// Alloc reserves count contiguous blocks and returns the first one.
// The first free extent which is large enough is used.
func (v *Volume) Alloc(count uint32) (uint32, error) {
	if count == 0 {
		return 0, ErrInvalidSize
	}

	prev := uint32(BootBlock)
	prevSize := uint32(0)
	cur, _, err := v.readLink(BootBlock)
	if err != nil {
		return 0, err
	}

	// The list can never have more nodes than the device has blocks.
	for n := uint32(0); cur != 0 && n < v.blockCount; n++ {
		next, size, err := v.readLink(cur)
		if err != nil {
			return 0, err
		}

		if size < count {
			prev, prevSize, cur = cur, size, next
			continue
		}

		if size == count {
			err = v.writeLink(prev, next, prevSize)
		} else {
			tail := cur + count
			if err := v.writeLink(tail, next, size-count); err != nil {
				return 0, err
			}
			err = v.writeLink(prev, tail, prevSize)
		}
		if err != nil {
			return 0, err
		}

		v.log.Debug("allocated extent",
			slog.Uint64("start", uint64(cur)),
			slog.Uint64("count", uint64(count)),
			slog.Uint64("extentSize", uint64(size)))
		return cur, nil
	}

	return 0, ErrNoSpace
}

// Free returns count blocks starting at block to the free list and merges
// them with directly adjacent free extents.
// Only ranges previously returned by Alloc may be freed, overlapping a free extent corrupts the list.
func (v *Volume) Free(block, count uint32) error {
	if count == 0 {
		return ErrInvalidSize
	}
	if block == BootBlock || uint64(block)+uint64(count) > uint64(v.blockCount) {
		return ErrOutOfBounds
	}

	prev := uint32(BootBlock)
	prevSize := uint32(0)
	next, _, err := v.readLink(BootBlock)
	if err != nil {
		return err
	}

	for n := uint32(0); next != 0 && next <= block && n < v.blockCount; n++ {
		after, size, err := v.readLink(next)
		if err != nil {
			return err
		}
		prev, prevSize, next = next, size, after
	}

	var nextNext, nextSize uint32
	if next != 0 {
		nextNext, nextSize, err = v.readLink(next)
		if err != nil {
			return err
		}
	}

	mergePrev := prev != BootBlock && uint64(prev)+uint64(prevSize) == uint64(block)
	mergeNext := next != 0 && uint64(block)+uint64(count) == uint64(next)

	switch {
	case mergePrev && mergeNext:
		err = v.writeLink(prev, nextNext, prevSize+count+nextSize)
	case mergePrev:
		err = v.writeLink(prev, next, prevSize+count)
	case mergeNext:
		if err = v.writeLink(block, nextNext, count+nextSize); err == nil {
			err = v.writeLink(prev, block, prevSize)
		}
	default:
		if err = v.writeLink(block, next, count); err == nil {
			err = v.writeLink(prev, block, prevSize)
		}
	}
	if err != nil {
		return err
	}

	v.log.Debug("freed extent",
		slog.Uint64("start", uint64(block)),
		slog.Uint64("count", uint64(count)),
		slog.Bool("mergePrev", mergePrev),
		slog.Bool("mergeNext", mergeNext))
	return nil
}

// FreeExtents returns the free list in list order.
func (v *Volume) FreeExtents() ([]Extent, error) {
	var extents []Extent

	cur, _, err := v.readLink(BootBlock)
	if err != nil {
		return nil, err
	}

	for n := uint32(0); cur != 0 && n < v.blockCount; n++ {
		next, size, err := v.readLink(cur)
		if err != nil {
			return nil, err
		}
		extents = append(extents, Extent{Start: cur, Size: size})
		cur = next
	}

	return extents, nil
}
