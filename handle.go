package atfs

// File is a handle to the contiguous extent of a file or directory.
// It owns nothing on disk and becomes stale if the entry is deleted, moved or recreated.
type File struct {
	vol *Volume
	Extent
	Type EntryType
}

// Device returns the device the file lives on.
func (f *File) Device() BlockDevice {
	return f.vol.dev
}

// Volume returns the volume the file lives on.
func (f *File) Volume() *Volume {
	return f.vol
}

// checkBounds fails unless [block, block+count) lies inside the file.
func (f *File) checkBounds(block, count uint32) error {
	// Written without block+count so that it cannot overflow.
	if count > f.Size || block > f.Size-count {
		return ErrOutOfBounds
	}
	return nil
}

// Read reads count blocks starting at the file relative block into buf.
func (f *File) Read(block, count uint32, buf []byte) error {
	if err := f.checkBounds(block, count); err != nil {
		return err
	}
	return f.vol.dev.Read(f.Start+block, count, buf)
}

// Write writes count blocks from buf starting at the file relative block.
func (f *File) Write(block, count uint32, buf []byte) error {
	if err := f.checkBounds(block, count); err != nil {
		return err
	}
	return f.vol.dev.Write(f.Start+block, count, buf)
}
