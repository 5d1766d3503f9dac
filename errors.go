package atfs

import "errors"

// These errors may occur while operating on a volume.
// Device errors are never translated into one of these, they are returned as the device reported them.
var (
	ErrNotFound          = errors.New("no such file or directory")
	ErrNoSpace           = errors.New("no space left on device")
	ErrPathFormatInvalid = errors.New("path format invalid")
	ErrDirectoryFull     = errors.New("directory is full")
	ErrOutOfBounds       = errors.New("access out of file bounds")
	ErrNotImplemented    = errors.New("not implemented")

	// ErrEndOfDirectory ends the iteration of a directory. It is no failure.
	ErrEndOfDirectory = errors.New("end of directory")

	ErrExists            = errors.New("file exists")
	ErrNotDirectory      = errors.New("not a directory")
	ErrIsDirectory       = errors.New("is a directory")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	ErrNameTooLong       = errors.New("file name too long")
	ErrInvalidSize       = errors.New("invalid size")
	ErrRootOperation     = errors.New("operation not permitted on the root directory")
	ErrInvalidMove       = errors.New("cannot move a directory into itself")
	ErrTooDeep           = errors.New("directory nesting too deep")
	ErrNotSupported      = errors.New("operation not supported")
	ErrInvalidPattern    = errors.New("invalid glob pattern")

	ErrInvalidSignature    = errors.New("no ATFS signature in boot block")
	ErrUnsupportedRevision = errors.New("unsupported ATFS revision")
	ErrInvalidBlockSize    = errors.New("invalid block size")
)

// Device errors.
var (
	ErrDeviceOutOfBounds = errors.New("out of bounds access")
	ErrDeviceBuffer      = errors.New("buffer too small for block transfer")
)
