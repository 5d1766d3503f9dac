package atfs

import "io/fs"

// WalkFunc is called by Walk for every entry. The root directory is passed with an empty name.
// Returning fs.SkipDir for a directory skips its content, for a file it skips the remaining entries of its directory.
type WalkFunc func(path string, entry DirEntry) error

// walkFrame is one open directory on the walk stack.
type walkFrame struct {
	dir  *Dir
	path string
}

// Walk visits path and everything below it depth first, in slot order.
// It uses an explicit stack of directory cursors which may grow up to the configured maximum depth.
func (v *Volume) Walk(path string, fn WalkFunc) error {
	entry, err := v.Lookup(path)
	if err != nil {
		return err
	}

	if err := fn(path, entry); err != nil {
		if err == fs.SkipDir {
			return nil
		}
		return err
	}
	if !entry.IsDir() {
		return nil
	}

	stack := []walkFrame{{dir: v.dirOf(entry.Extent), path: path}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		child, err := top.dir.ReadNext()
		if err == ErrEndOfDirectory {
			stack = stack[:len(stack)-1]
			continue
		}
		if err != nil {
			return err
		}

		childPath := Join(top.path, child.Name)
		if err := fn(childPath, child); err != nil {
			if err != fs.SkipDir {
				return err
			}
			// SkipDir on a file skips the rest of its directory.
			if !child.IsDir() {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if child.IsDir() {
			if len(stack) >= v.maxDepth {
				return ErrTooDeep
			}
			stack = append(stack, walkFrame{dir: v.dirOf(child.Extent), path: childPath})
		}
	}

	return nil
}
