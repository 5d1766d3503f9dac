package atfs

import "strings"

// Paths consist of components separated by a dot, e.g. "home.tim.notes".
// Each component matches [a-z_][a-z0-9_]*. The empty path is the root directory.

// Validate checks the syntax of path in a single pass.
func Validate(path string) bool {
	// A path may not start with a separator, so begin as if one was just seen.
	wasSep := true
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c == Separator:
			if wasSep {
				return false
			}
			wasSep = true
		case c >= '0' && c <= '9':
			if wasSep {
				return false
			}
		case c == '_' || (c >= 'a' && c <= 'z'):
			wasSep = false
		default:
			return false
		}
	}

	// No trailing separator, but the empty path is fine.
	return !wasSep || path == ""
}

// Join appends the components to path.
// The result is not validated.
func Join(path string, components ...string) string {
	for _, c := range components {
		if path == "" {
			path = c
			continue
		}
		path = path + string(Separator) + c
	}
	return path
}

// Parent returns path without its last component.
func Parent(path string) string {
	if i := strings.LastIndexByte(path, Separator); i >= 0 {
		return path[:i]
	}
	return ""
}

// Last returns the last component of path.
func Last(path string) string {
	return path[strings.LastIndexByte(path, Separator)+1:]
}

// First returns the first component of path.
func First(path string) string {
	if i := strings.IndexByte(path, Separator); i >= 0 {
		return path[:i]
	}
	return path
}

// Rest returns path without its first component.
func Rest(path string) string {
	if i := strings.IndexByte(path, Separator); i >= 0 {
		return path[i+1:]
	}
	return ""
}

// Location is the result of a traversal: the directory holding the last
// component of a path and the name of that component.
type Location struct {
	Parent Extent
	Name   string
}

func (l Location) isRoot() bool {
	return l.Name == ""
}

// Traverse walks every component of path except the last one, starting at the root directory.
// The last component is not looked up, it does not need to exist.
// path has to be valid already.
func (v *Volume) Traverse(path string) (Location, error) {
	dir, err := v.Root()
	if err != nil {
		return Location{}, err
	}

	rest := path
	for {
		i := strings.IndexByte(rest, Separator)
		if i < 0 {
			break
		}

		entry, err := v.FindEntry(dir, rest[:i])
		if err != nil {
			return Location{}, err
		}
		if entry.Type != TypeDir {
			return Location{}, ErrNotFound
		}

		dir = entry.Extent
		rest = rest[i+1:]
	}

	return Location{Parent: dir, Name: rest}, nil
}

// locate validates path and traverses to its parent directory.
func (v *Volume) locate(path string) (Location, error) {
	if !Validate(path) {
		return Location{}, ErrPathFormatInvalid
	}
	return v.Traverse(path)
}
