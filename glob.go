package atfs

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Glob returns every path below the root directory matching pattern, in walk order.
// Components are separated by dots: "*" stays inside one component, "**" crosses
// components. Character classes "[a-c]" and alternatives "{a,b}" work as well.
func (v *Volume) Glob(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, Separator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	var matches []string
	err = v.Walk("", func(path string, _ DirEntry) error {
		if path != "" && g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}
