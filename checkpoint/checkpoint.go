// Package checkpoint decorates errors with the place they passed through, which
// adds up to something similar to a stacktrace over the error chain.
// Both the wrapped cause and the describing error of a checkpoint stay reachable
// through errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From marks the caller's position on err.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil || passthrough(err) {
		return err
	}
	return newCheckpoint(err, nil)
}

// Wrap marks the caller's position on prev and describes it with err.
// It returns nil if prev is nil, so it can be used directly on a return value:
//
//	return checkpoint.Wrap(dev.Read(block, 1, buf), ErrReadBlock)
//
// errors.Is matches both prev and err afterwards.
func Wrap(prev, err error) error {
	if prev == nil || passthrough(prev) {
		return prev
	}
	return newCheckpoint(prev, err)
}

// passthrough reports errors that callers compare with == and which therefore must never be wrapped.
// https://github.com/golang/go/issues/39155
func passthrough(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and From/Wrap.
	_, file, line, ok := runtime.Caller(2)
	c := &checkpoint{
		err:  err,
		prev: prev,
	}
	if ok {
		c.location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return c
}

type checkpoint struct {
	err  error
	prev error

	// location is empty if the caller could not be determined.
	location string
}

func (c *checkpoint) Error() string {
	location := c.location
	if location == "" {
		location = "unknown"
	}

	var b strings.Builder
	b.WriteString("File: ")
	b.WriteString(location)
	if c.err != nil {
		b.WriteString("\n\t")
		b.WriteString(c.err.Error())
	}

	b.WriteString("\n")
	if _, ok := c.prev.(*checkpoint); ok {
		b.WriteString(c.prev.Error())
	} else {
		b.WriteString("File: unknown\n\t")
		b.WriteString(strings.ReplaceAll(c.prev.Error(), "\n", "\n\t"))
	}
	return b.String()
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
