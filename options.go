package atfs

import (
	"io"
	"log/slog"
)

// DefaultMaxDepth limits how deep Walk and recursive operations descend.
const DefaultMaxDepth = 64

// config holds the settings of a volume.
type config struct {
	logger   *slog.Logger
	rootSize uint32
	maxDepth int
}

func newConfig(opts []Option) *config {
	c := &config{
		rootSize: DefaultRootSize,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Option configures a Volume.
type Option func(*config)

// WithLogger sets the logger used by the volume. Without it nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRootSize sets the size of the root directory in blocks. It is only used by Format.
func WithRootSize(blocks uint32) Option {
	return func(c *config) {
		c.rootSize = blocks
	}
}

// WithMaxDepth limits the directory nesting Walk, Delete and Copy accept.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}
