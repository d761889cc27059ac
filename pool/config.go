package pool

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/poolkit/internal/align"
	"github.com/joshuapare/poolkit/pool/sysmem"
)

// Config defines the size class layout and refill policy of a Pool.
type Config struct {
	// Name for this configuration (for reports)
	Name string

	Alignment     int // Class width step; a power of two, at least one machine word
	MaxPooledSize int // Largest pooled request; larger sizes go to the system allocator
	RefillBatch   int // Blocks requested from the current chunk when a free list is empty
}

// Predefined configurations.
var (
	// Classic: 16 classes of 8..128 bytes, refilled 16 blocks at a time.
	ConfigClassic = Config{
		Name:          "Classic",
		Alignment:     8,
		MaxPooledSize: 128,
		RefillBatch:   16,
	}

	// Compact: 8 classes of 8..64 bytes with small refills, for tight footprints.
	ConfigCompact = Config{
		Name:          "Compact",
		Alignment:     8,
		MaxPooledSize: 64,
		RefillBatch:   8,
	}

	// Wide: 16 classes of 16..256 bytes with large refills.
	ConfigWide = Config{
		Name:          "Wide",
		Alignment:     16,
		MaxPooledSize: 256,
		RefillBatch:   32,
	}

	// Default configuration (used if none specified).
	DefaultConfig = ConfigClassic
)

// Validate reports whether the pool can operate with c.
func (c Config) Validate() error {
	switch {
	case !align.IsPow2(c.Alignment):
		return fmt.Errorf("%w: alignment %d is not a power of two", ErrBadConfig, c.Alignment)
	case c.Alignment < wordSize:
		return fmt.Errorf("%w: alignment %d is smaller than a free-list link (%d bytes)",
			ErrBadConfig, c.Alignment, wordSize)
	case c.MaxPooledSize <= 0 || c.MaxPooledSize%c.Alignment != 0:
		return fmt.Errorf("%w: max pooled size %d is not a positive multiple of %d",
			ErrBadConfig, c.MaxPooledSize, c.Alignment)
	case c.RefillBatch <= 0:
		return fmt.Errorf("%w: refill batch %d must be positive", ErrBadConfig, c.RefillBatch)
	}
	return nil
}

// NumClasses returns the number of size classes.
func (c Config) NumClasses() int {
	return c.MaxPooledSize / c.Alignment
}

// ClassSize returns the block width of class i.
func (c Config) ClassSize(i int) int {
	return (i + 1) * c.Alignment
}

// Options configures New. A nil *Options, or a nil field, selects the default.
type Options struct {
	// Config selects the size class layout. Default: DefaultConfig.
	Config *Config

	// System supplies chunks and oversized blocks. Its blocks must start on a
	// multiple of Config.Alignment. Default: sysmem.Default() where it
	// supports the alignment, otherwise a sysmem.Heap.
	System sysmem.Allocator

	// Logger receives growth and out-of-memory events. Default: discarded,
	// unless POOLKIT_LOG_GROW is set in the environment.
	Logger *slog.Logger

	// Zero clears every block before it is handed out.
	Zero bool
}
