package pool

import "github.com/joshuapare/poolkit/internal/align"

// sizeClassTable maps byte counts to size classes. Class i holds blocks of
// exactly (i+1)*alignment bytes.
type sizeClassTable struct {
	alignment  int
	maxPooled  int
	numClasses int
}

// newSizeClassTable computes the table for a validated config.
func newSizeClassTable(cfg Config) *sizeClassTable {
	return &sizeClassTable{
		alignment:  cfg.Alignment,
		maxPooled:  cfg.MaxPooledSize,
		numClasses: cfg.NumClasses(),
	}
}

// roundUp returns n rounded up to a multiple of the alignment.
func (t *sizeClassTable) roundUp(n int) int {
	return align.Up(n, t.alignment)
}

// index returns the zero-based class for 0 < n <= maxPooled.
func (t *sizeClassTable) index(n int) int {
	return t.roundUp(n)/t.alignment - 1
}

// classSize returns the block width of class i.
func (t *sizeClassTable) classSize(i int) int {
	return (i + 1) * t.alignment
}

// pooled reports whether a request of n bytes is served from the free lists.
func (t *sizeClassTable) pooled(n int) bool {
	return n <= t.maxPooled
}
