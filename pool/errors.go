package pool

import "errors"

var (
	// ErrOutOfMemory indicates the system allocator is exhausted and no larger
	// free block was available to scavenge.
	ErrOutOfMemory = errors.New("pool: out of memory")

	// ErrInvalidSize indicates a non-positive allocation size.
	ErrInvalidSize = errors.New("pool: size must be positive")

	// ErrBadConfig indicates a Config that the pool cannot operate with.
	ErrBadConfig = errors.New("pool: invalid config")

	// ErrReleased indicates use of a pool after Release.
	ErrReleased = errors.New("pool: released")

	// ErrUnknownBlock indicates a CheckedPool release of a block that is not
	// live: a double free or memory from elsewhere.
	ErrUnknownBlock = errors.New("pool: block is not live in this pool")

	// ErrSizeMismatch indicates a CheckedPool release whose size differs from
	// the size the block was allocated with.
	ErrSizeMismatch = errors.New("pool: deallocate size does not match allocate size")
)
