package buddy

import "fmt"

// orderLimit bounds MaxOrder so block sizes and offsets stay well inside the
// int range on 32-bit builds.
const orderLimit = 30

// Config fixes the geometry of an Allocator: units of 2^MinOrder bytes in an
// arena of 2^MaxOrder bytes. The geometry is set at construction and never
// changes for the life of the allocator.
type Config struct {
	// MinOrder is the allocation granularity exponent. Requests smaller than
	// 2^MinOrder bytes are rounded up to one unit.
	MinOrder int

	// MaxOrder is the arena size exponent. The largest satisfiable request
	// is 2^MaxOrder bytes (the whole arena as one block).
	MaxOrder int
}

// DefaultConfig uses 4KB units in a 1MB arena.
var DefaultConfig = Config{
	MinOrder: 12,
	MaxOrder: 20,
}

// validate checks the order range. Returned errors wrap ErrBadConfig.
func (c Config) validate() error {
	if c.MinOrder < 0 {
		return fmt.Errorf("%w: MinOrder must be non-negative; got %d", ErrBadConfig, c.MinOrder)
	}
	if c.MaxOrder <= c.MinOrder {
		return fmt.Errorf("%w: MaxOrder must exceed MinOrder; got %d <= %d",
			ErrBadConfig, c.MaxOrder, c.MinOrder)
	}
	if c.MaxOrder > orderLimit {
		return fmt.Errorf("%w: MaxOrder must be <= %d; got %d", ErrBadConfig, orderLimit, c.MaxOrder)
	}
	return nil
}

// orders returns the number of distinct block orders.
func (c Config) orders() int {
	return c.MaxOrder - c.MinOrder + 1
}

// units returns the number of minimum-granularity units in the arena.
func (c Config) units() int {
	return 1 << (c.MaxOrder - c.MinOrder)
}
