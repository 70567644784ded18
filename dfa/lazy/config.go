package lazy

// Config tunes the DFA state cache. The defaults match the intended use:
// a small fixed-size cache that degrades gracefully to plain subset
// simulation when a pattern churns through more states than it can hold.
type Config struct {
	// CacheSize is the ring-buffer capacity in states. Must be a power of
	// two.
	//
	// Default: 32. Each cached state costs roughly the subset bit vector
	// plus lazily grown transition tiers, so even large patterns stay in
	// the tens of kilobytes.
	CacheSize uint32

	// OverflowLimit is the number of evictions tolerated before the whole
	// cache is reset. A reset discards every cached state but keeps the
	// allocations.
	//
	// Default: 5
	OverflowLimit int

	// RebuildLimit is the number of cache resets tolerated within one
	// search before the DFA surrenders and finishes the input with
	// uncached subset iteration.
	//
	// Default: 5
	RebuildLimit int
}

// DefaultConfig returns the standard cache tuning: 32 states, 5 evictions
// per rebuild, 5 rebuilds per search.
func DefaultConfig() Config {
	return Config{
		CacheSize:     32,
		OverflowLimit: 5,
		RebuildLimit:  5,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.CacheSize == 0 || c.CacheSize&(c.CacheSize-1) != 0 {
		return &DFAError{Kind: InvalidConfig, Message: "CacheSize must be a power of two > 0"}
	}
	if c.OverflowLimit <= 0 {
		return &DFAError{Kind: InvalidConfig, Message: "OverflowLimit must be > 0"}
	}
	if c.RebuildLimit <= 0 {
		return &DFAError{Kind: InvalidConfig, Message: "RebuildLimit must be > 0"}
	}
	return nil
}

// WithCacheSize returns a copy of the config with CacheSize set.
func (c Config) WithCacheSize(n uint32) Config {
	c.CacheSize = n
	return c
}

// WithOverflowLimit returns a copy of the config with OverflowLimit set.
func (c Config) WithOverflowLimit(n int) Config {
	c.OverflowLimit = n
	return c
}

// WithRebuildLimit returns a copy of the config with RebuildLimit set.
func (c Config) WithRebuildLimit(n int) Config {
	c.RebuildLimit = n
	return c
}
