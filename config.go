package btre

// Config controls non-semantic engine behavior: whether the unanchored
// search is accelerated by a literal prefilter, and the initial
// capacity hints given to the VM's backtrack stack and progress table.
// Turning any of these off never changes which match is returned, only
// how long it takes to get there.
//
// Example:
//
//	cfg := btre.DefaultConfig()
//	cfg.EnablePrefilter = false // force byte-at-a-time substring search
//	re, err := btre.CompileWithConfig(`0x[0-9a-f]+$`, cfg)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering of candidate
	// match-start positions. When false, the VM advances
	// match_from_index one byte at a time on every restart.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the minimum length a required literal must have
	// to be worth prefiltering on. Shorter literals filter too few
	// candidate positions to be worth the bookkeeping.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals caps how many alternation branches the compiler will
	// extract as prefilter literals before giving up on prefiltering
	// that pattern entirely (falling back to byte-at-a-time restart).
	// Default: 64
	MaxLiterals int

	// InitialStackCapacity sizes the VM's backtrack-frame stack ahead
	// of time to reduce reallocation on patterns with many splits.
	// Default: 16
	InitialStackCapacity int

	// InitialProgressCapacity sizes the VM's progress map ahead of
	// time, roughly one entry per zero_or_more construct in the
	// pattern (the only construct that emits a progress op).
	// Default: 4
	InitialProgressCapacity int
}

// DefaultConfig returns sensible defaults: prefiltering on, a
// permissive single-byte minimum literal length, and small initial
// capacities appropriate for typical patterns.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:         true,
		MinLiteralLen:           1,
		MaxLiterals:             64,
		InitialStackCapacity:    16,
		InitialProgressCapacity: 4,
	}
}

// Validate checks that every field is within its documented range,
// returning a *ConfigError naming the first offending field.
func (c Config) Validate() error {
	if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
		return &ConfigError{Field: "MinLiteralLen", Message: "must be between 1 and 64"}
	}
	if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
		return &ConfigError{Field: "MaxLiterals", Message: "must be between 1 and 1,000"}
	}
	if c.InitialStackCapacity < 0 || c.InitialStackCapacity > 1_000_000 {
		return &ConfigError{Field: "InitialStackCapacity", Message: "must be between 0 and 1,000,000"}
	}
	if c.InitialProgressCapacity < 0 || c.InitialProgressCapacity > 1_000_000 {
		return &ConfigError{Field: "InitialProgressCapacity", Message: "must be between 0 and 1,000,000"}
	}
	return nil
}

// ConfigError reports an out-of-range Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "btre: invalid config: " + e.Field + ": " + e.Message
}
