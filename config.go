package tjson

import "log/slog"

// Default limits shared by both directions of the codec
const (
	// DefaultMaxDepth bounds container nesting for decode and encode.
	// Exceeding it fails cleanly instead of exhausting the goroutine stack.
	DefaultMaxDepth = 200
)

// DecodeConfig holds the per-call decoding options. A Decoder clones the
// config at construction, so a config value is safe to share and reuse
// across concurrent decodes.
type DecodeConfig struct {
	// Strict rejects NaN/Infinity/-Infinity literals and unescaped control
	// characters inside strings. Non-strict mode accepts both.
	Strict bool

	// UseDecimal parses JSON reals as decimal.Decimal, preserving the exact
	// decimal representation. Integers are unaffected.
	UseDecimal bool

	// MaxDepth bounds container nesting; zero means DefaultMaxDepth.
	MaxDepth int

	// ParseInt and ParseFloat substitute custom numeric constructors.
	// ParseFloat conflicts with UseDecimal.
	ParseInt   ParseNumber
	ParseFloat ParseNumber

	// ParseConstant substitutes the construction of the non-strict literals
	// NaN, Infinity and -Infinity.
	ParseConstant ParseConstant

	// ObjectHook and ObjectPairsHook customize object construction at every
	// nesting depth. ObjectPairsHook wins when both are set.
	ObjectHook      ObjectHook
	ObjectPairsHook ObjectPairsHook

	// TemporalStrings runs the temporal recognizer over every decoded
	// string leaf as a post-parse pass. Off by default: a bare decode never
	// reinterprets ordinary string data.
	TemporalStrings bool

	// UUIDStrings runs the UUID recognizer the same way, turning canonical
	// 36-character UUID strings into uuid.UUID values.
	UUIDStrings bool

	// Logger receives debug-level notes, e.g. accelerated-path fallbacks.
	// Nil means silent.
	Logger *slog.Logger
}

// DefaultDecodeConfig returns the default decoding configuration
func DefaultDecodeConfig() *DecodeConfig {
	return &DecodeConfig{
		Strict:   true,
		MaxDepth: DefaultMaxDepth,
	}
}

// Clone creates a copy of the configuration
func (c *DecodeConfig) Clone() *DecodeConfig {
	if c == nil {
		return DefaultDecodeConfig()
	}
	clone := *c
	return &clone
}

// Validate checks for contradictory options and fills in defaults
func (c *DecodeConfig) Validate() error {
	if c.MaxDepth < 0 {
		return configError("MaxDepth cannot be negative")
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.UseDecimal && c.ParseFloat != nil {
		return configError("UseDecimal and ParseFloat are mutually exclusive")
	}
	return nil
}

// fastEligible reports whether the accelerated scanner can reproduce this
// configuration exactly. Hooks, custom constructors and recognizers force
// the pure path; so does non-strict mode, which the accelerated scanner
// does not implement.
func (c *DecodeConfig) fastEligible() bool {
	return c.Strict &&
		!c.UseDecimal &&
		c.ParseInt == nil &&
		c.ParseFloat == nil &&
		c.ParseConstant == nil &&
		c.ObjectHook == nil &&
		c.ObjectPairsHook == nil &&
		!c.TemporalStrings &&
		!c.UUIDStrings
}

// EncodeConfig holds the per-call encoding options. An Encoder clones the
// config at construction.
type EncodeConfig struct {
	// Strict rejects NaN/Infinity/-Infinity values before any output is
	// produced for them. Non-strict mode emits the bare identifiers.
	Strict bool

	// EnsureASCII escapes every character outside the 7-bit ASCII range as
	// a \uXXXX escape, using surrogate pairs beyond the basic plane.
	EnsureASCII bool

	// SortKeys emits object keys in sorted order.
	SortKeys bool

	// SkipKeys silently drops map keys that cannot be coerced to strings
	// instead of failing.
	SkipKeys bool

	// Indent enables pretty printing: each nesting level is prefixed with
	// Indent repeated per depth. Empty means compact output.
	Indent string

	// ItemSeparator and KeySeparator override the separators placed between
	// items and between a key and its value. Empty means the default:
	// ", " and ": " compact, "," and ": " when Indent is set.
	ItemSeparator string
	KeySeparator  string

	// UseDecimal declares that the value tree carries decimal.Decimal
	// numbers whose exact representation must survive encoding. It
	// conflicts with TemporalEpoch, which emits binary floats.
	UseDecimal bool

	// MaxDepth bounds container nesting; zero means DefaultMaxDepth.
	MaxDepth int

	// Default is the fallback serializer for unknown types. Its result is
	// recursively encoded.
	Default DefaultFunc

	// TemporalFormat selects the temporal wire convention.
	TemporalFormat TemporalFormat

	// Logger receives debug-level notes. Nil means silent.
	Logger *slog.Logger
}

// DefaultEncodeConfig returns the default encoding configuration
func DefaultEncodeConfig() *EncodeConfig {
	return &EncodeConfig{
		Strict:         true,
		MaxDepth:       DefaultMaxDepth,
		TemporalFormat: TemporalISO,
	}
}

// NewPrettyConfig returns a configuration for indented output
func NewPrettyConfig() *EncodeConfig {
	cfg := DefaultEncodeConfig()
	cfg.Indent = "  "
	return cfg
}

// Clone creates a copy of the configuration
func (c *EncodeConfig) Clone() *EncodeConfig {
	if c == nil {
		return DefaultEncodeConfig()
	}
	clone := *c
	return &clone
}

// Validate checks for contradictory options and fills in defaults
func (c *EncodeConfig) Validate() error {
	if c.MaxDepth < 0 {
		return configError("MaxDepth cannot be negative")
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	switch c.TemporalFormat {
	case TemporalISO, TemporalEpoch:
	default:
		return configError("unknown TemporalFormat")
	}
	if c.UseDecimal && c.TemporalFormat == TemporalEpoch {
		return configError("UseDecimal and TemporalEpoch are mutually exclusive")
	}
	return nil
}

// itemSeparator resolves the effective item separator
func (c *EncodeConfig) itemSeparator() string {
	if c.ItemSeparator != "" {
		return c.ItemSeparator
	}
	if c.Indent != "" {
		return ","
	}
	return ", "
}

// keySeparator resolves the effective key separator
func (c *EncodeConfig) keySeparator() string {
	if c.KeySeparator != "" {
		return c.KeySeparator
	}
	return ": "
}
