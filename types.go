package tjson

// Pair is one object member in document order. Duplicate keys are delivered
// to ObjectPairsHook exactly as they appear in the input.
type Pair struct {
	Key   string
	Value any
}

// ObjectHook receives every decoded object as a deduplicated map (last
// duplicate key wins) and returns the value used in its place.
type ObjectHook func(object map[string]any) (any, error)

// ObjectPairsHook receives every decoded object as the ordered sequence of
// key/value pairs, including duplicates, and returns the value used in its
// place. When both hooks are set, ObjectPairsHook takes priority.
type ObjectPairsHook func(pairs []Pair) (any, error)

// ParseNumber converts the literal text of a JSON number. Installed as
// DecodeConfig.ParseInt or DecodeConfig.ParseFloat to substitute custom
// numeric constructors at every nesting depth.
type ParseNumber func(literal string) (any, error)

// ParseConstant converts one of the non-strict literals "NaN", "Infinity"
// or "-Infinity".
type ParseConstant func(name string) (any, error)

// DefaultFunc is the encoder fallback for otherwise unserializable values.
// The returned substitute is itself recursively encoded.
type DefaultFunc func(value any) (any, error)

// ValueMarshaler is the capability a value can expose to control its own
// JSON form. The returned value is recursively encoded, so it may contain
// maps, slices, temporal values and further ValueMarshalers.
type ValueMarshaler interface {
	MarshalJSONValue() (any, error)
}

// TemporalFormat selects the wire convention for temporal values.
type TemporalFormat int

const (
	// TemporalISO encodes dates as YYYY-MM-DD, times as
	// HH:MM:SS[.ffffff][+HH:MM] and datetimes as date + "T" + time.
	TemporalISO TemporalFormat = iota

	// TemporalEpoch encodes datetimes as a UTC-normalized count of seconds
	// since the Unix epoch: an integer when the value has no sub-second
	// component, a float otherwise. Dates and times have no epoch form and
	// keep their ISO encoding.
	TemporalEpoch
)
