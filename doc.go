// Package tjson implements a strict RFC 8259 JSON encoder/decoder with a
// documented convention for carrying date, time and datetime values inside
// JSON documents.
//
// The package uses an internal package for implementation details:
//
//   - internal: per-decode object key memoization and the process-wide
//     interned fixed-offset time zones
//
// Most users can simply import the root package:
//
//	import "github.com/tjson-go/tjson"
//
// # Basic Usage
//
// Decode a document into generic values and encode it back:
//
//	value, err := tjson.Loads(`{"user": {"name": "John"}}`)
//	text, err := tjson.Dumps(value)
//
// Stream variants read from an io.Reader or write to an io.Writer:
//
//	value, err := tjson.Load(file)
//	err = tjson.Dump(value, file)
//
// # Temporal Values
//
// Dates, times and datetimes are encoded as ISO-8601 strings
// (YYYY-MM-DD, HH:MM:SS[.ffffff][+HH:MM], date + "T" + time) or, under
// TemporalEpoch, as a UTC-normalized count of seconds since the epoch.
// Decoding never reinterprets ordinary strings on its own: callers opt in
// through DecodeConfig.TemporalStrings, through the TemporalPairsHook and
// TemporalMapHook adapters, or by running ConvertStrings over a decoded
// tree.
//
// # Configuration
//
// Use the config constructors for custom behavior:
//
//	cfg := tjson.DefaultDecodeConfig()
//	cfg.UseDecimal = true
//	value, err := tjson.Loads(text, cfg)
//
// # Accelerated Scanning
//
// On amd64 linux, darwin and windows the default configuration decodes
// through an accelerated scanner (github.com/bytedance/sonic). The pure
// recursive-descent scanner is always available, is used whenever a
// configuration requires it, and defines the error surface: both paths
// return identical values and identical errors for every input. Build with
// the "purejson" tag to disable the accelerated path entirely.
package tjson
