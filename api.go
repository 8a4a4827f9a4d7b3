package tjson

import "io"

// Package-level convenience functions. Each call constructs a codec from
// the optional configuration, so callers with a hot path should build a
// Decoder or Encoder once and reuse it instead.

// Loads decodes one JSON value from s using the optional configuration.
func Loads(s string, cfg ...*DecodeConfig) (any, error) {
	d, err := NewDecoder(pickConfig(cfg))
	if err != nil {
		return nil, err
	}
	return d.Decode(s)
}

// Load reads r to completion and decodes the contents as one JSON value.
func Load(r io.Reader, cfg ...*DecodeConfig) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &CodecError{Op: "decode", Message: "reading input failed", Offset: -1, Err: err}
	}
	return Loads(string(data), cfg...)
}

// Dumps encodes v as a JSON string using the optional configuration.
func Dumps(v any, cfg ...*EncodeConfig) (string, error) {
	e, err := NewEncoder(pickConfig(cfg))
	if err != nil {
		return "", err
	}
	return e.Encode(v)
}

// Dump encodes v and writes the full rendering to w in a single call, so a
// serialization failure never leaves partial output behind.
func Dump(v any, w io.Writer, cfg ...*EncodeConfig) error {
	s, err := Dumps(v, cfg...)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return encodeError("writing output", err)
	}
	return nil
}

// Valid reports whether s is one complete, strictly valid JSON value.
func Valid(s string) bool {
	_, err := Loads(s)
	return err == nil
}

func pickConfig[T any](cfg []*T) *T {
	if len(cfg) > 0 {
		return cfg[0]
	}
	return nil
}
