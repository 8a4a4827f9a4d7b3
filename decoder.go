package tjson

import (
	"encoding/json"
	"fmt"
)

// Decoder turns JSON text into generic in-memory values. A Decoder is
// immutable after construction and safe for concurrent use; every call owns
// its own scan state.
type Decoder struct {
	cfg *DecodeConfig
}

// NewDecoder creates a Decoder from cfg. The config is cloned and
// validated; nil means the default configuration.
func NewDecoder(cfg *DecodeConfig) (*Decoder, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{cfg: cfg}, nil
}

// Decode parses exactly one JSON value from s. Leading and trailing
// whitespace is permitted; any other remainder fails with ErrTrailingData
// carrying the offset where the extra content begins.
func (d *Decoder) Decode(s string) (any, error) {
	if acceleratedScan && d.cfg.fastEligible() {
		if v, ok := d.fastDecode(s); ok {
			return v, nil
		}
		// The pure scanner below owns the error surface, so both paths
		// report identical diagnostics for identical inputs.
		if d.cfg.Logger != nil {
			d.cfg.Logger.Debug("accelerated scan fell back to pure path",
				"scanner", acceleratedScanName)
		}
	}

	value, end, err := d.RawDecode(s, 0)
	if err != nil {
		return nil, err
	}
	end = skipWhitespace(s, end)
	if end != len(s) {
		return nil, decodeError("extra data after top-level value", s, end, ErrTrailingData)
	}
	return value, nil
}

// RawDecode parses one JSON value starting at idx and returns it together
// with the index where parsing stopped, leaving any remainder untouched.
// idx must lie within [0, len(s)]; out-of-range indexes fail with
// ErrIndexBounds rather than wrapping into the buffer. RawDecode always
// uses the pure scanner: prefix semantics are its contract.
func (d *Decoder) RawDecode(s string, idx int) (any, int, error) {
	if idx < 0 || idx > len(s) {
		return nil, 0, decodeError(
			fmt.Sprintf("start index %d out of range [0, %d]", idx, len(s)),
			s, idx, ErrIndexBounds)
	}
	sc := newScan(d.cfg)
	value, end, err := sc.scanOnce(s, skipWhitespace(s, idx))
	if err != nil {
		return nil, 0, err
	}
	return d.applyRecognizers(value), end, nil
}

// fastDecode runs the accelerated scanner over the full text. A false
// return means the result cannot be trusted to match the pure scanner and
// the caller must rerun the pure path.
func (d *Decoder) fastDecode(s string) (any, bool) {
	raw, ok := fastScan(s)
	if !ok {
		return nil, false
	}
	value, err := d.normalize(raw, 0)
	if err != nil {
		return nil, false
	}
	return value, true
}

// normalize rewrites deferred numbers from the accelerated scanner through
// the same conversion point the pure scanner uses, and enforces the same
// depth bound. Any failure sends the caller back to the pure path for
// canonical diagnostics.
func (d *Decoder) normalize(v any, depth int) (any, error) {
	if depth > d.cfg.MaxDepth {
		return nil, ErrDepthLimit
	}
	switch t := v.(type) {
	case json.Number:
		sc := scan{cfg: d.cfg}
		return sc.convertNumberLiteral(string(t))
	case map[string]any:
		for k, elem := range t {
			converted, err := d.normalize(elem, depth+1)
			if err != nil {
				return nil, err
			}
			t[k] = converted
		}
		return t, nil
	case []any:
		for i, elem := range t {
			converted, err := d.normalize(elem, depth+1)
			if err != nil {
				return nil, err
			}
			t[i] = converted
		}
		return t, nil
	default:
		return v, nil
	}
}

// applyRecognizers runs the opt-in string recognizers as a post-parse pass
func (d *Decoder) applyRecognizers(v any) any {
	if !d.cfg.TemporalStrings && !d.cfg.UUIDStrings {
		return v
	}
	recognizers := make([]Recognizer, 0, 2)
	if d.cfg.TemporalStrings {
		recognizers = append(recognizers, RecognizeTemporal)
	}
	if d.cfg.UUIDStrings {
		recognizers = append(recognizers, RecognizeUUID)
	}
	return ConvertStrings(v, recognizers...)
}
