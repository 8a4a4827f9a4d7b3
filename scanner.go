package tjson

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tjson-go/tjson/internal"
)

// scan owns the state of one in-progress decode call. It is created per
// call and never shared, so concurrent decodes cannot interfere.
type scan struct {
	cfg  *DecodeConfig
	memo *internal.KeyMemo
}

func newScan(cfg *DecodeConfig) *scan {
	return &scan{cfg: cfg, memo: internal.NewKeyMemo()}
}

// scanOnce recognizes exactly one JSON value at idx and returns it with the
// index immediately following the consumed text. The start index is
// validated against [0, len(s)]; anything outside fails with ErrIndexBounds
// instead of aliasing into the buffer.
func (sc *scan) scanOnce(s string, idx int) (any, int, error) {
	if idx < 0 || idx > len(s) {
		return nil, 0, decodeError(
			fmt.Sprintf("start index %d out of range [0, %d]", idx, len(s)),
			s, idx, ErrIndexBounds)
	}
	return sc.scanValue(s, idx, 0)
}

// skipWhitespace advances idx past JSON whitespace: space, tab, newline and
// carriage return. Nothing else is implicitly skippable.
func skipWhitespace(s string, idx int) int {
	for idx < len(s) {
		switch s[idx] {
		case ' ', '\t', '\n', '\r':
			idx++
		default:
			return idx
		}
	}
	return idx
}

func (sc *scan) scanValue(s string, idx, depth int) (any, int, error) {
	if depth > sc.cfg.MaxDepth {
		return nil, 0, decodeError(
			fmt.Sprintf("nesting depth exceeds maximum %d", sc.cfg.MaxDepth),
			s, idx, ErrDepthLimit)
	}
	if idx >= len(s) {
		return nil, 0, decodeError("expecting value", s, idx, ErrMalformedInput)
	}

	switch c := s[idx]; {
	case c == '"':
		return sc.scanString(s, idx+1)
	case c == '{':
		return sc.scanObject(s, idx+1, depth)
	case c == '[':
		return sc.scanArray(s, idx+1, depth)
	case c == 'n':
		return sc.scanLiteral(s, idx, "null", nil)
	case c == 't':
		return sc.scanLiteral(s, idx, "true", true)
	case c == 'f':
		return sc.scanLiteral(s, idx, "false", false)
	case c == 'N':
		return sc.scanConstant(s, idx, "NaN")
	case c == 'I':
		return sc.scanConstant(s, idx, "Infinity")
	case c == '-' && idx+1 < len(s) && s[idx+1] == 'I':
		return sc.scanConstant(s, idx, "-Infinity")
	case c == '-' || (c >= '0' && c <= '9'):
		return sc.scanNumber(s, idx)
	default:
		return nil, 0, decodeError("expecting value", s, idx, ErrMalformedInput)
	}
}

func (sc *scan) scanLiteral(s string, idx int, lit string, val any) (any, int, error) {
	if !strings.HasPrefix(s[idx:], lit) {
		return nil, 0, decodeError("expecting value", s, idx, ErrMalformedInput)
	}
	return val, idx + len(lit), nil
}

// scanConstant handles the non-strict literals NaN, Infinity and -Infinity.
// Strict mode rejects them outright.
func (sc *scan) scanConstant(s string, idx int, name string) (any, int, error) {
	if !strings.HasPrefix(s[idx:], name) {
		return nil, 0, decodeError("expecting value", s, idx, ErrMalformedInput)
	}
	if sc.cfg.Strict {
		return nil, 0, decodeError(
			fmt.Sprintf("%s literal not allowed in strict mode", name),
			s, idx, ErrMalformedInput)
	}
	end := idx + len(name)
	if sc.cfg.ParseConstant != nil {
		v, err := sc.cfg.ParseConstant(name)
		if err != nil {
			return nil, 0, err
		}
		return v, end, nil
	}
	switch name {
	case "NaN":
		return math.NaN(), end, nil
	case "Infinity":
		return math.Inf(1), end, nil
	default:
		return math.Inf(-1), end, nil
	}
}

// matchNumber matches the RFC 8259 number grammar at idx: optional sign,
// integer part without leading zeros, optional fraction, optional exponent.
// The fraction and exponent are consumed only when complete, so "1." leaves
// the dot for the caller to reject as a delimiter error.
func matchNumber(s string, idx int) (end int, isFloat, ok bool) {
	end = idx
	if end < len(s) && s[end] == '-' {
		end++
	}
	switch {
	case end < len(s) && s[end] == '0':
		end++
	case end < len(s) && s[end] >= '1' && s[end] <= '9':
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
	default:
		return 0, false, false
	}

	if end+1 < len(s) && s[end] == '.' && s[end+1] >= '0' && s[end+1] <= '9' {
		isFloat = true
		end += 2
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		expEnd := end + 1
		if expEnd < len(s) && (s[expEnd] == '+' || s[expEnd] == '-') {
			expEnd++
		}
		if expEnd < len(s) && s[expEnd] >= '0' && s[expEnd] <= '9' {
			isFloat = true
			for expEnd < len(s) && s[expEnd] >= '0' && s[expEnd] <= '9' {
				expEnd++
			}
			end = expEnd
		}
	}
	return end, isFloat, true
}

// isValidNumberLiteral reports whether s is exactly one JSON number
func isValidNumberLiteral(s string) bool {
	end, _, ok := matchNumber(s, 0)
	return ok && end == len(s)
}

func (sc *scan) scanNumber(s string, idx int) (any, int, error) {
	end, isFloat, ok := matchNumber(s, idx)
	if !ok {
		return nil, 0, decodeError("expecting value", s, idx, ErrMalformedInput)
	}
	v, err := sc.convertNumber(s[idx:end], isFloat)
	if err != nil {
		return nil, 0, err
	}
	return v, end, nil
}

// convertNumber turns a validated number literal into its in-memory form.
// It is the single conversion point shared by the pure scanner and the
// accelerated path, so both produce identical numeric values.
func (sc *scan) convertNumber(lit string, isFloat bool) (any, error) {
	if !isFloat {
		if sc.cfg.ParseInt != nil {
			return sc.cfg.ParseInt(lit)
		}
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return n, nil
		}
		// Past int64: arbitrary precision, never a lossy float
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer literal %q", lit)
		}
		return n, nil
	}
	if sc.cfg.ParseFloat != nil {
		return sc.cfg.ParseFloat(lit)
	}
	if sc.cfg.UseDecimal {
		d, err := decimal.NewFromString(lit)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// convertNumberLiteral is convertNumber for callers that only have the
// literal text, e.g. the accelerated path converting deferred numbers.
func (sc *scan) convertNumberLiteral(lit string) (any, error) {
	return sc.convertNumber(lit, strings.ContainsAny(lit, ".eE"))
}

// scanString decodes one JSON string. end is the index after the opening
// quote. The fast path returns a slice of the input; a scratch buffer is
// only allocated once an escape or a kept control character appears.
func (sc *scan) scanString(s string, end int) (string, int, error) {
	begin := end - 1
	start := end
	var b []byte

	for {
		if end >= len(s) {
			return "", 0, decodeError(
				fmt.Sprintf("unterminated string starting at offset %d", begin),
				s, begin, ErrMalformedInput)
		}
		c := s[end]
		switch {
		case c == '"':
			if b == nil {
				return s[start:end], end + 1, nil
			}
			b = append(b, s[start:end]...)
			return string(b), end + 1, nil
		case c == '\\':
			b = append(b, s[start:end]...)
			var err error
			b, end, err = sc.scanEscape(b, s, end)
			if err != nil {
				return "", 0, err
			}
			start = end
		case c < 0x20:
			if sc.cfg.Strict {
				return "", 0, decodeError(
					fmt.Sprintf("invalid control character %q in string", c),
					s, end, ErrMalformedInput)
			}
			end++
		default:
			end++
		}
	}
}

// scanEscape decodes one escape sequence. end is the index of the
// backslash; the returned index points past the full sequence.
func (sc *scan) scanEscape(b []byte, s string, end int) ([]byte, int, error) {
	slash := end
	end++
	if end >= len(s) {
		return nil, 0, decodeError(
			fmt.Sprintf("unterminated string starting at offset %d", slash),
			s, slash, ErrMalformedInput)
	}
	switch esc := s[end]; esc {
	case '"', '\\', '/':
		return append(b, esc), end + 1, nil
	case 'b':
		return append(b, '\b'), end + 1, nil
	case 'f':
		return append(b, '\f'), end + 1, nil
	case 'n':
		return append(b, '\n'), end + 1, nil
	case 'r':
		return append(b, '\r'), end + 1, nil
	case 't':
		return append(b, '\t'), end + 1, nil
	case 'u':
		r, next, err := sc.scanUnicodeEscape(s, slash)
		if err != nil {
			return nil, 0, err
		}
		return utf8.AppendRune(b, r), next, nil
	default:
		return nil, 0, decodeError(
			fmt.Sprintf(`invalid escape sequence \%c`, esc),
			s, slash, ErrMalformedInput)
	}
}

// scanUnicodeEscape decodes a \uXXXX sequence starting at the backslash,
// combining surrogate pairs. Unpaired surrogates become U+FFFD, matching
// what a Go string can actually hold.
func (sc *scan) scanUnicodeEscape(s string, slash int) (rune, int, error) {
	r1, next, ok := hexRune(s, slash+2)
	if !ok {
		return 0, 0, decodeError(`invalid \uXXXX escape sequence`, s, slash, ErrMalformedInput)
	}
	if utf16.IsSurrogate(r1) {
		if next+1 < len(s) && s[next] == '\\' && s[next+1] == 'u' {
			if r2, next2, ok := hexRune(s, next+2); ok && utf16.IsSurrogate(r2) {
				if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
					return r, next2, nil
				}
			}
		}
		return utf8.RuneError, next, nil
	}
	return r1, next, nil
}

// hexRune parses exactly four hex digits at idx
func hexRune(s string, idx int) (rune, int, bool) {
	if idx+4 > len(s) {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(s[idx:idx+4], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(n), idx + 4, true
}

// scanObject decodes the members following an opening brace. Duplicate keys
// are delivered to ObjectPairsHook in encounter order; the default mapping
// keeps the last occurrence.
func (sc *scan) scanObject(s string, idx, depth int) (any, int, error) {
	var pairs []Pair

	end := skipWhitespace(s, idx)
	if end >= len(s) {
		return nil, 0, decodeError("expecting property name enclosed in double quotes",
			s, end, ErrMalformedInput)
	}
	if s[end] == '}' {
		return sc.finishObject(pairs, end+1)
	}
	if s[end] != '"' {
		return nil, 0, decodeError("expecting property name enclosed in double quotes",
			s, end, ErrMalformedInput)
	}

	for {
		key, keyEnd, err := sc.scanString(s, end+1)
		if err != nil {
			return nil, 0, err
		}
		key = sc.memo.Intern(key)

		end = skipWhitespace(s, keyEnd)
		if end >= len(s) || s[end] != ':' {
			return nil, 0, decodeError("expecting ':' delimiter", s, end, ErrMalformedInput)
		}
		end = skipWhitespace(s, end+1)

		value, valueEnd, err := sc.scanValue(s, end, depth+1)
		if err != nil {
			return nil, 0, err
		}
		pairs = append(pairs, Pair{Key: key, Value: value})

		end = skipWhitespace(s, valueEnd)
		if end >= len(s) {
			return nil, 0, decodeError("expecting ',' delimiter or '}'", s, end, ErrMalformedInput)
		}
		switch s[end] {
		case '}':
			return sc.finishObject(pairs, end+1)
		case ',':
			comma := end
			end = skipWhitespace(s, end+1)
			if end < len(s) && s[end] == '}' {
				return nil, 0, decodeError("trailing comma before end of object",
					s, comma, ErrMalformedInput)
			}
			if end >= len(s) || s[end] != '"' {
				return nil, 0, decodeError("expecting property name enclosed in double quotes",
					s, end, ErrMalformedInput)
			}
		default:
			return nil, 0, decodeError("expecting ',' delimiter or '}'", s, end, ErrMalformedInput)
		}
	}
}

func (sc *scan) finishObject(pairs []Pair, end int) (any, int, error) {
	if sc.cfg.ObjectPairsHook != nil {
		v, err := sc.cfg.ObjectPairsHook(pairs)
		if err != nil {
			return nil, 0, err
		}
		return v, end, nil
	}
	object := make(map[string]any, len(pairs))
	for _, p := range pairs {
		object[p.Key] = p.Value
	}
	if sc.cfg.ObjectHook != nil {
		v, err := sc.cfg.ObjectHook(object)
		if err != nil {
			return nil, 0, err
		}
		return v, end, nil
	}
	return object, end, nil
}

// scanArray decodes the elements following an opening bracket
func (sc *scan) scanArray(s string, idx, depth int) (any, int, error) {
	values := []any{}

	end := skipWhitespace(s, idx)
	if end >= len(s) {
		return nil, 0, decodeError("expecting value or ']'", s, end, ErrMalformedInput)
	}
	if s[end] == ']' {
		return values, end + 1, nil
	}

	for {
		value, valueEnd, err := sc.scanValue(s, end, depth+1)
		if err != nil {
			return nil, 0, err
		}
		values = append(values, value)

		end = skipWhitespace(s, valueEnd)
		if end >= len(s) {
			return nil, 0, decodeError("expecting ',' delimiter or ']'", s, end, ErrMalformedInput)
		}
		switch s[end] {
		case ']':
			return values, end + 1, nil
		case ',':
			comma := end
			end = skipWhitespace(s, end+1)
			if end < len(s) && s[end] == ']' {
				return nil, 0, decodeError("trailing comma before end of array",
					s, comma, ErrMalformedInput)
			}
		default:
			return nil, 0, decodeError("expecting ',' delimiter or ']'", s, end, ErrMalformedInput)
		}
	}
}
