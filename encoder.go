package tjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Buffer pool for encoder memory optimization
var encodeBufferPool = sync.Pool{
	New: func() any {
		buf := &bytes.Buffer{}
		buf.Grow(1024)
		return buf
	},
}

func getEncodeBuffer() *bytes.Buffer {
	buf := encodeBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putEncodeBuffer(buf *bytes.Buffer) {
	const maxPoolBufferSize = 16 * 1024
	if buf != nil && buf.Cap() <= maxPoolBufferSize {
		encodeBufferPool.Put(buf)
	}
}

// Encoder serializes generic in-memory values to JSON text. An Encoder is
// immutable after construction and safe for concurrent use; every call owns
// its own encode state.
type Encoder struct {
	cfg *EncodeConfig
}

// NewEncoder creates an Encoder from cfg. The config is cloned and
// validated; nil means the default configuration.
func NewEncoder(cfg *EncodeConfig) (*Encoder, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg}, nil
}

// Encode serializes v and returns the complete JSON text. Nothing is
// returned on error: the text is fully rendered in memory first.
func (e *Encoder) Encode(v any) (string, error) {
	buf := getEncodeBuffer()
	defer putEncodeBuffer(buf)

	st := &encodeState{cfg: e.cfg, w: buf}
	if err := st.encodeValue(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IterEncode serializes v as a finite, single-pass sequence of text chunks.
// The sequence is not restartable. A failure mid-walk terminates the
// sequence with one ("", err) element; consumers that need all-or-nothing
// output should use Encode or Dump instead.
func (e *Encoder) IterEncode(v any) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cw := &chunkWriter{yield: yield}
		st := &encodeState{cfg: e.cfg, w: cw}
		if err := st.encodeValue(v); err != nil {
			if !cw.stopped && !errors.Is(err, errIterStop) {
				yield("", err)
			}
			return
		}
		cw.flush()
	}
}

var errIterStop = errors.New("iteration stopped by consumer")

// chunkWriter batches serializer output into chunks for IterEncode
type chunkWriter struct {
	buf     []byte
	yield   func(string, error) bool
	stopped bool
}

const encodeChunkSize = 512

func (w *chunkWriter) WriteString(s string) (int, error) {
	if w.stopped {
		return 0, errIterStop
	}
	w.buf = append(w.buf, s...)
	if len(w.buf) >= encodeChunkSize {
		if !w.yield(string(w.buf), nil) {
			w.stopped = true
			return 0, errIterStop
		}
		w.buf = w.buf[:0]
	}
	return len(s), nil
}

func (w *chunkWriter) WriteByte(c byte) error {
	_, err := w.WriteString(string([]byte{c}))
	return err
}

func (w *chunkWriter) flush() {
	if !w.stopped && len(w.buf) > 0 {
		w.yield(string(w.buf), nil)
		w.buf = w.buf[:0]
	}
}

// stringWriter is satisfied by bytes.Buffer and chunkWriter
type stringWriter interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

// cycleKey identifies a container by identity, not value equality
type cycleKey struct {
	ptr  uintptr
	kind reflect.Kind
}

// encodeState owns the state of one in-progress encode call
type encodeState struct {
	cfg    *EncodeConfig
	w      stringWriter
	active map[cycleKey]struct{}
	depth  int
}

// enter registers a container on the encode stack, failing on re-entry
func (st *encodeState) enter(rv reflect.Value) (cycleKey, error) {
	key := cycleKey{ptr: rv.Pointer(), kind: rv.Kind()}
	if _, inProgress := st.active[key]; inProgress {
		return key, encodeError("circular reference detected", ErrCircularReference)
	}
	if st.active == nil {
		st.active = make(map[cycleKey]struct{})
	}
	st.active[key] = struct{}{}
	return key, nil
}

func (st *encodeState) leave(key cycleKey) {
	delete(st.active, key)
}

func (st *encodeState) encodeValue(v any) error {
	if st.depth > st.cfg.MaxDepth {
		return encodeError(
			fmt.Sprintf("nesting depth exceeds maximum %d", st.cfg.MaxDepth),
			ErrDepthLimit)
	}

	// The single temporal/UUID substitution point: richer leaves become
	// plain strings or numbers before the normal dispatch sees them.
	if substitute, ok := temporalValue(v, st.cfg.TemporalFormat); ok {
		v = substitute
	}

	switch t := v.(type) {
	case nil:
		_, err := st.w.WriteString("null")
		return err
	case bool:
		if t {
			_, err := st.w.WriteString("true")
			return err
		}
		_, err := st.w.WriteString("false")
		return err
	case string:
		return st.encodeString(t)
	case int:
		_, err := st.w.WriteString(strconv.FormatInt(int64(t), 10))
		return err
	case int8, int16, int32, int64:
		_, err := st.w.WriteString(strconv.FormatInt(reflect.ValueOf(t).Int(), 10))
		return err
	case uint, uint8, uint16, uint32, uint64, uintptr:
		_, err := st.w.WriteString(strconv.FormatUint(reflect.ValueOf(t).Uint(), 10))
		return err
	case float32:
		return st.encodeFloat(float64(t))
	case float64:
		return st.encodeFloat(t)
	case *big.Int:
		if t == nil {
			_, err := st.w.WriteString("null")
			return err
		}
		_, err := st.w.WriteString(t.String())
		return err
	case decimal.Decimal:
		_, err := st.w.WriteString(decimalLiteral(t))
		return err
	case json.Number:
		if !isValidNumberLiteral(string(t)) {
			return encodeError(
				fmt.Sprintf("invalid number literal %q", string(t)),
				ErrUnserializableType)
		}
		_, err := st.w.WriteString(string(t))
		return err
	case map[string]any:
		return st.encodeMapStringAny(t)
	case []any:
		return st.encodeSliceAny(t)
	}

	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		_, err := st.w.WriteString("null")
		return err
	}

	// Capability-based serialization: the value controls its own JSON form.
	// Checked before pointer unwrapping so pointer-receiver marshalers are
	// honored.
	if marshaler, ok := v.(ValueMarshaler); ok {
		substitute, err := marshaler.MarshalJSONValue()
		if err != nil {
			return &CodecError{
				Op:      "encode",
				Message: fmt.Sprintf("MarshalJSONValue failed for %T: %v", v, err),
				Offset:  -1,
				Err:     err,
			}
		}
		st.depth++
		defer func() { st.depth-- }()
		return st.encodeValue(substitute)
	}

	// Generic containers and typed aliases via reflection
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return st.encodeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return st.encodeArrayReflect(rv)
	case reflect.Map:
		return st.encodeMapReflect(rv)
	case reflect.Bool:
		return st.encodeValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return st.encodeValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return st.encodeValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return st.encodeFloat(rv.Float())
	case reflect.String:
		return st.encodeString(rv.String())
	}

	// Configured fallback, recursively encoded
	if st.cfg.Default != nil {
		substitute, err := st.cfg.Default(v)
		if err != nil {
			return &CodecError{
				Op:      "encode",
				Message: fmt.Sprintf("default hook failed for %T: %v", v, err),
				Offset:  -1,
				Err:     err,
			}
		}
		st.depth++
		defer func() { st.depth-- }()
		return st.encodeValue(substitute)
	}

	return encodeError(
		fmt.Sprintf("type %T is not JSON serializable", v),
		ErrUnserializableType)
}

// floatLiteral renders the shortest round-trippable representation, with
// the non-finite identifiers gated on strictness. The error is raised
// before any output is produced for the value.
func floatLiteral(f float64, strict bool) (string, error) {
	switch {
	case math.IsNaN(f):
		if strict {
			return "", encodeError("out of range float value NaN", ErrUnserializableType)
		}
		return "NaN", nil
	case math.IsInf(f, 1):
		if strict {
			return "", encodeError("out of range float value Infinity", ErrUnserializableType)
		}
		return "Infinity", nil
	case math.IsInf(f, -1):
		if strict {
			return "", encodeError("out of range float value -Infinity", ErrUnserializableType)
		}
		return "-Infinity", nil
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// Trim the leading zero of a two-digit exponent: 1e-07 -> 1e-7
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	} else if bytes.IndexByte(b, '.') < 0 {
		// Integral floats keep a fractional marker so they decode back as
		// floats, not integers
		b = append(b, '.', '0')
	}
	return string(b), nil
}

func (st *encodeState) encodeFloat(f float64) error {
	lit, err := floatLiteral(f, st.cfg.Strict)
	if err != nil {
		return err
	}
	_, err = st.w.WriteString(lit)
	return err
}

// decimalLiteral renders d at its stored scale. Decimal.String trims
// trailing zeros, which would lose the precision UseDecimal exists to keep.
func decimalLiteral(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

const hexDigits = "0123456789abcdef"

// encodeString escapes control characters, quote and backslash always;
// EnsureASCII additionally escapes everything outside 7-bit ASCII.
func (st *encodeState) encodeString(s string) error {
	if err := st.w.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b >= 0x20 && b != '"' && b != '\\' && b < 0x80 {
			i++
			continue
		}
		if b < 0x80 {
			if start < i {
				if _, err := st.w.WriteString(s[start:i]); err != nil {
					return err
				}
			}
			if err := st.writeEscapedByte(b); err != nil {
				return err
			}
			i++
			start = i
			continue
		}
		// Multi-byte rune
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if start < i {
				if _, err := st.w.WriteString(s[start:i]); err != nil {
					return err
				}
			}
			// Invalid bytes become the replacement character, escaped only
			// when the output must stay ASCII
			if st.cfg.EnsureASCII {
				if err := st.writeUnicodeEscape(utf8.RuneError); err != nil {
					return err
				}
			} else if _, err := st.w.WriteString("\ufffd"); err != nil {
				return err
			}
			i++
			start = i
			continue
		}
		if st.cfg.EnsureASCII {
			if start < i {
				if _, err := st.w.WriteString(s[start:i]); err != nil {
					return err
				}
			}
			if err := st.writeUnicodeEscape(r); err != nil {
				return err
			}
			i += size
			start = i
			continue
		}
		i += size
	}
	if start < len(s) {
		if _, err := st.w.WriteString(s[start:]); err != nil {
			return err
		}
	}
	return st.w.WriteByte('"')
}

func (st *encodeState) writeEscapedByte(b byte) error {
	switch b {
	case '"':
		_, err := st.w.WriteString(`\"`)
		return err
	case '\\':
		_, err := st.w.WriteString(`\\`)
		return err
	case '\b':
		_, err := st.w.WriteString(`\b`)
		return err
	case '\f':
		_, err := st.w.WriteString(`\f`)
		return err
	case '\n':
		_, err := st.w.WriteString(`\n`)
		return err
	case '\r':
		_, err := st.w.WriteString(`\r`)
		return err
	case '\t':
		_, err := st.w.WriteString(`\t`)
		return err
	default:
		return st.writeUnicodeEscape(rune(b))
	}
}

// writeUnicodeEscape emits \uXXXX, using a surrogate pair beyond the BMP
func (st *encodeState) writeUnicodeEscape(r rune) error {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		if err := st.writeUnicodeEscape(hi); err != nil {
			return err
		}
		return st.writeUnicodeEscape(lo)
	}
	var buf [6]byte
	buf[0] = '\\'
	buf[1] = 'u'
	buf[2] = hexDigits[r>>12&0xf]
	buf[3] = hexDigits[r>>8&0xf]
	buf[4] = hexDigits[r>>4&0xf]
	buf[5] = hexDigits[r&0xf]
	_, err := st.w.WriteString(string(buf[:]))
	return err
}

// writeNewlineIndent starts a pretty-printed line at the current depth
func (st *encodeState) writeNewlineIndent() error {
	if err := st.w.WriteByte('\n'); err != nil {
		return err
	}
	for i := 0; i < st.depth; i++ {
		if _, err := st.w.WriteString(st.cfg.Indent); err != nil {
			return err
		}
	}
	return nil
}

func (st *encodeState) encodeSliceAny(items []any) error {
	if len(items) == 0 {
		_, err := st.w.WriteString("[]")
		return err
	}
	key, err := st.enter(reflect.ValueOf(items))
	if err != nil {
		return err
	}
	defer st.leave(key)
	return st.encodeArrayItems(len(items), func(i int) any { return items[i] })
}

func (st *encodeState) encodeArrayReflect(rv reflect.Value) error {
	if rv.Len() == 0 {
		_, err := st.w.WriteString("[]")
		return err
	}
	if rv.Kind() == reflect.Slice {
		key, err := st.enter(rv)
		if err != nil {
			return err
		}
		defer st.leave(key)
	}
	return st.encodeArrayItems(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
}

func (st *encodeState) encodeArrayItems(n int, item func(int) any) error {
	itemSep := st.cfg.itemSeparator()
	pretty := st.cfg.Indent != ""

	if err := st.w.WriteByte('['); err != nil {
		return err
	}
	st.depth++
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, err := st.w.WriteString(itemSep); err != nil {
				return err
			}
		}
		if pretty {
			if err := st.writeNewlineIndent(); err != nil {
				return err
			}
		}
		if err := st.encodeValue(item(i)); err != nil {
			return err
		}
	}
	st.depth--
	if pretty {
		if err := st.writeNewlineIndent(); err != nil {
			return err
		}
	}
	return st.w.WriteByte(']')
}

// member is one coerced object member ready for emission
type member struct {
	key   string
	value any
}

func (st *encodeState) encodeMapStringAny(m map[string]any) error {
	if len(m) == 0 {
		_, err := st.w.WriteString("{}")
		return err
	}
	key, err := st.enter(reflect.ValueOf(m))
	if err != nil {
		return err
	}
	defer st.leave(key)

	members := make([]member, 0, len(m))
	for k, v := range m {
		members = append(members, member{key: k, value: v})
	}
	return st.encodeMembers(members)
}

func (st *encodeState) encodeMapReflect(rv reflect.Value) error {
	if rv.Len() == 0 {
		_, err := st.w.WriteString("{}")
		return err
	}
	key, err := st.enter(rv)
	if err != nil {
		return err
	}
	defer st.leave(key)

	members := make([]member, 0, rv.Len())
	mi := rv.MapRange()
	for mi.Next() {
		coerced, ok, err := st.coerceKey(mi.Key())
		if err != nil {
			return err
		}
		if !ok {
			continue // SkipKeys dropped it
		}
		members = append(members, member{key: coerced, value: mi.Value().Interface()})
	}
	return st.encodeMembers(members)
}

// coerceKey stringifies a mapping key using the same formatting rules as
// values. Keys that cannot be coerced fail unless SkipKeys is set.
func (st *encodeState) coerceKey(rk reflect.Value) (string, bool, error) {
	for rk.Kind() == reflect.Interface || rk.Kind() == reflect.Pointer {
		if rk.IsNil() {
			return "null", true, nil
		}
		rk = rk.Elem()
	}
	switch rk.Kind() {
	case reflect.String:
		return rk.String(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rk.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rk.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		lit, err := floatLiteral(rk.Float(), st.cfg.Strict)
		if err != nil {
			return "", false, err
		}
		return lit, true, nil
	case reflect.Bool:
		if rk.Bool() {
			return "true", true, nil
		}
		return "false", true, nil
	default:
		if st.cfg.SkipKeys {
			if st.cfg.Logger != nil {
				st.cfg.Logger.Debug("dropping uncoercible map key", "type", rk.Type().String())
			}
			return "", false, nil
		}
		return "", false, encodeError(
			fmt.Sprintf("keys must be strings, numbers, booleans or null, not %s", rk.Type()),
			ErrUnserializableType)
	}
}

func (st *encodeState) encodeMembers(members []member) error {
	if st.cfg.SortKeys {
		sort.Slice(members, func(i, j int) bool { return members[i].key < members[j].key })
	}

	itemSep := st.cfg.itemSeparator()
	keySep := st.cfg.keySeparator()
	pretty := st.cfg.Indent != ""

	if err := st.w.WriteByte('{'); err != nil {
		return err
	}
	st.depth++
	for i, m := range members {
		if i > 0 {
			if _, err := st.w.WriteString(itemSep); err != nil {
				return err
			}
		}
		if pretty {
			if err := st.writeNewlineIndent(); err != nil {
				return err
			}
		}
		if err := st.encodeString(m.key); err != nil {
			return err
		}
		if _, err := st.w.WriteString(keySep); err != nil {
			return err
		}
		if err := st.encodeValue(m.value); err != nil {
			return err
		}
	}
	st.depth--
	if pretty && len(members) > 0 {
		if err := st.writeNewlineIndent(); err != nil {
			return err
		}
	}
	return st.w.WriteByte('}')
}

// temporalValue is the encoder side of the temporal extension: temporal and
// UUID leaves are substituted with their wire form before the normal
// string/number path sees them.
func temporalValue(v any, format TemporalFormat) (any, bool) {
	switch t := v.(type) {
	case Date:
		return t.String(), true
	case TimeOfDay:
		return t.String(), true
	case DateTime:
		if format == TemporalEpoch {
			return t.epochValue(), true
		}
		return t.String(), true
	case time.Time:
		dt := DateTimeOf(t)
		if format == TemporalEpoch {
			return dt.epochValue(), true
		}
		return dt.String(), true
	case uuid.UUID:
		return t.String(), true
	}
	return nil, false
}
