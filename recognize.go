package tjson

import "github.com/google/uuid"

// Recognizer inspects a decoded string leaf and either returns its richer
// in-memory form or reports that the string is ordinary data. Recognizers
// are never applied by the core scanner; callers opt in through the decode
// configuration, the hook adapters below, or ConvertStrings.
type Recognizer func(s string) (any, bool)

// RecognizeTemporal matches the temporal wire convention: dates as
// YYYY-MM-DD, times as HH:MM:SS[.ffffff][+HH:MM], datetimes as
// date + "T" + time (a single space is accepted in place of the "T", and a
// trailing "Z" in place of "+00:00").
func RecognizeTemporal(s string) (any, bool) {
	switch len(s) {
	case 10:
		if d, ok := ParseDate(s); ok {
			return d, true
		}
	default:
		if len(s) >= 8 && s[2] == ':' {
			if t, ok := ParseTimeOfDay(s); ok {
				return t, true
			}
		}
		if len(s) >= 19 && s[4] == '-' {
			if dt, ok := ParseDateTime(s); ok {
				return dt, true
			}
		}
	}
	return nil, false
}

// RecognizeUUID matches the canonical 36-character UUID form, like
// fe986c54-3bb7-11e5-aa35-3085a99ccac7. Other textual UUID variants are
// deliberately not recognized.
func RecognizeUUID(s string) (any, bool) {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return nil, false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return u, true
}

// ConvertStrings rewrites every string leaf of a decoded tree through the
// given recognizers, first match wins. Containers are updated in place and
// object keys are never touched.
func ConvertStrings(v any, recognizers ...Recognizer) any {
	switch t := v.(type) {
	case string:
		for _, recognize := range recognizers {
			if converted, ok := recognize(t); ok {
				return converted
			}
		}
		return t
	case map[string]any:
		for k, elem := range t {
			t[k] = ConvertStrings(elem, recognizers...)
		}
		return t
	case []any:
		for i, elem := range t {
			t[i] = ConvertStrings(elem, recognizers...)
		}
		return t
	default:
		return v
	}
}

// TemporalMapHook wraps an ObjectHook so every string leaf reachable from
// the object is run through the temporal recognizer before next sees it.
// Pass nil to get the default mapping behavior plus recognition.
func TemporalMapHook(next ObjectHook) ObjectHook {
	return func(object map[string]any) (any, error) {
		for k, v := range object {
			object[k] = ConvertStrings(v, RecognizeTemporal)
		}
		if next != nil {
			return next(object)
		}
		return object, nil
	}
}

// TemporalPairsHook wraps an ObjectPairsHook the same way, preserving the
// ordered duplicate-carrying pair sequence.
func TemporalPairsHook(next ObjectPairsHook) ObjectPairsHook {
	return func(pairs []Pair) (any, error) {
		for i := range pairs {
			pairs[i].Value = ConvertStrings(pairs[i].Value, RecognizeTemporal)
		}
		if next != nil {
			return next(pairs)
		}
		object := make(map[string]any, len(pairs))
		for _, p := range pairs {
			object[p.Key] = p.Value
		}
		return object, nil
	}
}
