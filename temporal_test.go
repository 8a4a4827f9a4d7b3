package tjson

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjson-go/tjson/internal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  Date
		ok    bool
	}{
		{"2014-03-19", Date{2014, time.March, 19}, true},
		{"0001-01-01", Date{1, time.January, 1}, true},
		{"2016-02-29", Date{2016, time.February, 29}, true},
		{"2015-02-29", Date{}, false},
		{"2014-13-01", Date{}, false},
		{"2014-00-10", Date{}, false},
		{"2014-3-19", Date{}, false},
		{"2014/03/19", Date{}, false},
		{"2014-03-19T", Date{}, false},
		{"not-a-date!", Date{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseDate(%q) ok", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseDate(%q)", tt.input)
			assert.Equal(t, tt.input, got.String(), "round trip of %q", tt.input)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  TimeOfDay
		ok    bool
	}{
		{"12:00:00", TimeOfDay{Hour: 12}, true},
		{"23:59:59", TimeOfDay{Hour: 23, Minute: 59, Second: 59}, true},
		{"01:02:03.123", TimeOfDay{Hour: 1, Minute: 2, Second: 3, Microsecond: 123000}, true},
		{"01:02:03.123456", TimeOfDay{Hour: 1, Minute: 2, Second: 3, Microsecond: 123456}, true},
		{"12:00:00Z", TimeOfDay{Hour: 12, Location: internal.UTC()}, true},
		{"12:00:00+05:30", TimeOfDay{Hour: 12, Location: internal.FixedOffset(5*3600 + 30*60)}, true},
		{"12:00:00.123456-08:00", TimeOfDay{
			Hour: 12, Microsecond: 123456, Location: internal.FixedOffset(-8 * 3600),
		}, true},
		{"24:00:00", TimeOfDay{}, false},
		{"12:60:00", TimeOfDay{}, false},
		{"12:00:61", TimeOfDay{}, false},
		{"12:00:00.12", TimeOfDay{}, false},
		{"12:00:00.1234", TimeOfDay{}, false},
		{"12:00:00.1234567", TimeOfDay{}, false},
		{"12:00", TimeOfDay{}, false},
		{"12:00:00x", TimeOfDay{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimeOfDay(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseTimeOfDay(%q) ok", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseTimeOfDay(%q)", tt.input)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	naive, ok := ParseDateTime("2014-03-19T12:30:45")
	require.True(t, ok)
	assert.Nil(t, naive.Location)
	assert.Equal(t, "2014-03-19T12:30:45", naive.String())

	spaced, ok := ParseDateTime("2014-03-19 12:30:45")
	require.True(t, ok)
	assert.Equal(t, naive, spaced, "space separator must parse like T")

	zulu, ok := ParseDateTime("2014-03-19T12:30:45Z")
	require.True(t, ok)
	require.NotNil(t, zulu.Location)
	assert.Equal(t, "2014-03-19T12:30:45+00:00", zulu.String(),
		"Z must render as the explicit +00:00 offset")

	frac, ok := ParseDateTime("2014-03-19T12:30:45.123456+02:00")
	require.True(t, ok)
	assert.Equal(t, 123456, frac.Microsecond)
	assert.Equal(t, "2014-03-19T12:30:45.123456+02:00", frac.String())

	for _, bad := range []string{
		"2014-03-19",
		"2014-03-19X12:30:45",
		"2014-03-19T12:30",
		"2014-02-30T12:30:45",
		"2014-03-19T12:30:45Zjunk",
	} {
		_, ok := ParseDateTime(bad)
		assert.False(t, ok, "ParseDateTime(%q) must fail", bad)
	}
}

func TestDateTimeConversions(t *testing.T) {
	src := time.Date(2014, 3, 19, 12, 0, 0, 500000*1000, time.UTC)
	dt := DateTimeOf(src)
	assert.Equal(t, 500000, dt.Microsecond)
	assert.True(t, dt.Time().Equal(src))

	// Naive datetimes convert through UTC
	naive := DateTime{Year: 2014, Month: time.March, Day: 19, Hour: 12}
	assert.True(t, naive.Time().Equal(time.Date(2014, 3, 19, 12, 0, 0, 0, time.UTC)))

	// Unix round trip
	sec := naive.Time().Unix()
	assert.Equal(t, naive.Time().UTC(), DateTimeFromUnix(sec, 0).Time())
}

func TestEncodeTemporalISO(t *testing.T) {
	e := mustEncoder(t, nil)

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"date", NewDate(2014, time.March, 19), `"2014-03-19"`},
		{"naive datetime", DateTime{Year: 2014, Month: time.March, Day: 19, Hour: 12},
			`"2014-03-19T12:00:00"`},
		{"utc datetime", DateTimeOf(time.Date(2014, 3, 19, 12, 0, 0, 0, time.UTC)),
			`"2014-03-19T12:00:00+00:00"`},
		{"time.Time", time.Date(2014, 3, 19, 12, 0, 0, 0, time.UTC),
			`"2014-03-19T12:00:00+00:00"`},
		{"datetime with microseconds",
			DateTimeOf(time.Date(2014, 3, 19, 12, 0, 0, 123456*1000, time.UTC)),
			`"2014-03-19T12:00:00.123456+00:00"`},
		{"offset datetime",
			DateTimeOf(time.Date(2014, 3, 19, 12, 0, 0, 0, time.FixedZone("", 5*3600+30*60))),
			`"2014-03-19T12:00:00+05:30"`},
		{"time of day", TimeOfDay{Hour: 12, Minute: 30, Second: 45}, `"12:30:45"`},
		{"uuid", uuid.MustParse("fe986c54-3bb7-11e5-aa35-3085a99ccac7"),
			`"fe986c54-3bb7-11e5-aa35-3085a99ccac7"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Encode(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeTemporalEpoch(t *testing.T) {
	cfg := DefaultEncodeConfig()
	cfg.TemporalFormat = TemporalEpoch
	e := mustEncoder(t, cfg)

	aligned := DateTimeFromUnix(1395230400, 0)
	got, err := e.Encode(aligned)
	require.NoError(t, err)
	assert.Equal(t, "1395230400", got, "second-aligned datetimes encode as integers")

	fractional := DateTimeFromUnix(1395230400, 500000)
	got, err = e.Encode(fractional)
	require.NoError(t, err)
	assert.Equal(t, "1395230400.5", got, "sub-second datetimes encode as floats")

	// Dates and times keep their ISO form; only datetimes switch representation
	got, err = e.Encode(NewDate(2014, time.March, 19))
	require.NoError(t, err)
	assert.Equal(t, `"2014-03-19"`, got)
}

func TestRecognizeTemporal(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"2014-03-19", NewDate(2014, time.March, 19)},
		{"12:30:45", TimeOfDay{Hour: 12, Minute: 30, Second: 45}},
		{"12:30:45.123456+05:30", TimeOfDay{
			Hour: 12, Minute: 30, Second: 45, Microsecond: 123456,
			Location: internal.FixedOffset(5*3600 + 30*60),
		}},
		{"2014-03-19T12:30:45", DateTime{
			Year: 2014, Month: time.March, Day: 19,
			Hour: 12, Minute: 30, Second: 45,
		}},
		{"2014-03-19 12:30:45Z", DateTime{
			Year: 2014, Month: time.March, Day: 19,
			Hour: 12, Minute: 30, Second: 45,
			Location: internal.UTC(),
		}},
	}

	for _, tt := range tests {
		got, ok := RecognizeTemporal(tt.input)
		require.True(t, ok, "RecognizeTemporal(%q)", tt.input)
		assert.Equal(t, tt.want, got, "RecognizeTemporal(%q)", tt.input)
	}

	for _, plain := range []string{
		"", "hello", "2014-03-19x", "99:99:99", "1234567890",
		"2014-03-19T99:00:00", "fe986c54-3bb7-11e5-aa35-3085a99ccac7",
	} {
		_, ok := RecognizeTemporal(plain)
		assert.False(t, ok, "RecognizeTemporal(%q) must not match", plain)
	}
}

func TestRecognizeUUID(t *testing.T) {
	u, ok := RecognizeUUID("fe986c54-3bb7-11e5-aa35-3085a99ccac7")
	require.True(t, ok)
	assert.Equal(t, uuid.MustParse("fe986c54-3bb7-11e5-aa35-3085a99ccac7"), u)

	for _, plain := range []string{
		"",
		"fe986c54-3bb7-11e5-aa35-3085a99ccac",    // too short
		"fe986c543bb711e5aa353085a99ccac7",       // no dashes
		"{fe986c54-3bb7-11e5-aa35-3085a99ccac7}", // braced variant
		"ge986c54-3bb7-11e5-aa35-3085a99ccac7",   // bad hex
	} {
		_, ok := RecognizeUUID(plain)
		assert.False(t, ok, "RecognizeUUID(%q) must not match", plain)
	}
}

func TestDecodeTemporalStrings(t *testing.T) {
	cfg := DefaultDecodeConfig()
	cfg.TemporalStrings = true
	cfg.UUIDStrings = true
	d := mustDecoder(t, cfg)

	input := `{
		"born": "2014-03-19T12:00:00Z",
		"day": "2014-03-19",
		"id": "fe986c54-3bb7-11e5-aa35-3085a99ccac7",
		"note": "just text",
		"2014-03-19": "keys stay strings"
	}`
	v, err := d.Decode(input)
	require.NoError(t, err)

	m := v.(map[string]any)
	assert.IsType(t, DateTime{}, m["born"])
	assert.IsType(t, Date{}, m["day"])
	assert.IsType(t, uuid.UUID{}, m["id"])
	assert.Equal(t, "just text", m["note"])
	assert.Equal(t, "keys stay strings", m["2014-03-19"])
}

func TestTemporalHooks(t *testing.T) {
	t.Run("map hook", func(t *testing.T) {
		cfg := DefaultDecodeConfig()
		cfg.ObjectHook = TemporalMapHook(nil)
		d := mustDecoder(t, cfg)

		v, err := d.Decode(`{"day": "2014-03-19"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"day": NewDate(2014, time.March, 19)}, v)
	})

	t.Run("pairs hook keeps order", func(t *testing.T) {
		cfg := DefaultDecodeConfig()
		cfg.ObjectPairsHook = TemporalPairsHook(func(pairs []Pair) (any, error) {
			return pairs, nil
		})
		d := mustDecoder(t, cfg)

		v, err := d.Decode(`{"b": "2014-03-19", "a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, []Pair{
			{Key: "b", Value: NewDate(2014, time.March, 19)},
			{Key: "a", Value: int64(1)},
		}, v)
	})
}

func TestTemporalRoundTrip(t *testing.T) {
	dcfg := DefaultDecodeConfig()
	dcfg.TemporalStrings = true
	d := mustDecoder(t, dcfg)
	e := mustEncoder(t, nil)

	texts := []string{
		`"2014-03-19"`,
		`"12:30:45"`,
		`"2014-03-19T12:30:45"`,
		`"2014-03-19T12:30:45.123456+05:30"`,
		`"2014-03-19T12:30:45+00:00"`,
	}
	for _, text := range texts {
		v, err := d.Decode(text)
		require.NoError(t, err, "decode %s", text)
		out, err := e.Encode(v)
		require.NoError(t, err, "encode %s", text)
		assert.Equal(t, text, out, "round trip of %s", text)
	}
}

func TestConvertStrings(t *testing.T) {
	tree := map[string]any{
		"list": []any{"2014-03-19", "plain", int64(7)},
		"deep": map[string]any{"when": "12:00:00"},
	}
	got := ConvertStrings(tree, RecognizeTemporal)

	m := got.(map[string]any)
	list := m["list"].([]any)
	assert.Equal(t, NewDate(2014, time.March, 19), list[0])
	assert.Equal(t, "plain", list[1])
	assert.Equal(t, int64(7), list[2])
	assert.Equal(t, TimeOfDay{Hour: 12}, m["deep"].(map[string]any)["when"])
}
