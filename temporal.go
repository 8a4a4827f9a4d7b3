package tjson

import (
	"fmt"
	"strings"
	"time"

	"github.com/tjson-go/tjson/internal"
)

// Date is a calendar date with no time and no zone, encoded as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date without validation; use ParseDate for checked
// construction from text.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf extracts the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time with optional sub-second precision and an
// optional fixed UTC offset, encoded as HH:MM:SS[.ffffff][+HH:MM].
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int

	// Location is nil for a naive time; otherwise it is an interned fixed
	// offset (the UTC singleton for a zero offset).
	Location *time.Location
}

func (t TimeOfDay) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Microsecond != 0 {
		fmt.Fprintf(&b, ".%06d", t.Microsecond)
	}
	if t.Location != nil {
		b.WriteString(offsetSuffix(t.Location))
	}
	return b.String()
}

// DateTime is a date plus time of day, either naive or carrying a fixed
// UTC offset, encoded as date + "T" + time.
type DateTime struct {
	Year        int
	Month       time.Month
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int

	// Location is nil for a naive datetime; otherwise it is an interned
	// fixed offset (the UTC singleton for a zero offset).
	Location *time.Location
}

// DateTimeOf converts a time.Time, truncating below microsecond precision
// and interning the fixed offset of t's zone.
func DateTimeOf(t time.Time) DateTime {
	y, m, d := t.Date()
	_, offset := t.Zone()
	return DateTime{
		Year: y, Month: m, Day: d,
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		Microsecond: t.Nanosecond() / 1000,
		Location:    internal.FixedOffset(offset),
	}
}

// DateTimeFromUnix builds a UTC datetime from seconds and microseconds
// since the Unix epoch, the inverse of the TemporalEpoch encoding.
func DateTimeFromUnix(sec int64, microsecond int64) DateTime {
	return DateTimeOf(time.Unix(sec, microsecond*1000).UTC())
}

// Time converts to time.Time. A naive datetime is interpreted as UTC.
func (dt DateTime) Time() time.Time {
	loc := dt.Location
	if loc == nil {
		loc = internal.UTC()
	}
	return time.Date(dt.Year, dt.Month, dt.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Microsecond*1000, loc)
}

func (dt DateTime) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d-%02dT%02d:%02d:%02d",
		dt.Year, int(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second)
	if dt.Microsecond != 0 {
		fmt.Fprintf(&b, ".%06d", dt.Microsecond)
	}
	if dt.Location != nil {
		b.WriteString(offsetSuffix(dt.Location))
	}
	return b.String()
}

// epochValue is the TemporalEpoch form: an integer count of seconds when
// the value is second-aligned, a float otherwise. Naive datetimes are
// interpreted as UTC.
func (dt DateTime) epochValue() any {
	t := dt.Time()
	if dt.Microsecond == 0 {
		return t.Unix()
	}
	return float64(t.Unix()) + float64(dt.Microsecond)/1e6
}

// offsetSuffix renders the ±HH:MM suffix for an interned fixed offset
func offsetSuffix(loc *time.Location) string {
	_, offset := time.Date(2000, 1, 1, 0, 0, 0, 0, loc).Zone()
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%c%02d:%02d", sign, offset/3600, offset%3600/60)
}

// ParseDate recognizes exactly YYYY-MM-DD with a valid calendar day
func ParseDate(s string) (Date, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, false
	}
	year, ok1 := parseDigits(s[0:4])
	month, ok2 := parseDigits(s[5:7])
	day, ok3 := parseDigits(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, false
	}
	// time.Date normalizes overflow, so a mismatch means an invalid day
	probe := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	py, pm, pd := probe.Date()
	if py != year || int(pm) != month || pd != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// ParseTimeOfDay recognizes HH:MM:SS with an optional .fff or .ffffff
// fraction and an optional Z or ±HH:MM offset
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	hour, minute, second, micro, loc, rest, ok := parseClock(s)
	if !ok || rest != "" {
		return TimeOfDay{}, false
	}
	return TimeOfDay{
		Hour: hour, Minute: minute, Second: second,
		Microsecond: micro, Location: loc,
	}, true
}

// ParseDateTime recognizes date + "T" (or a single space) + time
func ParseDateTime(s string) (DateTime, bool) {
	if len(s) < 19 || (s[10] != 'T' && s[10] != ' ') {
		return DateTime{}, false
	}
	date, ok := ParseDate(s[:10])
	if !ok {
		return DateTime{}, false
	}
	hour, minute, second, micro, loc, rest, ok := parseClock(s[11:])
	if !ok || rest != "" {
		return DateTime{}, false
	}
	return DateTime{
		Year: date.Year, Month: date.Month, Day: date.Day,
		Hour: hour, Minute: minute, Second: second,
		Microsecond: micro, Location: loc,
	}, true
}

// parseClock matches HH:MM:SS[.fff|.ffffff][Z|±HH:MM] at the start of s and
// returns whatever text follows
func parseClock(s string) (hour, minute, second, micro int, loc *time.Location, rest string, ok bool) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return 0, 0, 0, 0, nil, "", false
	}
	hour, ok1 := parseDigits(s[0:2])
	minute, ok2 := parseDigits(s[3:5])
	second, ok3 := parseDigits(s[6:8])
	if !ok1 || !ok2 || !ok3 || hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, 0, nil, "", false
	}
	s = s[8:]

	if len(s) >= 4 && s[0] == '.' {
		// Three digits mean milliseconds, six mean microseconds
		digits := 0
		for 1+digits < len(s) && digits < 7 && s[1+digits] >= '0' && s[1+digits] <= '9' {
			digits++
		}
		switch digits {
		case 3:
			ms, _ := parseDigits(s[1:4])
			micro = ms * 1000
			s = s[4:]
		case 6:
			us, _ := parseDigits(s[1:7])
			micro = us
			s = s[7:]
		default:
			return 0, 0, 0, 0, nil, "", false
		}
	}

	switch {
	case len(s) > 0 && s[0] == 'Z':
		loc = internal.UTC()
		s = s[1:]
	case len(s) >= 6 && (s[0] == '+' || s[0] == '-') && s[3] == ':':
		oh, okh := parseDigits(s[1:3])
		om, okm := parseDigits(s[4:6])
		if !okh || !okm || oh > 23 || om > 59 {
			return 0, 0, 0, 0, nil, "", false
		}
		offset := oh*3600 + om*60
		if s[0] == '-' {
			offset = -offset
		}
		loc = internal.FixedOffset(offset)
		s = s[6:]
	}

	return hour, minute, second, micro, loc, s, true
}

// parseDigits parses an all-digit string without sign handling
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
