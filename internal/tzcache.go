package internal

import (
	"fmt"
	"sync"
	"time"
)

// ============================================================================
// INTERNED TIME ZONES
// UTC and every fixed offset seen during decoding are constructed once and
// shared process-wide, so equal offsets compare identical by pointer and no
// decode/encode call allocates a location.
// ============================================================================

var offsetCache sync.Map // seconds east of UTC -> *time.Location

// UTC returns the process-wide UTC singleton. time.UTC is already interned
// by the runtime; this wrapper exists so every caller in the codec goes
// through one chokepoint.
func UTC() *time.Location {
	return time.UTC
}

// FixedOffset returns the interned location for the given offset in seconds
// east of UTC. A zero offset is the UTC singleton itself.
func FixedOffset(seconds int) *time.Location {
	if seconds == 0 {
		return time.UTC
	}
	if loc, ok := offsetCache.Load(seconds); ok {
		return loc.(*time.Location)
	}
	sign := '+'
	abs := seconds
	if seconds < 0 {
		sign = '-'
		abs = -seconds
	}
	name := fmt.Sprintf("%c%02d:%02d", sign, abs/3600, abs%3600/60)
	loc, _ := offsetCache.LoadOrStore(seconds, time.FixedZone(name, seconds))
	return loc.(*time.Location)
}
