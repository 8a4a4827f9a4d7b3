//go:build (linux || windows || darwin) && amd64 && !purejson

package tjson

import "github.com/bytedance/sonic"

// acceleratedScanName identifies the active accelerated scanner.
const acceleratedScanName = "sonic"

// acceleratedScan reports that an accelerated scanner is compiled in.
const acceleratedScan = true

// sonicAPI defers number conversion so normalize can apply the shared
// conversion point, and validates strings the way the pure scanner does.
var sonicAPI = sonic.Config{
	UseNumber:      true,
	CopyString:     true,
	ValidateString: true,
}.Froze()

// fastScan decodes the whole text with the accelerated scanner. A false
// return means the pure scanner must decide the outcome; fastScan itself
// never produces an error, so the error surface stays single-sourced.
func fastScan(s string) (any, bool) {
	var v any
	if err := sonicAPI.UnmarshalFromString(s, &v); err != nil {
		return nil, false
	}
	return v, true
}
