//go:build purejson || !(amd64 && (linux || windows || darwin))

package tjson

// acceleratedScanName identifies the active accelerated scanner.
const acceleratedScanName = "none"

// acceleratedScan reports that no accelerated scanner is compiled in; every
// decode goes through the portable recursive-descent scanner.
const acceleratedScan = false

func fastScan(s string) (any, bool) {
	return nil, false
}
