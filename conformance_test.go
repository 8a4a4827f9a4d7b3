package tjson

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// conformanceCorpus exercises every syntactic shape the scanner knows. Each
// entry is a complete document, valid or not; the accelerated and pure paths
// must agree on all of them.
var conformanceCorpus = []string{
	"null",
	"true",
	"false",
	"0",
	"-0",
	"42",
	"-17",
	"9223372036854775807",
	"-9223372036854775808",
	"123456789012345678901234567890",
	"3.5",
	"-0.25",
	"1e3",
	"2E-2",
	"1.5e+300",
	`""`,
	`"hello"`,
	`"héllo"`,
	`"\"\\\/\b\f\n\r\t"`,
	`"Aé😀"`,
	"[]",
	"[1, 2, 3]",
	`["mixed", 1, 2.5, null, true]`,
	"{}",
	`{"a": 1}`,
	`{"a": 1, "a": 2}`,
	`{"nested": {"deep": [1, {"deeper": null}]}}`,
	"  [1]  ",
	"\t{\"ws\": 1}\n",
	// Malformed documents: both paths must fail, pure owns the diagnostics
	"",
	"@",
	"[1, 2,]",
	`{"a": 1,}`,
	`{"a" 1}`,
	"[1 2]",
	`"abc`,
	"tru",
	"01",
	"1 2",
	"{} {}",
	"NaN",
	"Infinity",
}

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	return a.Cmp(b) == 0
})

// TestConsistencyPureVersusAccelerated drives identical inputs through the
// full Decode (which may take the accelerated path) and through an
// explicitly pure run, and requires identical values and identical error
// taxonomy. On platforms without an accelerated scanner this degenerates to
// a pure-versus-pure sanity check.
func TestConsistencyPureVersusAccelerated(t *testing.T) {
	if !acceleratedScan {
		t.Logf("no accelerated scanner on this platform, comparing pure against itself")
	}
	d := mustDecoder(t, nil)

	for _, input := range conformanceCorpus {
		fast, fastErr := d.Decode(input)
		pure, pureErr := pureDecode(t, input, nil)

		if (fastErr == nil) != (pureErr == nil) {
			t.Errorf("decode(%q): accelerated err = %v, pure err = %v", input, fastErr, pureErr)
			continue
		}
		if fastErr != nil {
			if fastErr.Error() != pureErr.Error() {
				t.Errorf("decode(%q): error text diverged:\n  accelerated: %v\n  pure:        %v",
					input, fastErr, pureErr)
			}
			continue
		}
		if diff := cmp.Diff(pure, fast, bigIntComparer); diff != "" {
			t.Errorf("decode(%q): value diverged (-pure +accelerated):\n%s", input, diff)
		}
	}
}

// TestConsistencyValueTypes pins the concrete Go types both paths must
// produce, not just abstract equality.
func TestConsistencyValueTypes(t *testing.T) {
	d := mustDecoder(t, nil)

	v, err := d.Decode(`{"i": 7, "f": 7.0, "big": 123456789012345678901234567890}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	m := v.(map[string]any)
	if _, ok := m["i"].(int64); !ok {
		t.Errorf("integer decoded as %T, want int64", m["i"])
	}
	if _, ok := m["f"].(float64); !ok {
		t.Errorf("real decoded as %T, want float64", m["f"])
	}
	if _, ok := m["big"].(*big.Int); !ok {
		t.Errorf("big integer decoded as %T, want *big.Int", m["big"])
	}
}

// TestRoundTrip checks decode-encode-decode stability: the re-encoded text
// must decode to the same value, and re-encoding that value must reproduce
// the text exactly.
func TestRoundTrip(t *testing.T) {
	texts := []string{
		"null",
		"[1, 2, 3]",
		"[2.0, -3.0]",
		`{"a": [1.5, "x", null, true], "b": {}}`,
		`{"big": 123456789012345678901234567890}`,
		`"escape \n me"`,
	}
	d := mustDecoder(t, nil)
	e := mustEncoder(t, nil)

	for _, text := range texts {
		v1, err := d.Decode(text)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", text, err)
		}
		out1, err := e.Encode(v1)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		v2, err := d.Decode(out1)
		if err != nil {
			t.Fatalf("Decode(re-encoded %q) error = %v", out1, err)
		}
		if diff := cmp.Diff(v1, v2, bigIntComparer); diff != "" {
			t.Errorf("round trip of %q changed the value:\n%s", text, diff)
		}
		out2, err := e.Encode(v2)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if out1 != out2 {
			t.Errorf("re-encoding is not idempotent: %q then %q", out1, out2)
		}
	}
}
