package tjson

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLoads(t *testing.T) {
	got, err := Loads(`{"a": [1, 2]}`)
	if err != nil {
		t.Fatalf("Loads() error = %v", err)
	}
	want := map[string]any{"a": []any{int64(1), int64(2)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Loads() = %#v, want %#v", got, want)
	}

	cfg := DefaultDecodeConfig()
	cfg.Strict = false
	if _, err := Loads("Infinity", cfg); err != nil {
		t.Errorf("Loads() with config error = %v", err)
	}

	if _, err := Loads("Infinity"); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Loads() error = %v, want ErrMalformedInput", err)
	}
	if _, err := Loads("1 2"); !errors.Is(err, ErrTrailingData) {
		t.Errorf("Loads() error = %v, want ErrTrailingData", err)
	}
}

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader(`[true, false]`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{true, false}) {
		t.Errorf("Load() = %#v", got)
	}

	if _, err := Load(failingReader{}); err == nil {
		t.Error("Load() succeeded on a failing reader")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestDumps(t *testing.T) {
	got, err := Dumps(map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatalf("Dumps() error = %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("Dumps() = %q", got)
	}

	cfg := DefaultEncodeConfig()
	cfg.SortKeys = true
	cfg.ItemSeparator = ","
	cfg.KeySeparator = ":"
	got, err = Dumps(map[string]any{"b": int64(2), "a": int64(1)}, cfg)
	if err != nil {
		t.Fatalf("Dumps() with config error = %v", err)
	}
	if got != `{"a":1,"b":2}` {
		t.Errorf("Dumps() with config = %q", got)
	}

	if _, err := Dumps(make(chan int)); !errors.Is(err, ErrUnserializableType) {
		t.Errorf("Dumps(chan) error = %v, want ErrUnserializableType", err)
	}
}

func TestDump(t *testing.T) {
	var sb strings.Builder
	if err := Dump([]any{int64(1), "x"}, &sb); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if sb.String() != `[1, "x"]` {
		t.Errorf("Dump() wrote %q", sb.String())
	}

	// A serialization failure must not write anything
	sb.Reset()
	if err := Dump(make(chan int), &sb); err == nil {
		t.Fatal("Dump(chan) succeeded, want error")
	}
	if sb.Len() != 0 {
		t.Errorf("Dump() wrote %q before failing, want no output", sb.String())
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"{}", true},
		{`{"a": [1, 2.5, null]}`, true},
		{"  true  ", true},
		{"", false},
		{"{", false},
		{"[1, 2,]", false},
		{"1 2", false},
		{"NaN", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.input); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
