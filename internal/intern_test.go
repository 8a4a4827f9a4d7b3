package internal

import "testing"

func TestKeyMemoIntern(t *testing.T) {
	m := NewKeyMemo()

	input := "aaakey1bbb"
	first := m.Intern(input[3:7])
	second := m.Intern("key" + "1")
	if first != "key1" || second != "key1" {
		t.Fatalf("Intern() = %q, %q, want key1", first, second)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d after repeated key, want 1", m.Len())
	}

	if got := m.Intern(""); got != "" {
		t.Errorf("Intern(\"\") = %q", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, empty key must not be stored", m.Len())
	}
}

func TestKeyMemoBounded(t *testing.T) {
	m := NewKeyMemo()
	for i := 0; i < maxMemoEntries+100; i++ {
		m.Intern(string(rune('a'+i%26)) + string(rune('0'+i%10)) + itoa(i))
	}
	if m.Len() > maxMemoEntries {
		t.Errorf("Len() = %d, want at most %d", m.Len(), maxMemoEntries)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
