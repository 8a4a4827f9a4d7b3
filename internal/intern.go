package internal

// ============================================================================
// KEY MEMOIZATION
// One decode call sees the same object keys over and over; memoizing them
// makes every repeated key share a single string instance.
// ============================================================================

// maxMemoEntries bounds the per-decode table so pathological inputs with
// millions of distinct keys cannot hold the whole input text alive through
// substring references.
const maxMemoEntries = 4096

// KeyMemo memoizes object keys for the duration of a single decode call.
// It is owned by exactly one scan and needs no locking.
type KeyMemo struct {
	entries map[string]string
}

// NewKeyMemo creates an empty memo table
func NewKeyMemo() *KeyMemo {
	return &KeyMemo{}
}

// Intern returns the canonical instance of key, detaching it from the
// input text it was sliced out of.
func (m *KeyMemo) Intern(key string) string {
	if key == "" {
		return ""
	}
	if canonical, ok := m.entries[key]; ok {
		return canonical
	}
	// strings.Clone semantics: drop the reference to the backing input
	detached := string([]byte(key))
	if m.entries == nil {
		m.entries = make(map[string]string, 16)
	}
	if len(m.entries) < maxMemoEntries {
		m.entries[detached] = detached
	}
	return detached
}

// Len reports the number of memoized keys
func (m *KeyMemo) Len() int {
	return len(m.entries)
}
