// ABOUTME: String interner for deduplicating normalized title/artist strings
// ABOUTME: during the full-catalog normalization streaming pass

package spotify

// Interner deduplicates strings, handing back a shared copy for any value
// seen before. A large catalog has millions of rows sharing a much smaller
// set of distinct normalized titles/artists, so interning keeps the
// in-memory candidate map from holding one allocation per row.
type Interner struct {
	strings map[string]string
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{strings: make(map[string]string)}
}

// Intern returns the canonical copy of s, recording s as canonical if this
// is the first time it has been seen.
func (in *Interner) Intern(s string) string {
	if existing, ok := in.strings[s]; ok {
		return existing
	}
	in.strings[s] = s
	return s
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return len(in.strings)
}
