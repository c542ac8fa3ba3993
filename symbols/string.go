package symbols

import (
	"strings"

	"github.com/dekarrin/gar/garerrors"
)

const (
	// Epsilon is the default display form of the empty String.
	Epsilon = "ε"

	// Lambda is the alternative display form of the empty String.
	Lambda = "λ"
)

// String is an ordered, possibly-empty sequence of Symbols. No method of
// String modifies the receiver; operations that produce a different sequence
// always return a new String.
type String []Symbol

// Of creates a String from the given symbols.
func Of(syms ...Symbol) String {
	if len(syms) == 0 {
		return String{}
	}
	s := make(String, len(syms))
	copy(s, syms)
	return s
}

// Concat returns the concatenation of all given strings.
func Concat(strs ...String) String {
	var total int
	for _, s := range strs {
		total += len(s)
	}
	concat := make(String, 0, total)
	for _, s := range strs {
		concat = append(concat, s...)
	}
	return concat
}

// Concat returns a new String that is s followed by all of others.
func (s String) Concat(others ...String) String {
	return Concat(append([]String{s}, others...)...)
}

// Len returns the number of symbols in s.
func (s String) Len() int {
	return len(s)
}

// IsEmpty returns whether s has no symbols.
func (s String) IsEmpty() bool {
	return len(s) == 0
}

// Symbols returns a copy of the symbols in s.
func (s String) Symbols() []Symbol {
	return append([]Symbol(nil), s...)
}

// Reverse returns a new String with the symbols of s in reverse order.
func (s String) Reverse() String {
	rev := make(String, len(s))
	for i := range s {
		rev[len(s)-1-i] = s[i]
	}
	return rev
}

// SubList returns a new String containing the symbols of s from index start up
// to but not including index end. An ErrInvalid error is returned if the
// bounds are out of range.
func (s String) SubList(start, end int) (String, error) {
	if start < 0 || end > len(s) || start > end {
		return nil, garerrors.Invalidf("sublist [%d:%d] out of range for string of length %d", start, end, len(s))
	}
	return Of(s[start:end]...), nil
}

// Suffix returns a new String containing the symbols of s from index start to
// the end. An ErrInvalid error is returned if start is out of range.
func (s String) Suffix(start int) (String, error) {
	return s.SubList(start, len(s))
}

// IndexOf returns the first index in s at which sub occurs as a contiguous
// subsequence. Returns -1 if sub does not occur in s, including when sub is
// longer than s. The empty String occurs at index 0 of every String.
func (s String) IndexOf(sub String) int {
	if len(sub) > len(s) {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// IndexOfSymbol returns the first index of sym in s, or -1 if it is not in s.
func (s String) IndexOfSymbol(sym Symbol) int {
	for i := range s {
		if s[i] == sym {
			return i
		}
	}
	return -1
}

// StartsWith returns whether prefix occurs at the start of s.
func (s String) StartsWith(prefix String) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].IndexOf(prefix) == 0
}

// EndsWith returns whether suffix occurs at the end of s.
func (s String) EndsWith(suffix String) bool {
	if len(suffix) > len(s) {
		return false
	}
	return s[len(s)-len(suffix):].IndexOf(suffix) == 0
}

// Contains returns whether sym occurs anywhere in s.
func (s String) Contains(sym Symbol) bool {
	return s.IndexOfSymbol(sym) != -1
}

// Without returns a new String with every occurrence of sym removed.
func (s String) Without(sym Symbol) String {
	out := make(String, 0, len(s))
	for i := range s {
		if s[i] != sym {
			out = append(out, s[i])
		}
	}
	return out
}

// Replace returns a new String with every occurrence of old replaced with
// repl.
func (s String) Replace(old, repl Symbol) String {
	out := Of(s...)
	for i := range out {
		if out[i] == old {
			out[i] = repl
		}
	}
	return out
}

// StringLength returns the sum of the display lengths of the symbols in s.
// This is not the same as the length of s.String() for the empty String, whose
// StringLength is always 0.
func (s String) StringLength() int {
	var n int
	for i := range s {
		n += s[i].Len()
	}
	return n
}

// Equal returns whether s and o contain equal symbols in the same order.
func (s String) Equal(o String) bool {
	return s.Compare(o) == 0
}

// Compare orders strings lexicographically symbol by symbol. If one is a
// proper prefix of the other, the shorter one orders first. It returns -1, 0,
// or 1.
func (s String) Compare(o String) int {
	for i := 0; i < len(s) && i < len(o); i++ {
		if c := s[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	if len(s) < len(o) {
		return -1
	} else if len(s) > len(o) {
		return 1
	}
	return 0
}

// Key returns a string that uniquely identifies the contents of s, suitable
// for use as a map key. It is not meant for display.
func (s String) Key() string {
	var sb strings.Builder
	for i := range s {
		sb.WriteByte(byte('0' + s[i].kind))
		sb.WriteString(s[i].text)
		sb.WriteByte(0x1f)
	}
	return sb.String()
}

// String returns the display form of s, which is the concatenation of the
// display strings of its symbols, or Epsilon if s is empty.
func (s String) String() string {
	return s.Display(Epsilon)
}

// Display returns the display form of s using the given marker for the empty
// String.
func (s String) Display(emptyMarker string) string {
	if len(s) == 0 {
		return emptyMarker
	}
	var sb strings.Builder
	for i := range s {
		sb.WriteString(s[i].text)
	}
	return sb.String()
}
