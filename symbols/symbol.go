// Package symbols contains the alphabet primitives that every other part of
// gar is built on: Symbol, the atomic unit of an alphabet; String, an ordered
// sequence of Symbols used for input, transition labels, and production sides;
// and Alphabet, the named set that owns Symbols.
package symbols

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind is the kind of a Symbol. It is also used as the role of an Alphabet,
// which creates only symbols of its own kind.
type Kind int

const (
	Terminal Kind = iota
	Variable
	Stack
	Tape
	Output
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Variable:
		return "variable"
	case Stack:
		return "stack"
	case Tape:
		return "tape"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the name of a Kind as returned by Kind.String. Case is
// ignored.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "terminal":
		return Terminal, nil
	case "variable":
		return Variable, nil
	case "stack":
		return Stack, nil
	case "tape":
		return Tape, nil
	case "output":
		return Output, nil
	default:
		return Terminal, fmt.Errorf("not a symbol kind: %q", s)
	}
}

// Symbol is an immutable member of an Alphabet, identified by its text and its
// kind. Two Symbols are equal (==) iff they have the same kind and text.
//
// Symbols are created only by an Alphabet; the zero value is not a valid
// Symbol.
type Symbol struct {
	kind Kind
	text string
}

// Kind returns the kind of the symbol.
func (s Symbol) Kind() Kind {
	return s.kind
}

// Text returns the display string of the symbol.
func (s Symbol) Text() string {
	return s.text
}

// String returns the display string of the symbol.
func (s Symbol) String() string {
	return s.text
}

// Len returns the display length of the symbol in characters.
func (s Symbol) Len() int {
	return utf8.RuneCountInString(s.text)
}

// IsZero returns whether s is the zero Symbol, which is not a member of any
// alphabet.
func (s Symbol) IsZero() bool {
	return s.text == ""
}

// Compare orders symbols lexicographically by text, and then by kind if the
// texts are the same. It returns -1, 0, or 1.
func (s Symbol) Compare(o Symbol) int {
	if c := strings.Compare(s.text, o.text); c != 0 {
		return c
	}
	if s.kind < o.kind {
		return -1
	} else if s.kind > o.kind {
		return 1
	}
	return 0
}
