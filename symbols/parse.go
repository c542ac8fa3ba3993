package symbols

import (
	"fmt"

	"github.com/dekarrin/gar/garerrors"
	"golang.org/x/text/unicode/norm"
)

// ParseError is returned when text cannot be fully consumed into symbols. It
// matches garerrors.ErrUnparseable with errors.Is.
type ParseError struct {
	// Text is the text that was being parsed.
	Text string

	// Consumed is the String of all symbols successfully read before parsing
	// stopped.
	Consumed String

	// Offset is the index, in characters, of the first character of Text that
	// could not be consumed.
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: no symbol at character %d after %q", e.Text, e.Offset, e.Consumed.Display(""))
}

// Unwrap returns an ErrUnparseable error with a human-readable reason.
func (e *ParseError) Unwrap() error {
	rest := []rune(e.Text)[e.Offset:]
	return garerrors.Newf(garerrors.ErrUnparseable, "%q does not start with any known symbol", string(rest))
}

// IsEmptyMarker returns whether text is one of the display forms of the empty
// String.
func IsEmptyMarker(text string) bool {
	return text == Epsilon || text == Lambda
}

// Parse reads text into a String of symbols from the given alphabets.
//
// Parsing is greedy and leftmost: characters are read one at a time into a
// growing candidate, and as soon as the candidate is the text of a symbol in
// any of the alphabets (checked in the order given), that symbol is committed
// and a new candidate is started. Text is only parseable if the entire text is
// consumed this way; otherwise a *ParseError is returned that has the consumed
// prefix available.
//
// The empty text and the empty-string markers Epsilon and Lambda parse to the
// empty String, unless one of the alphabets has a symbol with that text.
func Parse(text string, alphabets ...*Alphabet) (String, error) {
	text = norm.NFC.String(text)
	if text == "" {
		return String{}, nil
	}

	parsed := String{}
	var candidate []rune
	candidateStart := 0

	for i, ch := range []rune(text) {
		candidate = append(candidate, ch)
		for _, a := range alphabets {
			if sym, ok := a.Get(string(candidate)); ok {
				parsed = append(parsed, sym)
				candidate = candidate[:0]
				candidateStart = i + 1
				break
			}
		}
	}

	if len(candidate) > 0 {
		if len(parsed) == 0 && IsEmptyMarker(text) {
			return String{}, nil
		}
		return nil, &ParseError{Text: text, Consumed: parsed, Offset: candidateStart}
	}

	return parsed, nil
}

// MustParse is like Parse but panics if the text cannot be parsed.
func MustParse(text string, alphabets ...*Alphabet) String {
	s, err := Parse(text, alphabets...)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// CanParse returns whether text can be fully parsed into symbols from the
// given alphabets.
func CanParse(text string, alphabets ...*Alphabet) bool {
	_, err := Parse(text, alphabets...)
	return err == nil
}
