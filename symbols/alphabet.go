package symbols

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dekarrin/gar/garerrors"
	"golang.org/x/text/unicode/norm"
)

// Referrer is implemented by anything that holds symbols from an alphabet,
// such as a grammar or an automaton.
type Referrer interface {
	// UsesSymbol returns whether the symbol is used anywhere in the Referrer.
	UsesSymbol(sym Symbol) bool
}

// Purger is implemented by anything that can remove every use of a symbol
// from itself. It is used to clear references before removing a symbol from
// its Alphabet.
type Purger interface {
	PurgeSymbol(sym Symbol)
}

// Replacer is implemented by anything that can replace every use of a symbol
// with another. It is used to carry a renamed symbol into its referrers.
type Replacer interface {
	ReplaceSymbol(old, repl Symbol)
}

// Alphabet is a named set of Symbols of a single kind. Symbols in an alphabet
// are unique by text. The Alphabet is the only thing that creates Symbols;
// everything else holds copies of the values it hands out.
//
// Alphabet must be created with NewAlphabet.
type Alphabet struct {
	name    string
	kind    Kind
	symbols map[string]Symbol
}

// NewAlphabet creates a new Alphabet with the given name that holds symbols of
// the given kind, and adds a symbol for each of the given texts.
func NewAlphabet(name string, kind Kind, texts ...string) (*Alphabet, error) {
	a := &Alphabet{
		name:    name,
		kind:    kind,
		symbols: map[string]Symbol{},
	}

	for _, t := range texts {
		if _, err := a.Add(t); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on error.
func MustAlphabet(name string, kind Kind, texts ...string) *Alphabet {
	a, err := NewAlphabet(name, kind, texts...)
	if err != nil {
		panic(err.Error())
	}
	return a
}

// Name returns the name of the alphabet.
func (a *Alphabet) Name() string {
	return a.name
}

// Kind returns the kind of symbol that the alphabet holds. This is the role
// of the alphabet.
func (a *Alphabet) Kind() Kind {
	return a.kind
}

// Len returns the number of symbols in the alphabet.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Get returns the symbol with the given text.
func (a *Alphabet) Get(text string) (Symbol, bool) {
	sym, ok := a.symbols[norm.NFC.String(text)]
	return sym, ok
}

// Has returns whether sym is a member of the alphabet.
func (a *Alphabet) Has(sym Symbol) bool {
	cur, ok := a.symbols[sym.text]
	return ok && cur == sym
}

// HasAll returns whether every symbol in s is a member of the alphabet.
func (a *Alphabet) HasAll(s String) bool {
	for i := range s {
		if !a.Has(s[i]) {
			return false
		}
	}
	return true
}

// Symbols returns every symbol in the alphabet, ordered by text.
func (a *Alphabet) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(a.symbols))
	for _, sym := range a.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Compare(syms[j]) < 0
	})
	return syms
}

func (a *Alphabet) checkText(text string) error {
	if text == "" {
		return garerrors.Invalidf("a %s symbol cannot be empty", a.kind)
	}
	if strings.IndexFunc(text, unicode.IsSpace) != -1 {
		return garerrors.Invalidf("%s symbol %q cannot contain whitespace", a.kind, text)
	}
	if IsEmptyMarker(text) {
		return garerrors.Invalidf("%q is reserved for the empty string", text)
	}
	if _, ok := a.symbols[text]; ok {
		return garerrors.Duplicatef("%s alphabet %q already has symbol %q", a.kind, a.name, text)
	}
	return nil
}

// Add creates a new symbol with the given text and adds it to the alphabet.
// Fails with ErrDuplicate if a symbol with the same text already exists, or
// with ErrInvalid if the text is empty, contains whitespace, or is an
// empty-string marker. The alphabet is unchanged on failure.
func (a *Alphabet) Add(text string) (Symbol, error) {
	text = norm.NFC.String(text)
	if err := a.checkText(text); err != nil {
		return Symbol{}, err
	}

	sym := Symbol{kind: a.kind, text: text}
	a.symbols[text] = sym
	return sym, nil
}

// Modify renames sym to have the given text and returns the new symbol. Every
// given Replacer has the old symbol replaced with the new one. Fails with
// ErrInvalidReference if sym is not in the alphabet and with ErrDuplicate if
// the new text collides with an existing symbol. The alphabet is unchanged on
// failure.
func (a *Alphabet) Modify(sym Symbol, text string, refs ...Replacer) (Symbol, error) {
	if !a.Has(sym) {
		return Symbol{}, garerrors.InvalidReferencef("%s alphabet %q has no symbol %q", a.kind, a.name, sym.text)
	}

	text = norm.NFC.String(text)
	if text == sym.text {
		return sym, nil
	}
	if err := a.checkText(text); err != nil {
		return Symbol{}, err
	}

	renamed := Symbol{kind: a.kind, text: text}
	delete(a.symbols, sym.text)
	a.symbols[text] = renamed

	for _, r := range refs {
		r.ReplaceSymbol(sym, renamed)
	}

	return renamed, nil
}

// CanRemove checks whether sym can be removed from the alphabet. Fails with
// ErrInvalidReference if sym is not in the alphabet or if any of the given
// Referrers still uses it.
func (a *Alphabet) CanRemove(sym Symbol, refs ...Referrer) error {
	if !a.Has(sym) {
		return garerrors.InvalidReferencef("%s alphabet %q has no symbol %q", a.kind, a.name, sym.text)
	}
	for _, r := range refs {
		if r.UsesSymbol(sym) {
			return garerrors.InvalidReferencef("symbol %q is still in use", sym.text)
		}
	}
	return nil
}

// Remove removes sym from the alphabet. It fails without changing anything if
// CanRemove would fail; callers that want to remove a symbol that is in use
// must first purge it from its referrers.
func (a *Alphabet) Remove(sym Symbol, refs ...Referrer) error {
	if err := a.CanRemove(sym, refs...); err != nil {
		return err
	}
	delete(a.symbols, sym.text)
	return nil
}

// String shows the alphabet as a set of its symbols.
func (a *Alphabet) String() string {
	syms := a.Symbols()
	texts := make([]string, len(syms))
	for i := range syms {
		texts[i] = syms[i].text
	}
	return "{" + strings.Join(texts, ", ") + "}"
}
