package console

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gar/automaton"
	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/grammar"
	"github.com/dekarrin/gar/profile"
	"github.com/dekarrin/gar/symbols"
	"github.com/dekarrin/rosed"
	"go.uber.org/zap"
)

var textFormatOptions = rosed.Options{
	ParagraphSeparator:       "\n",
	NoTrailingLineSeparators: true,
}

// symbolUser is anything whose symbols come from an alphabet that the console
// can edit.
type symbolUser interface {
	symbols.Referrer
	symbols.Purger
	symbols.Replacer
}

// Session is the automaton and grammar being built in one console, along with
// the settings used to simulate and show them.
type Session struct {
	prof profile.Profile
	log  *zap.Logger
	auto *automaton.Automaton
	gram *grammar.Grammar
}

// NewSession creates a Session that starts with an empty FSA and an empty
// grammar. If log is nil, nothing is logged.
func NewSession(p profile.Profile, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		prof: p,
		log:  log,
		auto: automaton.New(automaton.FSA),
		gram: grammar.New(nil, nil),
	}
}

// Automaton returns the automaton being built.
func (s *Session) Automaton() *automaton.Automaton {
	return s.auto
}

// Grammar returns the grammar being built.
func (s *Session) Grammar() *grammar.Grammar {
	return s.gram
}

// Profile returns the settings in use.
func (s *Session) Profile() profile.Profile {
	return s.prof
}

// Execute carries out the given command and returns the text to show for it.
// An error is returned if the command could not be carried out; the
// human-readable description of it is available with garerrors.Reason, and
// nothing is changed when one is returned unless the command adds several
// things, in which case those before the failing one are kept.
//
// QUIT is not handled by Execute; it is up to the caller to stop reading
// commands when it sees one.
func (s *Session) Execute(cmd Command) (string, error) {
	s.log.Debug("executing command", zap.Stringer("command", cmd))

	switch cmd.Verb {
	case "HELP":
		return s.executeHelp(), nil
	case "PROFILE":
		return s.executeProfile(), nil
	case "AUTOMATON":
		return s.executeAutomaton(cmd)
	case "ALPHABET":
		return s.executeAlphabet(cmd)
	case "RENAME":
		return s.executeRename(cmd)
	case "UNSYMBOL":
		return s.executeUnsymbol(cmd)
	case "STATE":
		return s.executeState(cmd)
	case "UNSTATE":
		return s.executeUnstate(cmd)
	case "TRANS":
		return s.executeTrans(cmd)
	case "UNTRANS":
		return s.executeUntrans(cmd)
	case "STACK":
		return s.executeStack(cmd)
	case "SHOW":
		return s.executeShow(cmd)
	case "CLOSURE":
		return s.executeClosure(cmd)
	case "NONDET":
		return s.executeNondet(), nil
	case "RUN":
		return s.executeRun(cmd)
	case "GRAMMAR":
		s.gram = grammar.New(nil, nil)
		return "Started a new grammar", nil
	case "PROD":
		return s.executeProd(cmd)
	case "UNPROD":
		return s.executeUnprod(cmd)
	case "START":
		return s.executeStart(cmd)
	case "SORT":
		s.gram.SortProductions()
		return s.showProductions(), nil
	case "DERIVE":
		return s.executeDerive(cmd)
	default:
		return "", garerrors.Newf(garerrors.ErrUnparseable, "I can't do %s here", cmd.Verb)
	}
}

func (s *Session) executeHelp() string {
	return rosed.Edit("").WithOptions(textFormatOptions).
		Insert(rosed.End, "Commands are not case sensitive, but symbols and state labels are:\n").
		InsertDefinitionsTable(rosed.End, commandHelp(), s.prof.Display.OutputWidth).
		String()
}

func (s *Session) executeProfile() string {
	sim := s.prof.Simulation
	data := [][]string{
		{"Setting", "Value"},
		{"simulation.max_configurations", fmt.Sprintf("%d", sim.MaxConfigurations)},
		{"simulation.max_depth", fmt.Sprintf("%d", sim.MaxDepth)},
		{"simulation.pda_acceptance", sim.PDAAcceptance},
		{"simulation.turing_final_transitions", fmt.Sprintf("%t", sim.TuringFinalTransitions)},
		{"simulation.closure", fmt.Sprintf("%t", sim.Closure)},
		{"display.empty_string", s.prof.Display.EmptyString},
		{"display.output_width", fmt.Sprintf("%d", s.prof.Display.OutputWidth)},
	}
	return s.table(data)
}

// alphabet finds the alphabet with the given name, along with the automaton or
// grammar that uses its symbols.
func (s *Session) alphabet(name string) (*symbols.Alphabet, symbolUser, error) {
	var alph *symbols.Alphabet
	var user symbolUser = s.auto

	switch strings.ToLower(name) {
	case "input", "in":
		alph = s.auto.InputAlphabet()
	case "stack":
		alph = s.auto.StackAlphabet()
	case "tape":
		alph = s.auto.TapeAlphabet()
	case "output", "out":
		alph = s.auto.OutputAlphabet()
	case "terminals", "terminal", "t":
		alph, user = s.gram.Terminals(), s.gram
	case "variables", "variable", "v":
		alph, user = s.gram.Variables(), s.gram
	default:
		return nil, nil, garerrors.InvalidReferencef("there is no alphabet called %q; use input, stack, tape, output, terminals, or variables", name)
	}

	if alph == nil {
		return nil, nil, garerrors.InvalidReferencef("a %s has no %s alphabet", s.auto.Kind(), strings.ToLower(name))
	}
	return alph, user, nil
}

func (s *Session) symbol(alph *symbols.Alphabet, text string) (symbols.Symbol, error) {
	sym, ok := alph.Get(text)
	if !ok {
		return sym, garerrors.InvalidReferencef("%q is not in the %s alphabet", text, alph.Name())
	}
	return sym, nil
}

func (s *Session) executeAlphabet(cmd Command) (string, error) {
	alph, _, err := s.alphabet(cmd.Args[0])
	if err != nil {
		return "", err
	}

	for _, text := range cmd.Args[1:] {
		if _, err := alph.Add(text); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s alphabet: %s", alph.Name(), alph.String()), nil
}

func (s *Session) executeRename(cmd Command) (string, error) {
	alph, user, err := s.alphabet(cmd.Args[0])
	if err != nil {
		return "", err
	}
	sym, err := s.symbol(alph, cmd.Args[1])
	if err != nil {
		return "", err
	}

	renamed, err := alph.Modify(sym, cmd.Args[2], user)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Renamed %s to %s", sym, renamed), nil
}

func (s *Session) executeUnsymbol(cmd Command) (string, error) {
	alph, user, err := s.alphabet(cmd.Args[0])
	if err != nil {
		return "", err
	}
	sym, err := s.symbol(alph, cmd.Args[1])
	if err != nil {
		return "", err
	}

	if len(cmd.Args) > 2 {
		if !strings.EqualFold(cmd.Args[2], "PURGE") {
			return "", garerrors.Invalidf("I don't know what %q means here; did you mean PURGE?", cmd.Args[2])
		}
		user.PurgeSymbol(sym)
	}

	if err := alph.Remove(sym, user); err != nil {
		if user.UsesSymbol(sym) {
			if len(cmd.Args) > 2 {
				return "", garerrors.Wrapf(err, garerrors.ErrInvalidReference, "%s cannot be removed", sym)
			}
			return "", garerrors.Wrapf(err, garerrors.ErrInvalidReference, "%s is still used; add PURGE to remove every use of it too", sym)
		}
		return "", err
	}
	return fmt.Sprintf("Removed %s from the %s alphabet", sym, alph.Name()), nil
}
