package console

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/profile"
	"github.com/dekarrin/gar/symbols"
	"github.com/stretchr/testify/assert"
)

// execAll parses and executes each line in order and returns the output of
// the last one. It stops at the first error.
func execAll(s *Session, lines ...string) (string, error) {
	var out string
	for _, line := range lines {
		cmd, err := ParseCommand(line)
		if err != nil {
			return "", err
		}
		out, err = s.Execute(cmd)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{
			name:   "blank line",
			input:  "   ",
			expect: Command{},
		},
		{
			name:   "comment",
			input:  "# a^n b^n",
			expect: Command{},
		},
		{
			name:   "verb is upper-cased but args keep case",
			input:  "state Q0 initial",
			expect: Command{Verb: "STATE", Args: []string{"Q0", "initial"}},
		},
		{
			name:   "alias is expanded",
			input:  "new pda",
			expect: Command{Verb: "AUTOMATON", Args: []string{"pda"}},
		},
		{
			name:   "verb alone",
			input:  "bye",
			expect: Command{Verb: "QUIT", Args: []string{}},
		},
		{
			name:   "extra space between args",
			input:  "trans  q0   q1 a ; Z/AZ",
			expect: Command{Verb: "TRANS", Args: []string{"q0", "q1", "a", ";", "Z/AZ"}},
		},
		{
			name:      "unknown verb",
			input:     "dance",
			expectErr: true,
		},
		{
			name:      "too many args",
			input:     "help me",
			expectErr: true,
		},
		{
			name:      "too few args",
			input:     "rename input a",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseCommand(tc.input)
			if tc.expectErr {
				assert.ErrorIs(err, garerrors.ErrUnparseable)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

type lineReader struct {
	lines []string
}

func (r *lineReader) ReadCommand() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *lineReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	out := bufio.NewWriter(&sb)
	r := &lineReader{lines: []string{"# skip me", "dance", "run ab", "show"}}

	cmd, err := Get(r, out)
	assert.NoError(err)
	assert.Equal("RUN", cmd.Verb)
	assert.Equal([]string{"ab"}, cmd.Args)
	assert.Contains(sb.String(), `I don't know what you mean by "dance"`)
	assert.Contains(sb.String(), "Try HELP")

	cmd, err = Get(r, out)
	assert.NoError(err)
	assert.Equal("SHOW", cmd.Verb)

	_, err = Get(r, out)
	assert.ErrorIs(err, io.EOF)
}

var fsaSetup = []string{
	"alphabet input a b",
	"state q0 initial",
	"state q1 final",
	"trans q0 q1 a",
	"trans q1 q1 b",
}

var pdaSetup = []string{
	"new pda",
	"alphabet input a b",
	"alphabet stack A Z",
	"stack Z",
	"state q0 initial",
	"state q1",
	"state q2 final",
	"trans q0 q0 a ; ε/A",
	"trans q0 q1 ε",
	"trans q1 q1 b ; A/ε",
	"trans q1 q2 ε ; Z/Z",
}

var tmSetup = []string{
	"new tm",
	"alphabet input a",
	"alphabet tape b",
	"state q0 initial",
	"state q1 final",
	"trans q0 q0 a ; b,R",
	"trans q0 q1 □ ; □,S",
}

var mealySetup = []string{
	"new mealy",
	"alphabet input a b",
	"alphabet output 0 1",
	"state m0 initial",
	"trans m0 m0 a ; 0",
	"trans m0 m0 b ; 1",
}

var grammarSetup = []string{
	"alphabet variables S",
	"alphabet terminals a b",
	"prod S -> aSb | ε",
	"start S",
}

func Test_Session_Execute(t *testing.T) {
	testCases := []struct {
		name          string
		setup         []string
		input         string
		expect        []string
		expectMissing []string
		expectErr     error
	}{
		{
			name:   "add state",
			input:  "state q0 initial final",
			expect: []string{"Added state q0 (initial and final)"},
		},
		{
			name:   "update state",
			setup:  []string{"state q0 final"},
			input:  "state q0 nonfinal",
			expect: []string{"Updated state q0"},
		},
		{
			name:      "duplicate state",
			setup:     []string{"state q0"},
			input:     "state q0",
			expectErr: garerrors.ErrDuplicate,
		},
		{
			name:      "bad state flag",
			input:     "state q0 sideways",
			expectErr: garerrors.ErrInvalid,
		},
		{
			name:   "add transition",
			setup:  []string{"alphabet input a", "state q0", "state q1"},
			input:  "trans q0 q1 a",
			expect: []string{"Added transition 0: q0 -(a)-> q1"},
		},
		{
			name:      "transition to unknown state",
			setup:     []string{"alphabet input a", "state q0"},
			input:     "trans q0 q9 a",
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:      "transition on unknown symbol",
			setup:     []string{"alphabet input a", "state q0"},
			input:     "trans q0 q0 c",
			expectErr: garerrors.ErrUnparseable,
		},
		{
			name:      "duplicate transition",
			setup:     fsaSetup,
			input:     "trans q0 q1 a",
			expectErr: garerrors.ErrDuplicate,
		},
		{
			name:      "payload on fsa transition",
			setup:     []string{"alphabet input a", "state q0"},
			input:     "trans q0 q0 a ; 1",
			expectErr: garerrors.ErrInvalid,
		},
		{
			name:   "remove transition",
			setup:  fsaSetup,
			input:  "untrans 1",
			expect: []string{"Removed transition 1: q1 -(b)-> q1"},
		},
		{
			name:   "remove state",
			setup:  fsaSetup,
			input:  "unstate q1",
			expect: []string{"Removed state q1 and 2 transitions"},
		},
		{
			name:   "fsa accepts",
			setup:  fsaSetup,
			input:  "run abb",
			expect: []string{"Accepted abb", "fsa-closure variant"},
		},
		{
			name:          "fsa rejects",
			setup:         fsaSetup,
			input:         "run ba",
			expect:        []string{"Rejected ba"},
			expectMissing: []string{"Accepted"},
		},
		{
			name:      "run without initial state",
			setup:     []string{"alphabet input a", "state q0"},
			input:     "run a",
			expectErr: garerrors.ErrMissingInitialState,
		},
		{
			name:   "pda accepts a^n b^n",
			setup:  pdaSetup,
			input:  "run aabb",
			expect: []string{"Accepted aabb", "Stack"},
		},
		{
			name:   "pda rejects unbalanced",
			setup:  pdaSetup,
			input:  "run aab",
			expect: []string{"Rejected aab"},
		},
		{
			name:      "pda payload not in stack alphabet",
			setup:     pdaSetup,
			input:     "trans q0 q0 b ; ε/Q",
			expectErr: garerrors.ErrUnparseable,
		},
		{
			name:   "tm rewrites its tape",
			setup:  tmSetup,
			input:  "run aaa",
			expect: []string{"Accepted aaa", "bbb[□]"},
		},
		{
			name:      "tm transition without tape ops",
			setup:     tmSetup,
			input:     "trans q1 q1 a",
			expectErr: garerrors.ErrInvalid,
		},
		{
			name:   "mealy machine translates",
			setup:  mealySetup,
			input:  "run abba",
			expect: []string{"Accepted abba", "0110"},
		},
		{
			name:      "only a tm has tapes",
			input:     "new pda 2",
			expectErr: garerrors.ErrInvalid,
		},
		{
			name:   "multi-tape tm",
			input:  "new tm 2",
			expect: []string{"Started a new tm with 2 tapes"},
		},
		{
			name:      "unknown alphabet",
			input:     "alphabet greek α",
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:      "fsa has no stack",
			input:     "alphabet stack Z",
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:   "show alphabet",
			setup:  []string{"alphabet input b"},
			input:  "alphabet input a",
			expect: []string{"input alphabet: {a, b}"},
		},
		{
			name:  "closure",
			setup: []string{"state q0", "state q1", "state q2", "trans q0 q1 ε", "trans q1 q2 ε"},
			input: "closure q0",
			expect: []string{
				"Closure of q0: q0, q1, and q2",
			},
		},
		{
			name:   "nondeterministic",
			setup:  []string{"alphabet input a", "state q0", "state q1", "state q2", "trans q0 q1 a", "trans q0 q2 a"},
			input:  "nondet",
			expect: []string{"nondeterministic at q0"},
		},
		{
			name:   "deterministic",
			setup:  fsaSetup,
			input:  "nondet",
			expect: []string{"The fsa is deterministic"},
		},
		{
			name:   "show automaton",
			setup:  fsaSetup,
			input:  "show automaton",
			expect: []string{"FSA with 2 states and 2 transitions", "input alphabet: {a, b}", "q0", "q1"},
		},
		{
			name:   "add productions",
			setup:  []string{"alphabet variables S", "alphabet terminals a b"},
			input:  "prod S -> aSb | ε",
			expect: []string{"Added S → aSb", "Added S → ε"},
		},
		{
			name:      "duplicate production",
			setup:     grammarSetup,
			input:     "prod S -> aSb",
			expectErr: garerrors.ErrDuplicate,
		},
		{
			name:      "production without arrow",
			setup:     grammarSetup,
			input:     "prod S aSb",
			expectErr: garerrors.ErrInvalid,
		},
		{
			name:      "start variable not a variable",
			setup:     grammarSetup,
			input:     "start a",
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:   "derive",
			setup:  grammarSetup,
			input:  "derive aabb",
			expect: []string{"Derived aabb in 3 steps", "aaSbb"},
		},
		{
			name:   "cannot derive",
			setup:  grammarSetup,
			input:  "derive aab",
			expect: []string{"aab cannot be derived"},
		},
		{
			name:      "derive from incomplete grammar",
			setup:     []string{"alphabet variables S", "alphabet terminals a"},
			input:     "derive a",
			expectErr: garerrors.ErrIncomplete,
		},
		{
			name:   "remove production",
			setup:  grammarSetup,
			input:  "unprod S -> ε",
			expect: []string{"Removed S → ε"},
		},
		{
			name:      "remove missing production",
			setup:     grammarSetup,
			input:     "unprod S -> ab",
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:   "show grammar",
			setup:  grammarSetup,
			input:  "show grammar",
			expect: []string{"context-free grammar with 2 productions", "start variable: S", "S → aSb"},
		},
		{
			name:   "help",
			input:  "help",
			expect: []string{"QUIT/BYE/EXIT", "DERIVE"},
		},
		{
			name:   "profile",
			input:  "profile",
			expect: []string{"simulation.max_depth", "final-state"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := NewSession(profile.Default(), nil)
			_, err := execAll(s, tc.setup...)
			if !assert.NoError(err, "setup failed") {
				return
			}

			actual, err := execAll(s, tc.input)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.NotEmpty(garerrors.Reason(err))
				return
			}
			assert.NoError(err)
			for _, e := range tc.expect {
				assert.Contains(actual, e)
			}
			for _, e := range tc.expectMissing {
				assert.NotContains(actual, e)
			}
		})
	}
}

func Test_Session_SymbolEditing(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(profile.Default(), nil)
	_, err := execAll(s, fsaSetup...)
	if !assert.NoError(err) {
		return
	}

	out, err := execAll(s, "rename input a x")
	assert.NoError(err)
	assert.Equal("Renamed a to x", out)

	x, ok := s.Automaton().InputAlphabet().Get("x")
	assert.True(ok)
	assert.True(s.Automaton().UsesSymbol(x))

	_, err = execAll(s, "unsymbol input x")
	assert.ErrorIs(err, garerrors.ErrInvalidReference)
	assert.Contains(garerrors.Reason(err), "PURGE")

	_, err = execAll(s, "unsymbol input x purge")
	assert.NoError(err)
	assert.False(s.Automaton().UsesSymbol(x))
	assert.False(s.Automaton().InputAlphabet().Has(x))
}

func Test_Session_UnsymbolBlank(t *testing.T) {
	testCases := []struct {
		name string
		cmd  string
	}{
		{name: "without purge", cmd: "unsymbol tape □"},
		{name: "with purge", cmd: "unsymbol tape □ purge"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := NewSession(profile.Default(), nil)
			_, err := execAll(s, tmSetup...)
			if !assert.NoError(err) {
				return
			}

			_, err = execAll(s, tc.cmd)
			assert.ErrorIs(err, garerrors.ErrInvalidReference)

			blank := s.Automaton().BlankSymbol()
			assert.True(s.Automaton().TapeAlphabet().Has(blank))
			assert.Equal(2, s.Automaton().NumTransitions())
		})
	}
}

func Test_Session_ProfileDisplay(t *testing.T) {
	assert := assert.New(t)

	p := profile.Default()
	p.Display.EmptyString = symbols.Lambda
	s := NewSession(p, nil)

	out, err := execAll(s, "alphabet variables S", "alphabet terminals a", "prod S -> a | ε")
	assert.NoError(err)
	assert.Contains(out, "Added S → λ")
}

func Test_Session_StepByState(t *testing.T) {
	assert := assert.New(t)

	p := profile.Default()
	p.Simulation.Closure = false
	s := NewSession(p, nil)

	out, err := execAll(s, append(fsaSetup, "run ab")...)
	assert.NoError(err)
	assert.Contains(out, "Accepted ab")
	assert.Contains(out, "(3 configurations, 1 accepting, fsa variant)")
}
