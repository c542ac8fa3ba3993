package automaton

import (
	"testing"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/symbols"
	"github.com/stretchr/testify/assert"
)

// buildFSA creates an FSA over input symbols a, b, c with one state per label
// given in states (the first is initial; a trailing "*" makes it final) and
// one transition per triple of from-label, input text, to-label.
func buildFSA(states []string, trans [][3]string) *Automaton {
	a := New(FSA)
	for _, txt := range []string{"a", "b", "c"} {
		if _, err := a.InputAlphabet().Add(txt); err != nil {
			panic(err.Error())
		}
	}

	ids := map[string]int{}
	for i, lbl := range states {
		final := false
		if lbl[len(lbl)-1] == '*' {
			lbl = lbl[:len(lbl)-1]
			final = true
		}
		s := a.AddState(lbl)
		ids[lbl] = s.ID
		if final {
			if err := a.SetFinal(s.ID, true); err != nil {
				panic(err.Error())
			}
		}
		if i == 0 {
			if err := a.SetInitial(s.ID); err != nil {
				panic(err.Error())
			}
		}
	}

	for _, t := range trans {
		label := symbols.MustParse(t[1], a.InputAlphabet())
		if _, err := a.AddTransition(ids[t[0]], ids[t[2]], []symbols.String{label}, nil); err != nil {
			panic(err.Error())
		}
	}

	return a
}

func labels(states []State) []string {
	out := make([]string, len(states))
	for i := range states {
		out[i] = states[i].Label
	}
	return out
}

func Test_Automaton_AddTransition(t *testing.T) {
	testCases := []struct {
		name      string
		kind      Kind
		from      int
		to        int
		labels    func(a *Automaton) []symbols.String
		payload   func(a *Automaton) Payload
		expectErr error
	}{
		{
			name: "valid FSA transition",
			kind: FSA,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{symbols.MustParse("a", a.InputAlphabet())}
			},
		},
		{
			name:      "from non-existent state",
			kind:      FSA,
			from:      8,
			labels:    func(a *Automaton) []symbols.String { return []symbols.String{{}} },
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name:      "wrong label count",
			kind:      FSA,
			labels:    func(a *Automaton) []symbols.String { return nil },
			expectErr: garerrors.ErrInvalid,
		},
		{
			name: "FSA with payload",
			kind: FSA,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{{}}
			},
			payload:   func(a *Automaton) Payload { return Output{} },
			expectErr: garerrors.ErrInvalid,
		},
		{
			name: "symbol from another alphabet",
			kind: FSA,
			labels: func(a *Automaton) []symbols.String {
				other := symbols.MustAlphabet("other", symbols.Terminal, "z")
				return []symbols.String{symbols.MustParse("z", other)}
			},
			expectErr: garerrors.ErrInvalidReference,
		},
		{
			name: "PDA without stack op",
			kind: PDA,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{{}}
			},
			expectErr: garerrors.ErrInvalid,
		},
		{
			name: "PDA with stack op",
			kind: PDA,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{symbols.MustParse("a", a.InputAlphabet())}
			},
			payload: func(a *Automaton) Payload {
				return StackOp{Pop: symbols.MustParse("Z", a.StackAlphabet()), Push: symbols.MustParse("XZ", a.StackAlphabet())}
			},
		},
		{
			name: "TM reading two symbols",
			kind: TM,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{symbols.MustParse("aa", a.InputAlphabet())}
			},
			payload:   func(a *Automaton) Payload { return TapeOps{{Move: Right}} },
			expectErr: garerrors.ErrInvalid,
		},
		{
			name: "TM reading blank",
			kind: TM,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{symbols.MustParse(Blank, a.TapeAlphabet())}
			},
			payload: func(a *Automaton) Payload { return TapeOps{{Write: symbols.MustParse("a", a.InputAlphabet()), Move: Left}} },
		},
		{
			name: "Mealy output not in output alphabet",
			kind: Mealy,
			labels: func(a *Automaton) []symbols.String {
				return []symbols.String{symbols.MustParse("a", a.InputAlphabet())}
			},
			payload: func(a *Automaton) Payload {
				return Output{Out: symbols.MustParse("a", a.InputAlphabet())}
			},
			expectErr: garerrors.ErrInvalidReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := New(tc.kind)
			a.InputAlphabet().Add("a")
			if a.StackAlphabet() != nil {
				a.StackAlphabet().Add("Z")
				a.StackAlphabet().Add("X")
			}
			if a.OutputAlphabet() != nil {
				a.OutputAlphabet().Add("1")
			}
			q0 := a.AddState("")
			q1 := a.AddState("")
			from := q0.ID
			if tc.from != 0 {
				from = tc.from
			}
			var p Payload
			if tc.payload != nil {
				p = tc.payload(a)
			}

			rev := a.Revision()
			actual, err := a.AddTransition(from, q1.ID, tc.labels(a), p)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.NotEmpty(garerrors.Reason(err))
				assert.Equal(0, a.NumTransitions())
				assert.Equal(rev, a.Revision())
				return
			}

			assert.NoError(err)
			assert.Equal(from, actual.From)
			assert.Equal(q1.ID, actual.To)
			assert.Equal(1, a.NumTransitions())
			assert.NotEqual(rev, a.Revision())
		})
	}
}

func Test_Automaton_DuplicateTransition(t *testing.T) {
	assert := assert.New(t)

	a := buildFSA([]string{"q0", "q1*"}, [][3]string{{"q0", "a", "q1"}})
	lbl := symbols.MustParse("a", a.InputAlphabet())

	_, err := a.AddTransition(0, 1, []symbols.String{lbl}, nil)

	assert.ErrorIs(err, garerrors.ErrDuplicate)
	assert.Contains(garerrors.Reason(err), "already exists")
	assert.Equal(1, a.NumTransitions())
}

func Test_Automaton_Structure(t *testing.T) {
	assert := assert.New(t)

	a := buildFSA([]string{"q0", "q1", "q2*"}, [][3]string{
		{"q0", "a", "q1"},
		{"q0", "b", "q2"},
		{"q1", "a", "q2"},
		{"q0", "", "q0"},
		{"q2", "c", "q1"},
	})

	from := a.TransitionsFrom(0)
	if !assert.Len(from, 3) {
		return
	}
	assert.Equal("a", from[0].Label().String())
	assert.Equal("b", from[1].Label().String())
	assert.True(from[2].IsEpsilon())

	assert.Equal(3, a.OutDegree(0))
	assert.Equal(1, a.InDegree(0))
	assert.Equal(2, a.InDegree(2))
	assert.Equal([]string{"q2"}, labels(a.FinalStates()))

	init, ok := a.Initial()
	assert.True(ok)
	assert.Equal("q0", init.Label)

	// removing q1 takes every transition touching it along with it
	assert.NoError(a.RemoveState(1))
	assert.Equal(2, a.NumTransitions())
	assert.Equal(1, a.InDegree(2))
	assert.Equal([]string{"q0", "q2"}, labels(a.States()))

	// removing the initial state clears it
	assert.NoError(a.RemoveState(0))
	_, ok = a.Initial()
	assert.False(ok)
	assert.ErrorIs(a.Validate(), garerrors.ErrMissingInitialState)
	assert.Equal(0, a.NumTransitions())

	assert.ErrorIs(a.RemoveState(0), garerrors.ErrInvalidReference)
	assert.ErrorIs(a.SetInitial(42), garerrors.ErrInvalidReference)
	assert.ErrorIs(a.RemoveTransition(42), garerrors.ErrInvalidReference)
}

func Test_Automaton_PurgeAndReplaceSymbol(t *testing.T) {
	assert := assert.New(t)

	a := buildFSA([]string{"q0", "q1*"}, [][3]string{
		{"q0", "ab", "q1"},
		{"q1", "c", "q1"},
	})
	sym, _ := a.InputAlphabet().Get("b")

	assert.True(a.UsesSymbol(sym))
	assert.ErrorIs(a.InputAlphabet().Remove(sym, a), garerrors.ErrInvalidReference)

	a.PurgeSymbol(sym)

	assert.False(a.UsesSymbol(sym))
	assert.NoError(a.InputAlphabet().Remove(sym, a))
	assert.Equal("a", a.TransitionsFrom(0)[0].Label().String())

	c, _ := a.InputAlphabet().Get("c")
	d, err := a.InputAlphabet().Modify(c, "d", a)
	assert.NoError(err)
	assert.Equal("d", a.TransitionsFrom(1)[0].Label().String())
	assert.True(a.UsesSymbol(d))
	assert.False(a.UsesSymbol(c))
}

func Test_Automaton_PurgeSymbol_DropsDuplicates(t *testing.T) {
	assert := assert.New(t)

	a := buildFSA([]string{"q0", "q1*"}, [][3]string{
		{"q0", "a", "q1"},
		{"q0", "ab", "q1"},
		{"q1", "c", "q0"},
		{"q1", "bc", "q1"},
	})
	assert.Equal([]string{"q0"}, labels(NondeterministicStates(a, nil)))

	b, _ := a.InputAlphabet().Get("b")
	a.PurgeSymbol(b)
	assert.False(a.UsesSymbol(b))

	from0 := a.TransitionsFrom(0)
	if assert.Len(from0, 1) {
		assert.Equal("a", from0[0].Label().String())
	}
	assert.Equal(3, a.NumTransitions())
	assert.Len(a.Transitions(), 3)
	assert.Equal(1, a.OutDegree(0))

	// same label but a different target is not a duplicate
	from1 := a.TransitionsFrom(1)
	if assert.Len(from1, 2) {
		assert.Equal("c", from1[0].Label().String())
		assert.Equal("c", from1[1].Label().String())
		assert.NotEqual(from1[0].To, from1[1].To)
	}
	assert.Equal([]string{"q1"}, labels(NondeterministicStates(a, nil)))
}

func Test_Automaton_PurgeSymbol_TM(t *testing.T) {
	assert := assert.New(t)

	tm := New(TM)
	x, _ := tm.InputAlphabet().Add("x")
	y, _ := tm.InputAlphabet().Add("y")
	t0 := tm.AddState("t0")
	t1 := tm.AddState("t1")
	ops := TapeOps{{Move: Right}}
	_, err := tm.AddTransition(t0.ID, t1.ID, []symbols.String{symbols.MustParse("x", tm.InputAlphabet())}, ops)
	assert.NoError(err)
	_, err = tm.AddTransition(t0.ID, t1.ID, []symbols.String{symbols.MustParse("y", tm.InputAlphabet())}, ops)
	assert.NoError(err)

	tm.PurgeSymbol(x)

	ts := tm.Transitions()
	if assert.Len(ts, 1) {
		assert.Equal("y", ts[0].Label().String())
	}
	assert.Equal(1, tm.OutDegree(t0.ID))
	assert.True(tm.UsesSymbol(y))
	assert.False(tm.UsesSymbol(x))

	// the blank is always in use and is never purged
	blank := tm.BlankSymbol()
	assert.True(tm.UsesSymbol(blank))
	tm.PurgeSymbol(blank)
	assert.ErrorIs(tm.TapeAlphabet().Remove(blank, tm), garerrors.ErrInvalidReference)
	assert.True(tm.TapeAlphabet().Has(blank))
}

func Test_Automaton_String(t *testing.T) {
	assert := assert.New(t)

	a := buildFSA([]string{"q0", "q1*"}, [][3]string{
		{"q0", "a", "q1"},
		{"q0", "", "q1"},
	})

	expect := `<FSA START: "q0", STATES:
	(q0 [=(a)=> q1, =(ε)=> q1]),
	((q1 []))
>`

	assert.Equal(expect, a.String())
}

func Test_Closure(t *testing.T) {
	testCases := []struct {
		name   string
		states []string
		trans  [][3]string
		of     int
		expect []string
	}{
		{
			name:   "no epsilon transitions",
			states: []string{"q0", "q1"},
			trans:  [][3]string{{"q0", "a", "q1"}},
			of:     0,
			expect: []string{"q0"},
		},
		{
			name:   "epsilon chain in breadth order",
			states: []string{"q0", "q1", "q2", "q3"},
			trans: [][3]string{
				{"q0", "", "q1"},
				{"q1", "", "q3"},
				{"q0", "", "q2"},
				{"q2", "a", "q3"},
			},
			of:     0,
			expect: []string{"q0", "q1", "q2", "q3"},
		},
		{
			name:   "epsilon cycle terminates",
			states: []string{"q0", "q1", "q2"},
			trans: [][3]string{
				{"q0", "", "q1"},
				{"q1", "", "q2"},
				{"q2", "", "q0"},
				{"q1", "", "q1"},
			},
			of:     1,
			expect: []string{"q1", "q2", "q0"},
		},
		{
			name:   "non-existent state",
			states: []string{"q0"},
			of:     7,
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := buildFSA(tc.states, tc.trans)

			actual := Closure(a, tc.of)

			if tc.expect == nil {
				assert.Nil(actual)
				return
			}
			assert.Equal(tc.expect, labels(actual))
		})
	}
}

func Test_Closure_Idempotent(t *testing.T) {
	a := buildFSA([]string{"q0", "q1", "q2", "q3", "q4"}, [][3]string{
		{"q0", "", "q1"},
		{"q1", "", "q0"},
		{"q1", "", "q2"},
		{"q2", "a", "q3"},
		{"q3", "", "q4"},
		{"q4", "", "q3"},
		{"q4", "", "q4"},
	})

	for _, s := range a.States() {
		t.Run(s.Label, func(t *testing.T) {
			assert := assert.New(t)

			once := Closure(a, s.ID)
			ids := make([]int, len(once))
			for i := range once {
				ids[i] = once[i].ID
			}
			twice := ClosureOfSet(a, ids...)

			assert.ElementsMatch(labels(once), labels(twice))
		})
	}
}

func Test_NondeterministicStates(t *testing.T) {
	testCases := []struct {
		name   string
		states []string
		trans  [][3]string
		expect []string
	}{
		{
			name:   "deterministic",
			states: []string{"q0", "q1"},
			trans:  [][3]string{{"q0", "a", "q1"}, {"q0", "b", "q1"}, {"q1", "a", "q0"}},
			expect: []string{},
		},
		{
			name:   "two epsilon transitions from same state",
			states: []string{"q0", "q1"},
			trans:  [][3]string{{"q0", "", "q1"}, {"q0", "", "q0"}},
			expect: []string{"q0"},
		},
		{
			name:   "epsilon beside a labeled transition",
			states: []string{"q0", "q1"},
			trans:  [][3]string{{"q0", "a", "q1"}, {"q1", "", "q0"}, {"q1", "b", "q1"}},
			expect: []string{"q1"},
		},
		{
			name:   "one label a prefix of the other",
			states: []string{"q0", "q1"},
			trans:  [][3]string{{"q0", "ab", "q1"}, {"q0", "a", "q0"}},
			expect: []string{"q0"},
		},
		{
			name:   "identical labels to different states",
			states: []string{"q0", "q1", "q2"},
			trans:  [][3]string{{"q1", "c", "q0"}, {"q1", "c", "q2"}, {"q0", "a", "q2"}},
			expect: []string{"q1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := buildFSA(tc.states, tc.trans)

			actual := NondeterministicStates(a, nil)

			assert.Equal(tc.expect, append([]string{}, labels(actual)...))
			assert.Equal(len(tc.expect) == 0, IsDeterministic(a))
		})
	}
}

func Test_NondeterministicStates_PerKind(t *testing.T) {
	assert := assert.New(t)

	// PDA: same input but disjoint pops is deterministic
	pda := New(PDA)
	pda.InputAlphabet().Add("a")
	pda.StackAlphabet().Add("X")
	pda.StackAlphabet().Add("Y")
	p0 := pda.AddState("p0")
	in := []symbols.String{symbols.MustParse("a", pda.InputAlphabet())}
	pda.AddTransition(p0.ID, p0.ID, in, StackOp{Pop: symbols.MustParse("X", pda.StackAlphabet())})
	pda.AddTransition(p0.ID, p0.ID, in, StackOp{Pop: symbols.MustParse("Y", pda.StackAlphabet())})
	assert.Empty(NondeterministicStates(pda, nil))

	// ...but overlapping pops is not
	pda.AddTransition(p0.ID, p0.ID, in, StackOp{Pop: symbols.MustParse("XY", pda.StackAlphabet())})
	assert.Equal([]string{"p0"}, labels(NondeterministicStates(pda, nil)))

	// Mealy: labels "ab" and "ac" share the first symbol
	mealy := New(Mealy)
	mealy.InputAlphabet().Add("a")
	mealy.InputAlphabet().Add("b")
	mealy.InputAlphabet().Add("c")
	m0 := mealy.AddState("m0")
	mealy.AddTransition(m0.ID, m0.ID, []symbols.String{symbols.MustParse("ab", mealy.InputAlphabet())}, Output{})
	mealy.AddTransition(m0.ID, m0.ID, []symbols.String{symbols.MustParse("ac", mealy.InputAlphabet())}, Output{})
	assert.Equal([]string{"m0"}, labels(NondeterministicStates(mealy, nil)))
	// which the plain FSA rule does not consider a conflict
	assert.Empty(NondeterministicStates(mealy, FSAMatch))

	// TM: distinct read symbols are deterministic
	tm := New(TM)
	tm.InputAlphabet().Add("a")
	t0 := tm.AddState("t0")
	ops := TapeOps{{Move: Right}}
	tm.AddTransition(t0.ID, t0.ID, []symbols.String{symbols.MustParse("a", tm.InputAlphabet())}, ops)
	tm.AddTransition(t0.ID, t0.ID, []symbols.String{symbols.MustParse(Blank, tm.TapeAlphabet())}, ops)
	assert.True(IsDeterministic(tm))
}
