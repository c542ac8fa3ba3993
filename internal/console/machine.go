package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/gar/automaton"
	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/internal/util"
	"github.com/dekarrin/gar/sim"
	"github.com/dekarrin/gar/symbols"
)

func (s *Session) executeAutomaton(cmd Command) (string, error) {
	kind, err := automaton.ParseKind(cmd.Args[0])
	if err != nil {
		return "", garerrors.Wrapf(err, garerrors.ErrInvalid, "%q is not fsa, pda, tm, or mealy", cmd.Args[0])
	}

	tapes := 1
	if len(cmd.Args) > 1 {
		tapes, err = strconv.Atoi(cmd.Args[1])
		if err != nil || tapes < 1 {
			return "", garerrors.Invalidf("the number of tapes must be a whole number greater than 0")
		}
		if tapes > 1 && kind != automaton.TM {
			return "", garerrors.Invalidf("only a tm can have more than one tape")
		}
	}

	s.auto = automaton.New(kind, automaton.WithTapes(tapes))

	msg := fmt.Sprintf("Started a new %s", kind)
	if tapes > 1 {
		msg += fmt.Sprintf(" with %d tapes", tapes)
	}
	return msg, nil
}

func (s *Session) state(label string) (automaton.State, error) {
	st, ok := s.auto.StateByLabel(label)
	if !ok {
		return st, garerrors.InvalidReferencef("there is no state %q", label)
	}
	return st, nil
}

func (s *Session) executeState(cmd Command) (string, error) {
	label := cmd.Args[0]

	var initial, setFinal, final bool
	for _, flag := range cmd.Args[1:] {
		switch strings.ToUpper(flag) {
		case "INITIAL", "START":
			initial = true
		case "FINAL", "ACCEPT":
			setFinal, final = true, true
		case "NONFINAL":
			setFinal, final = true, false
		default:
			return "", garerrors.Invalidf("%q is not INITIAL, FINAL, or NONFINAL", flag)
		}
	}

	st, exists := s.auto.StateByLabel(label)
	if exists && !initial && !setFinal {
		return "", garerrors.Duplicatef("there is already a state %q", label)
	}

	verb := "Updated"
	if !exists {
		st = s.auto.AddState(label)
		verb = "Added"
	}
	if setFinal {
		if err := s.auto.SetFinal(st.ID, final); err != nil {
			return "", err
		}
	}
	if initial {
		if err := s.auto.SetInitial(st.ID); err != nil {
			return "", err
		}
	}

	st, _ = s.auto.State(st.ID)
	return fmt.Sprintf("%s state %s%s", verb, st, s.stateFlags(st)), nil
}

// stateFlags gives a parenthesized description of whether st is initial and
// final, or "" if it is neither.
func (s *Session) stateFlags(st automaton.State) string {
	var flags []string
	if initial, ok := s.auto.Initial(); ok && initial.ID == st.ID {
		flags = append(flags, "initial")
	}
	if st.Final {
		flags = append(flags, "final")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + util.MakeTextList(flags) + ")"
}

func (s *Session) executeUnstate(cmd Command) (string, error) {
	st, err := s.state(cmd.Args[0])
	if err != nil {
		return "", err
	}

	before := s.auto.NumTransitions()
	if err := s.auto.RemoveState(st.ID); err != nil {
		return "", err
	}
	removed := before - s.auto.NumTransitions()

	return fmt.Sprintf("Removed state %s and %d transition%s", st, removed, plural(removed)), nil
}

func (s *Session) executeTrans(cmd Command) (string, error) {
	from, err := s.state(cmd.Args[0])
	if err != nil {
		return "", err
	}
	to, err := s.state(cmd.Args[1])
	if err != nil {
		return "", err
	}

	labelText, payloadText, hasPayload := strings.Cut(cmd.Rest(2), ";")

	var labels []symbols.String
	for _, text := range strings.Split(labelText, "|") {
		lbl, err := s.auto.ParseLabel(compact(text))
		if err != nil {
			return "", fmt.Errorf("label: %w", err)
		}
		labels = append(labels, lbl)
	}

	payload, err := s.parsePayload(payloadText, hasPayload)
	if err != nil {
		return "", err
	}

	t, err := s.auto.AddTransition(from.ID, to.ID, labels, payload)
	if err != nil {
		return "", err
	}
	return "Added transition " + s.transitionText(t), nil
}

// parsePayload reads the part of a TRANS command after the ";".
func (s *Session) parsePayload(text string, given bool) (automaton.Payload, error) {
	switch s.auto.Kind() {
	case automaton.PDA:
		if !given {
			return automaton.StackOp{Pop: symbols.String{}, Push: symbols.String{}}, nil
		}
		popText, pushText, ok := strings.Cut(compact(text), "/")
		if !ok {
			return nil, garerrors.Invalidf("a pda payload must be POP/PUSH, such as %s/A%s", symbols.Epsilon, symbols.Epsilon)
		}
		pop, err := symbols.Parse(popText, s.auto.StackAlphabet())
		if err != nil {
			return nil, fmt.Errorf("pop: %w", err)
		}
		push, err := symbols.Parse(pushText, s.auto.StackAlphabet())
		if err != nil {
			return nil, fmt.Errorf("push: %w", err)
		}
		return automaton.StackOp{Pop: pop, Push: push}, nil
	case automaton.TM:
		if !given {
			return nil, garerrors.Invalidf("a tm transition needs WRITE,MOVE for each tape after a ;")
		}
		var ops automaton.TapeOps
		for _, opText := range strings.Split(text, "|") {
			writeText, moveText, ok := strings.Cut(compact(opText), ",")
			if !ok {
				return nil, garerrors.Invalidf("%q is not WRITE,MOVE", strings.TrimSpace(opText))
			}
			write, err := s.auto.ParseInput(writeText)
			if err != nil {
				return nil, fmt.Errorf("write: %w", err)
			}
			move, err := automaton.ParseDirection(moveText)
			if err != nil {
				return nil, garerrors.Wrapf(err, garerrors.ErrInvalid, "%q is not L, R, or S", moveText)
			}
			ops = append(ops, automaton.TapeOp{Write: write, Move: move})
		}
		return ops, nil
	case automaton.Mealy:
		if !given {
			return automaton.Output{Out: symbols.String{}}, nil
		}
		out, err := symbols.Parse(compact(text), s.auto.OutputAlphabet())
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		return automaton.Output{Out: out}, nil
	default:
		if given {
			return nil, garerrors.Invalidf("a %s transition has no payload", s.auto.Kind())
		}
		return nil, nil
	}
}

func (s *Session) executeUntrans(cmd Command) (string, error) {
	id, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return "", garerrors.Invalidf("%q is not a transition ID", cmd.Args[0])
	}
	t, ok := s.auto.Transition(id)
	if !ok {
		return "", garerrors.InvalidReferencef("there is no transition %d", id)
	}
	if err := s.auto.RemoveTransition(id); err != nil {
		return "", err
	}
	return "Removed transition " + s.transitionText(t), nil
}

func (s *Session) executeStack(cmd Command) (string, error) {
	alph, _, err := s.alphabet("stack")
	if err != nil {
		return "", err
	}
	sym, err := s.symbol(alph, cmd.Args[0])
	if err != nil {
		return "", err
	}
	if err := s.auto.SetStackStart(sym); err != nil {
		return "", err
	}
	return fmt.Sprintf("The stack now starts with %s", sym), nil
}

func (s *Session) executeShow(cmd Command) (string, error) {
	what := ""
	if len(cmd.Args) > 0 {
		what = strings.ToUpper(cmd.Args[0])
	}

	switch what {
	case "AUTOMATON", "A":
		return s.showAutomaton(), nil
	case "GRAMMAR", "G":
		return s.showGrammar(), nil
	case "":
		return s.showAutomaton() + "\n\n" + s.showGrammar(), nil
	default:
		return "", garerrors.Invalidf("I can only show the AUTOMATON or the GRAMMAR")
	}
}

func (s *Session) showAutomaton() string {
	a := s.auto

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s with %d state%s and %d transition%s", strings.ToUpper(a.Kind().String()), a.NumStates(), plural(a.NumStates()), a.NumTransitions(), plural(a.NumTransitions())))
	if a.Tapes() > 1 {
		sb.WriteString(fmt.Sprintf(" over %d tapes", a.Tapes()))
	}
	sb.WriteString("\n")

	for _, alph := range a.Alphabets() {
		sb.WriteString(fmt.Sprintf("%s alphabet: %s\n", alph.Name(), alph.String()))
	}
	if start, ok := a.StackStart(); ok {
		sb.WriteString(fmt.Sprintf("stack starts with: %s\n", start))
	}

	if a.NumStates() == 0 {
		sb.WriteString("(no states)")
		return sb.String()
	}

	states := [][]string{{"State", "Initial", "Final"}}
	initial, hasInitial := a.Initial()
	for _, st := range a.States() {
		row := []string{st.String(), "", ""}
		if hasInitial && initial.ID == st.ID {
			row[1] = "yes"
		}
		if st.Final {
			row[2] = "yes"
		}
		states = append(states, row)
	}
	sb.WriteString(s.table(states))

	if a.NumTransitions() > 0 {
		trans := [][]string{{"ID", "From", "To", "Label", "Payload"}}
		for _, t := range a.Transitions() {
			trans = append(trans, s.transitionRow(t))
		}
		sb.WriteString("\n")
		sb.WriteString(s.table(trans))
	}

	return sb.String()
}

func (s *Session) transitionRow(t automaton.Transition) []string {
	from, _ := s.auto.State(t.From)
	to, _ := s.auto.State(t.To)

	labels := make([]string, len(t.Labels))
	for i := range t.Labels {
		labels[i] = s.prof.Show(t.Labels[i])
	}

	return []string{
		strconv.Itoa(t.ID),
		from.String(),
		to.String(),
		strings.Join(labels, " | "),
		s.showPayload(t.Payload),
	}
}

// transitionText shows t on one line, such as "2: q0 -(a)-> q1 ; A/ε".
func (s *Session) transitionText(t automaton.Transition) string {
	row := s.transitionRow(t)
	text := fmt.Sprintf("%s: %s -(%s)-> %s", row[0], row[1], row[3], row[2])
	if row[4] != "" {
		text += " ; " + row[4]
	}
	return text
}

func (s *Session) showPayload(p automaton.Payload) string {
	switch op := p.(type) {
	case automaton.StackOp:
		return s.prof.Show(op.Pop) + "/" + s.prof.Show(op.Push)
	case automaton.TapeOps:
		parts := make([]string, len(op))
		for i := range op {
			parts[i] = s.prof.Show(op[i].Write) + "," + op[i].Move.String()
		}
		return strings.Join(parts, " | ")
	case automaton.Output:
		return s.prof.Show(op.Out)
	default:
		return ""
	}
}

func (s *Session) executeClosure(cmd Command) (string, error) {
	st, err := s.state(cmd.Args[0])
	if err != nil {
		return "", err
	}
	closure := automaton.Closure(s.auto, st.ID)
	return fmt.Sprintf("Closure of %s: %s", st, util.MakeTextList(stateNames(closure))), nil
}

func (s *Session) executeNondet() string {
	states := automaton.NondeterministicStates(s.auto, automaton.DetectorFor(s.auto.Kind()))
	if len(states) == 0 {
		return fmt.Sprintf("The %s is deterministic", s.auto.Kind())
	}
	return fmt.Sprintf("The %s is nondeterministic at %s", s.auto.Kind(), util.MakeTextList(stateNames(states)))
}

func (s *Session) executeRun(cmd Command) (string, error) {
	simulator, err := sim.For(s.auto, s.prof.SimOptions()...)
	if err != nil {
		return "", err
	}

	var input []symbols.String
	for _, text := range strings.Split(compact(cmd.Rest(0)), "|") {
		in, err := s.auto.ParseInput(text)
		if err != nil {
			return "", fmt.Errorf("input: %w", err)
		}
		input = append(input, in)
	}

	res, err := sim.Run(simulator, input, s.prof.RunOptions(s.log))
	if err != nil {
		return "", err
	}

	shown := make([]string, len(input))
	for i := range input {
		shown[i] = s.prof.Show(input[i])
	}
	inputText := strings.Join(shown, " | ")

	var sb strings.Builder
	switch {
	case res.Accepted():
		sb.WriteString(fmt.Sprintf("Accepted %s", inputText))
	case res.Truncated:
		sb.WriteString(fmt.Sprintf("Undecided on %s; the search stopped before it was finished", inputText))
	default:
		sb.WriteString(fmt.Sprintf("Rejected %s", inputText))
	}
	sb.WriteString(fmt.Sprintf(" (%d configuration%s, %d accepting, %s variant)", res.Tree.Len(), plural(res.Tree.Len()), len(res.Accepting), simulator.Variant()))

	if res.Accepted() {
		path := res.Tree.Path(res.Accepting[0].ID())
		sb.WriteString("\n")
		sb.WriteString(s.table(s.traceRows(path)))
	}

	return sb.String(), nil
}

// traceRows gives the rows of a table that shows each configuration in path.
func (s *Session) traceRows(path []sim.Configuration) [][]string {
	kind := s.auto.Kind()

	header := []string{"Step", "State"}
	switch kind {
	case automaton.TM:
		header = append(header, "Tapes")
	case automaton.PDA:
		header = append(header, "Remaining", "Stack")
	case automaton.Mealy:
		header = append(header, "Remaining", "Output")
	default:
		header = append(header, "Remaining")
	}

	rows := [][]string{header}
	for i, c := range path {
		row := []string{strconv.Itoa(i), c.State().String()}
		switch kind {
		case automaton.TM:
			tapes := make([]string, c.Tapes())
			for t := range tapes {
				tapes[t] = c.Tape(t).String()
			}
			row = append(row, strings.Join(tapes, " | "))
		case automaton.PDA:
			row = append(row, s.prof.Show(c.Remaining()), s.prof.Show(c.Stack()))
		case automaton.Mealy:
			row = append(row, s.prof.Show(c.Remaining()), s.prof.Show(c.Output()))
		default:
			row = append(row, s.prof.Show(c.Remaining()))
		}
		rows = append(rows, row)
	}
	return rows
}
