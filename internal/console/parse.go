package console

import (
	"sort"
	"strings"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/internal/util"
)

// Unlimited is the maximum argument count of a verb that takes any number of
// arguments.
const Unlimited = -1

// verb describes one command that the console understands.
type verb struct {
	args string
	desc string
	min  int
	max  int
}

var verbs = map[string]verb{
	"HELP":      {"", "show this help", 0, 0},
	"QUIT":      {"", "leave the console", 0, 0},
	"PROFILE":   {"", "show the settings in use", 0, 0},
	"AUTOMATON": {"KIND [TAPES]", "start a new automaton of kind fsa, pda, tm, or mealy; a tm can have more than one tape", 1, 2},
	"ALPHABET":  {"NAME [SYMBOLS...]", "add symbols to the input, stack, tape, output, terminals, or variables alphabet, or show it if none are given", 1, Unlimited},
	"RENAME":    {"NAME OLD NEW", "rename a symbol everywhere it is used", 3, 3},
	"UNSYMBOL":  {"NAME SYMBOL [PURGE]", "remove a symbol from an alphabet; with PURGE, every use of it is removed first", 2, 3},
	"STATE":     {"LABEL [INITIAL] [FINAL|NONFINAL]", "add a state, or change an existing one", 1, 3},
	"UNSTATE":   {"LABEL", "remove a state and every transition touching it", 1, 1},
	"TRANS":     {"FROM TO LABEL [; PAYLOAD]", "add a transition; separate the labels of a multi-tape tm with |. The payload is POP/PUSH for a pda, WRITE,MOVE per tape for a tm, and the output for a mealy machine", 3, Unlimited},
	"UNTRANS":   {"ID", "remove the transition with the given ID", 1, 1},
	"STACK":     {"SYMBOL", "set the symbol a pda's stack starts with", 1, 1},
	"SHOW":      {"[AUTOMATON|GRAMMAR]", "show the automaton, the grammar, or both", 0, 1},
	"CLOSURE":   {"LABEL", "show the states reachable from a state by epsilon transitions", 1, 1},
	"NONDET":    {"", "show the states that make the automaton nondeterministic", 0, 0},
	"RUN":       {"INPUT", "simulate the automaton on the input; separate the input of a multi-tape tm with |", 0, Unlimited},
	"GRAMMAR":   {"", "start a new grammar", 0, 0},
	"PROD":      {"LHS -> RHS [| RHS...]", "add productions to the grammar", 1, Unlimited},
	"UNPROD":    {"LHS -> RHS", "remove a production from the grammar", 1, Unlimited},
	"START":     {"VARIABLE", "set the start variable of the grammar", 1, 1},
	"SORT":      {"", "sort the productions of the grammar", 0, 0},
	"DERIVE":    {"TARGET", "search for a derivation of the target from the start variable", 0, Unlimited},
}

// VerbAliases maps alternate names of verbs to the canonical one.
var VerbAliases = map[string]string{
	"BYE":      "QUIT",
	"EXIT":     "QUIT",
	"NEW":      "AUTOMATON",
	"ALPHA":    "ALPHABET",
	"DELSYM":   "UNSYMBOL",
	"DELSTATE": "UNSTATE",
	"DELTRANS": "UNTRANS",
	"DELPROD":  "UNPROD",
	"SIM":      "RUN",
	"LS":       "SHOW",
	"RULE":     "PROD",
	"?":        "HELP",
}

// commandHelp returns the help table rows for every verb, ordered by verb.
func commandHelp() [][2]string {
	aliases := map[string][]string{}
	for alias, canon := range VerbAliases {
		aliases[canon] = append(aliases[canon], alias)
	}

	var rows [][2]string
	for _, name := range util.OrderedKeys(verbs) {
		v := verbs[name]

		names := []string{name}
		if as, ok := aliases[name]; ok {
			sort.Strings(as)
			names = append(names, as...)
		}
		term := strings.Join(names, "/")
		if v.args != "" {
			term += " " + v.args
		}
		rows = append(rows, [2]string{term, v.desc})
	}
	return rows
}

// ParseCommand parses a command from the given line of input. A line that is
// blank or starts with "#" is a comment and gives a Command with an empty
// Verb.
func ParseCommand(toParse string) (Command, error) {
	var cmd Command

	toParse = strings.TrimSpace(toParse)
	if toParse == "" || strings.HasPrefix(toParse, "#") {
		return cmd, nil
	}

	tokens := strings.Fields(toParse)
	name := strings.ToUpper(tokens[0])
	if canon, ok := VerbAliases[name]; ok {
		name = canon
	}

	v, ok := verbs[name]
	if !ok {
		return cmd, garerrors.Newf(garerrors.ErrUnparseable, "I don't know what you mean by %q", tokens[0])
	}

	args := tokens[1:]
	if len(args) < v.min || (v.max != Unlimited && len(args) > v.max) {
		usage := name
		if v.args != "" {
			usage += " " + v.args
		}
		if v.max == 0 {
			return cmd, garerrors.Newf(garerrors.ErrUnparseable, "%s takes nothing else; type %s by itself", tokens[0], tokens[0])
		}
		return cmd, garerrors.Newf(garerrors.ErrUnparseable, "usage: %s", usage)
	}

	cmd.Verb = name
	cmd.Args = args
	return cmd, nil
}
