// Package console defines the commands of the gar console, parses them from
// lines of input, and executes them against an automaton and a grammar held in
// a Session.
package console

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dekarrin/gar/garerrors"
)

// Command is a single parsed line of console input.
type Command struct {
	// Verb is the canonical upper-case name of the command, such as "STATE",
	// "TRANS", or "RUN". Aliases are expanded before it is set, so typing
	// "NEW" gives a Command with a Verb of "AUTOMATON".
	Verb string

	// Args is the whitespace-separated words after the verb. Their case is
	// kept because symbols and state labels are case sensitive.
	Args []string
}

// Rest returns the args joined with single spaces, starting at the given
// index. It is "" if there are not enough args.
func (c Command) Rest(from int) string {
	if from >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[from:], " ")
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Verb
	}
	return c.Verb + " " + strings.Join(c.Args, " ")
}

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single line of input. It will block until one is
	// ready. If there is an error or input is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty.
	ReadCommand() (string, error)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// Get obtains a single command by reading lines from the provided Reader until
// one of them parses. Comment lines are skipped. For every line that does not
// parse, the reason is written to ostream and reading continues.
//
// This function does not check whether the command can be executed, only that
// a Command can be parsed from the input.
func Get(cmdStream Reader, ostream *bufio.Writer) (Command, error) {
	for {
		line, err := cmdStream.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			errMsg := fmt.Sprintf("%v\nTry HELP for valid commands\n", garerrors.Reason(err))
			if _, err := ostream.WriteString(errMsg); err != nil {
				return cmd, fmt.Errorf("could not write output: %w", err)
			}
			if err := ostream.Flush(); err != nil {
				return cmd, fmt.Errorf("could not flush output: %w", err)
			}
		} else if cmd.Verb != "" {
			return cmd, nil
		}
	}
}
