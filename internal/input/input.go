// Package input contains the readers that get console lines for gar from a
// terminal or from a script.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is the prompt shown by an InteractiveCommandReader until
// SetPrompt is called.
const DefaultPrompt = "gar> "

// DirectCommandReader implements console.Reader and reads commands from any
// generic input stream directly, such as a script file. It does not sanitize
// the input of control and escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
	line          int
}

// InteractiveCommandReader implements console.Reader and reads commands from
// stdin using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// command history. It should only be used when stdin is a TTY.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a DirectCommandReader that reads from r through a
// buffered reader.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveCommandReader and initializes
// readline. The returned InteractiveCommandReader must have Close() called on
// it before disposal to properly teardown readline resources.
func NewInteractiveReader() (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl:     rl,
		prompt: DefaultPrompt,
	}, nil
}

// Close does nothing for a DirectCommandReader; the underlying stream is owned
// by the caller. It exists so that DirectCommandReader implements
// console.Reader.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next non-blank line from the stream. Leading and
// trailing whitespace is removed.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		line, err := dcr.r.ReadString('\n')
		if line != "" || err == nil {
			dcr.line++
		}
		return line, err
	}, dcr.blanksAllowed)
}

// ReadCommand reads the next non-blank line typed at the terminal. Leading and
// trailing whitespace is removed.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	return readNonBlank(icr.rl.Readline, icr.blanksAllowed)
}

func readNonBlank(readLine func() (string, error), blanksAllowed bool) (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = readLine()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// Line returns the 1-based number of the line that the last call to
// ReadCommand returned, or 0 if nothing has been read.
func (dcr *DirectCommandReader) Line() int {
	return dcr.line
}

// AllowBlank sets whether blank lines are returned. By default they are
// skipped.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned. By default they are
// skipped.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.prompt = p
	icr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (icr *InteractiveCommandReader) GetPrompt() string {
	return icr.prompt
}
