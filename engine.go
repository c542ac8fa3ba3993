// Package gar contains a CLI-driven engine for reading console commands that
// build and simulate automata and grammars, continuously until the user quits
// or the input ends.
package gar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/internal/console"
	"github.com/dekarrin/gar/internal/input"
	"github.com/dekarrin/gar/profile"
	"github.com/dekarrin/rosed"
	"go.uber.org/zap"
)

// Engine contains the things needed to run a gar console attached to an input
// stream and an output stream.
type Engine struct {
	session     *console.Session
	in          console.Reader
	out         *bufio.Writer
	width       int
	forceDirect bool
	running     bool
	log         *zap.Logger
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Readline is only used when both are the
// standard streams and forceDirectInput is not set. If log is nil, nothing is
// logged.
func New(inputStream io.Reader, outputStream io.Writer, prof profile.Profile, forceDirectInput bool, log *zap.Logger) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	eng := &Engine{
		session:     console.NewSession(prof, log),
		out:         bufio.NewWriter(outputStream),
		width:       prof.Display.OutputWidth,
		forceDirect: forceDirectInput,
		log:         log,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Session returns the session that commands are executed in.
func (eng *Engine) Session() *console.Session {
	return eng.session
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// RunUntilQuit begins reading commands from the streams and executing them
// until the QUIT command is received or the input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "gar automaton and grammar console\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "=================================\n"
	introMsg += "Type HELP for commands\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := console.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		output, err := eng.session.Execute(cmd)
		if output != "" {
			if err := eng.write(output + "\n"); err != nil {
				return err
			}
		}
		if err != nil {
			eng.log.Debug("command failed", zap.Stringer("command", cmd), zap.Error(err))

			consoleMessage := garerrors.Reason(err)
			if dcr, ok := eng.in.(*input.DirectCommandReader); ok && eng.forceDirect {
				consoleMessage = fmt.Sprintf("line %d: %s", dcr.Line(), consoleMessage)
			}
			consoleMessage = rosed.Edit(consoleMessage).Wrap(eng.width).String()
			if err := eng.write(consoleMessage + "\n"); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}
