// Package garerrors contains the errors returned by the gar engine. Every error
// created here carries two messages: a technical one returned by Error() and a
// human-readable reason suitable for showing to whoever is building the
// automaton or grammar. The category of an error can be checked with errors.Is
// against one of the sentinel values declared in this package.
package garerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is the category of errors caused by adding a symbol,
	// production, or transition that already exists by value.
	ErrDuplicate = errors.New("duplicate entity")

	// ErrInvalidReference is the category of errors caused by referring to
	// something that is not a member of the thing it is used with, such as a
	// start variable that is not in the variable alphabet or a state that does
	// not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnparseable is the category of errors caused by text that could not
	// be fully consumed into symbols.
	ErrUnparseable = errors.New("unparseable input")

	// ErrMissingInitialState is the category of errors caused by requesting a
	// simulation on an automaton with no initial state.
	ErrMissingInitialState = errors.New("no initial state")

	// ErrNondeterministic is the category of errors caused by using a machine
	// that must be deterministic but is not.
	ErrNondeterministic = errors.New("nondeterministic")

	// ErrInvalid is the category of errors caused by a malformed argument,
	// such as an out-of-range index or a transition label with the wrong number
	// of tapes.
	ErrInvalid = errors.New("invalid argument")

	// ErrIncomplete is the category of errors caused by a definition that is
	// missing a required part.
	ErrIncomplete = errors.New("incomplete definition")

	// ErrModified is the category of errors caused by continuing an
	// exploration after the automaton it started on was mutated.
	ErrModified = errors.New("automaton modified during simulation")
)

type reasonError struct {
	msg    string
	reason string
	kind   error
	wrap   error
}

func (e *reasonError) Error() string {
	return e.msg
}

// Reason returns the human-readable description of the error.
func (e *reasonError) Reason() string {
	return e.reason
}

// Unwrap gives the error that this error wraps, if it wraps one.
func (e *reasonError) Unwrap() error {
	return e.wrap
}

// Is returns whether target is the category of this error.
func (e *reasonError) Is(target error) bool {
	return e.kind == target
}

// New returns a new error in the given category with the given human-readable
// reason. The technical message is derived from the category and the reason.
func New(kind error, reason string) error {
	return &reasonError{
		msg:    fmt.Sprintf("%s: %s", kind.Error(), reason),
		reason: reason,
		kind:   kind,
	}
}

// Newf is New with a format string for the reason.
func Newf(kind error, format string, a ...interface{}) error {
	return New(kind, fmt.Sprintf(format, a...))
}

// Wrap returns a new error in the given category with the given reason that
// also wraps the given error.
func Wrap(err error, kind error, reason string) error {
	return &reasonError{
		msg:    fmt.Sprintf("%s: %s: %s", kind.Error(), reason, err.Error()),
		reason: reason,
		kind:   kind,
		wrap:   err,
	}
}

// Wrapf is Wrap with a format string for the reason.
func Wrapf(err error, kind error, format string, a ...interface{}) error {
	return Wrap(err, kind, fmt.Sprintf(format, a...))
}

// Duplicatef returns a new ErrDuplicate error with a formatted reason.
func Duplicatef(format string, a ...interface{}) error {
	return Newf(ErrDuplicate, format, a...)
}

// InvalidReferencef returns a new ErrInvalidReference error with a formatted
// reason.
func InvalidReferencef(format string, a ...interface{}) error {
	return Newf(ErrInvalidReference, format, a...)
}

// Invalidf returns a new ErrInvalid error with a formatted reason.
func Invalidf(format string, a ...interface{}) error {
	return Newf(ErrInvalid, format, a...)
}

// Reason gets the human-readable reason for the given error. If any error in
// its chain was created by this package, that error's reason is returned.
// Otherwise, err.Error() is returned. Reason returns "" for a nil error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var re *reasonError
	if errors.As(err, &re) {
		return re.Reason()
	}
	return err.Error()
}
