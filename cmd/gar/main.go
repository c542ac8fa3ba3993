/*
Gar starts an interactive console for building and simulating automata and
grammars.

It reads console commands from stdin, or from a script file if one is given,
and prints the result of each one to stdout until the "QUIT" command is input or
the input ends.

Usage:

	gar [flags]
	gar [flags] SCRIPT

The flags are:

	-v, --version
		Give the current version of gar and then exit.

	-p, --profile FILE
		Use the settings in the given TOML profile. If not given, will default
		to the value of environment variable GAR_PROFILE, and if that is not
		given, the built-in defaults are used.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout. This is always on when a script is given.

	--debug
		Write a debug log of every command, simulation step, and derivation
		step to stderr.

Once a session has started, each line of input is parsed as a gar command. For
an explanation of the commands, type "HELP" once in a session. Lines starting
with "#" are ignored.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/gar"
	"github.com/dekarrin/gar/internal/version"
	"github.com/dekarrin/gar/profile"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	EnvProfile = "GAR_PROFILE"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem while reading or executing commands.
	ExitRunError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of gar and then exit.")
	flagProfile = pflag.StringP("profile", "p", "", "Use the settings in the given TOML profile.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagDebug   = pflag.Bool("debug", false, "Write a debug log to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	prof, err := loadProfile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	log := zap.NewNop()
	if *flagDebug {
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: creating logger: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer log.Sync()
	}

	var in io.Reader = os.Stdin
	forceDirect := *flagDirect
	if pflag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "ERROR: only one script can be given\n")
		returnCode = ExitInitError
		return
	} else if pflag.NArg() == 1 {
		f, err := os.Open(pflag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer f.Close()
		in = f
		forceDirect = true
	}

	eng, initErr := gar.New(in, os.Stdout, prof, forceDirect, log)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err = eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}

// loadProfile loads the profile named by the flag or the environment, or gives
// the default one if neither names one.
func loadProfile() (profile.Profile, error) {
	path := *flagProfile
	if path == "" {
		path = os.Getenv(EnvProfile)
	}
	if path == "" {
		return profile.Default(), nil
	}
	return profile.Load(path)
}
