// Package profile loads gar profiles, TOML files that hold the settings used
// when simulating automata and deriving from grammars.
//
// A profile file must begin with the common header:
//
//	format = "GAR"
//	type = "PROFILE"
//
// followed by any of the [simulation] and [display] tables. Keys that are not
// given keep their default values.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/gar/grammar"
	"github.com/dekarrin/gar/sim"
	"github.com/dekarrin/gar/symbols"
	"go.uber.org/zap"
)

const (
	// AcceptFinalState is the PDA acceptance mode where a PDA accepts when its
	// input is consumed in a final state.
	AcceptFinalState = "final-state"

	// AcceptEmptyStack is the PDA acceptance mode where a PDA accepts when its
	// input is consumed with an empty stack.
	AcceptEmptyStack = "empty-stack"
)

// MinOutputWidth is the smallest output width a profile may set.
const MinOutputWidth = 20

var (
	// ErrFormat is the error returned when a file is not a gar profile.
	ErrFormat = errors.New(`not a gar profile; it must begin with format = "GAR" and type = "PROFILE"`)
)

// FileInfo is the header that every gar file has.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Simulation is the settings used when running automata and deriving from
// grammars.
type Simulation struct {
	// MaxConfigurations is the most configurations a simulation produces
	// before it stops, and the most sentential forms a derivation explores.
	MaxConfigurations int `toml:"max_configurations"`

	// MaxDepth is the most steps a simulation or derivation takes down any
	// one path.
	MaxDepth int `toml:"max_depth"`

	// PDAAcceptance is AcceptFinalState or AcceptEmptyStack.
	PDAAcceptance string `toml:"pda_acceptance"`

	// TuringFinalTransitions is whether Turing machines may have transitions
	// leaving a final state.
	TuringFinalTransitions bool `toml:"turing_final_transitions"`

	// Closure is whether finite-state automata are simulated by epsilon
	// closure rather than one transition at a time.
	Closure bool `toml:"closure"`
}

// Display is the settings used when showing results.
type Display struct {
	// EmptyString is the marker shown for the empty string, either
	// symbols.Epsilon or symbols.Lambda.
	EmptyString string `toml:"empty_string"`

	// OutputWidth is the width that console output is wrapped to.
	OutputWidth int `toml:"output_width"`
}

// Profile is a complete set of settings.
type Profile struct {
	FileInfo

	Simulation Simulation `toml:"simulation"`
	Display    Display    `toml:"display"`
}

// Default returns the profile used when none is loaded.
func Default() Profile {
	return Profile{
		FileInfo: FileInfo{Format: "GAR", Type: "PROFILE"},
		Simulation: Simulation{
			MaxConfigurations: sim.DefaultMaxConfigurations,
			MaxDepth:          sim.DefaultMaxDepth,
			PDAAcceptance:     AcceptFinalState,
			Closure:           true,
		},
		Display: Display{
			EmptyString: symbols.Epsilon,
			OutputWidth: 80,
		},
	}
}

// Load reads the profile in the file at the given path.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%q: %w", path, err)
	}
	return p, nil
}

// Parse reads a profile from TOML data. Settings not in the data are taken
// from Default. Unknown keys are an error.
func Parse(data []byte) (Profile, error) {
	info, err := ScanFileInfo(data)
	if err != nil {
		return Profile{}, fmt.Errorf("reading header: %w", err)
	}
	if !strings.EqualFold(info.Format, "GAR") || !strings.EqualFold(info.Type, "PROFILE") {
		return Profile{}, ErrFormat
	}

	p := Default()
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return Profile{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}
		return Profile{}, fmt.Errorf("unknown key(s): %s", strings.Join(keys, ", "))
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ScanFileInfo reads the common header from the given data. Only the top-level
// table (everything before the first table header) is read.
func ScanFileInfo(data []byte) (FileInfo, error) {
	topLevelEnd := -1
	onNewLine := true
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// Validate returns an error describing the first setting that is out of range.
func (p Profile) Validate() error {
	if !symbols.IsEmptyMarker(p.Display.EmptyString) {
		return fmt.Errorf("display.empty_string: must be %q or %q, not %q", symbols.Epsilon, symbols.Lambda, p.Display.EmptyString)
	}
	if p.Display.OutputWidth < MinOutputWidth {
		return fmt.Errorf("display.output_width: must be at least %d", MinOutputWidth)
	}
	if p.Simulation.MaxConfigurations < 1 {
		return fmt.Errorf("simulation.max_configurations: must be at least 1")
	}
	if p.Simulation.MaxDepth < 1 {
		return fmt.Errorf("simulation.max_depth: must be at least 1")
	}
	switch p.Simulation.PDAAcceptance {
	case AcceptFinalState, AcceptEmptyStack:
	default:
		return fmt.Errorf("simulation.pda_acceptance: must be %q or %q, not %q", AcceptFinalState, AcceptEmptyStack, p.Simulation.PDAAcceptance)
	}
	return nil
}

// SimOptions returns the options to create a simulator with.
func (p Profile) SimOptions() []sim.Option {
	var opts []sim.Option
	if !p.Simulation.Closure {
		opts = append(opts, sim.WithoutClosure())
	}
	if p.Simulation.PDAAcceptance == AcceptEmptyStack {
		opts = append(opts, sim.AcceptByEmptyStack())
	}
	if p.Simulation.TuringFinalTransitions {
		opts = append(opts, sim.AllowFinalTransitions())
	}
	return opts
}

// RunOptions returns the options to run a simulation with.
func (p Profile) RunOptions(log *zap.Logger) sim.RunOptions {
	return sim.RunOptions{
		MaxDepth:          p.Simulation.MaxDepth,
		MaxConfigurations: p.Simulation.MaxConfigurations,
		Logger:            log,
	}
}

// DeriveOptions returns the options to derive from a grammar with.
func (p Profile) DeriveOptions(log *zap.Logger) grammar.DeriveOptions {
	return grammar.DeriveOptions{
		MaxDepth: p.Simulation.MaxDepth,
		MaxForms: p.Simulation.MaxConfigurations,
		Logger:   log,
	}
}

// Show returns the display form of s using the profile's empty string marker.
func (p Profile) Show(s symbols.String) string {
	return s.Display(p.Display.EmptyString)
}
