package sim

import (
	"github.com/dekarrin/gar/internal/util"
	"github.com/dekarrin/gar/symbols"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxDepth is the depth cap Run uses when none is given.
	DefaultMaxDepth = 1000

	// DefaultMaxConfigurations is the size cap Run uses when none is given.
	DefaultMaxConfigurations = 100000
)

// RunOptions bounds and instruments a call to Run.
type RunOptions struct {
	// MaxDepth is the number of steps after which a configuration is no
	// longer expanded. If 0, DefaultMaxDepth is used.
	MaxDepth int

	// MaxConfigurations is the number of configurations after which no more
	// are added to the tree. If 0, DefaultMaxConfigurations is used.
	MaxConfigurations int

	// Logger receives a debug entry for every expanded configuration. If nil,
	// nothing is logged.
	Logger *zap.Logger
}

// Result is the outcome of a call to Run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// Tree is every configuration that was produced.
	Tree *Tree

	// Accepting is every accepting configuration, in the order found.
	// Accepting configurations are not expanded further.
	Accepting []Configuration

	// Rejecting is every configuration that is not accepting and has no
	// successors, in the order found.
	Rejecting []Configuration

	// Unexplored is every configuration that was never expanded because a cap
	// was reached.
	Unexplored []Configuration

	// Truncated is whether a cap was reached. If it was, a Result with no
	// Accepting configurations does not mean that the input is rejected.
	Truncated bool
}

// Accepted returns whether any accepting configuration was found.
func (r *Result) Accepted() bool {
	return len(r.Accepting) > 0
}

// Run simulates the given input, one String per tape, by expanding
// configurations breadth-first from the initial ones until none are left to
// expand or a cap in opts is reached.
//
// The automaton must not be mutated while Run is in progress; if it is, Run
// stops with an error matching ErrModified.
func Run(s Simulator, input []symbols.String, opts RunOptions) (*Result, error) {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxConfigurations < 1 {
		opts.MaxConfigurations = DefaultMaxConfigurations
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := &Result{
		RunID: uuid.New().String(),
		Tree:  &Tree{},
	}
	log = log.With(zap.String("run", res.RunID))

	roots, err := s.InitialConfigurations(input...)
	if err != nil {
		return nil, err
	}

	log.Debug("starting simulation",
		zap.Stringer("variant", s.Variant()),
		zap.Int("roots", len(roots)),
		zap.Stringers("input", input),
	)

	var frontier util.Queue[Configuration]
	for _, c := range roots {
		if res.Tree.Len() >= opts.MaxConfigurations {
			res.Truncated = true
			break
		}
		frontier.Push(res.Tree.Add(c))
	}

	for frontier.Len() > 0 {
		cur := frontier.Pop()

		if s.IsAccept(cur) {
			log.Debug("accepting configuration", zap.Int("id", cur.ID()), zap.Stringer("config", cur))
			res.Accepting = append(res.Accepting, cur)
			continue
		}

		if cur.Depth() >= opts.MaxDepth || res.Tree.Len() >= opts.MaxConfigurations {
			res.Truncated = true
			res.Unexplored = append(res.Unexplored, cur)
			continue
		}

		next, err := s.Step(cur)
		if err != nil {
			return nil, err
		}

		log.Debug("expanded configuration",
			zap.Int("id", cur.ID()),
			zap.Stringer("config", cur),
			zap.Int("successors", len(next)),
		)

		if len(next) == 0 {
			res.Rejecting = append(res.Rejecting, cur)
			continue
		}

		for i, c := range next {
			if res.Tree.Len() >= opts.MaxConfigurations {
				res.Truncated = true
				log.Debug("configuration cap reached", zap.Int("dropped", len(next)-i))
				break
			}
			frontier.Push(res.Tree.Add(c))
		}
	}

	log.Debug("simulation finished",
		zap.Int("configurations", res.Tree.Len()),
		zap.Int("accepting", len(res.Accepting)),
		zap.Int("rejecting", len(res.Rejecting)),
		zap.Bool("truncated", res.Truncated),
	)

	return res, nil
}
