package model

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/lock"
)

// Unreachable is the answer reported when no path to the target exists.
const Unreachable = -1

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("model: invalid option supplied")

// A Query is one shortest-path question. Forbidden is only ever read, so the
// same set may back many queries at once.
type Query struct {
	Name      string
	Start     lock.State
	Target    lock.State
	Forbidden lock.Set
	// Expect, when set, is the answer the query should produce.
	Expect *int
}

// NewQuery asks for the distance from the zero state to target.
func NewQuery(target lock.State, forbidden lock.Set) Query {
	return Query{
		Start:     lock.Zero,
		Target:    target,
		Forbidden: forbidden,
	}
}

// Result is the outcome of a single search.
type Result struct {
	RunID      string
	Query      string
	Distance   int
	Reachable  bool
	Path       []lock.State
	Statistics SearchStatistics
}

// Answer is Distance, or Unreachable when there is no path.
func (r *Result) Answer() int {
	if !r.Reachable {
		return Unreachable
	}
	return r.Distance
}

type SearchStatistics struct {
	Expanded        int // states whose neighbors were generated
	Generated       int // neighbor states produced
	UniqueStates    int // states marked visited, including the start
	ForbiddenHits   int
	DuplicateStates int
	MaxDepth        int
}

// An Executor is the configuration shared by every search it runs.
type Executor struct {
	// CAS records visited states so the path can be rebuilt. Nil disables tracing.
	CAS cas.CAS
	// MaxDepth, if > 0, gives up after that many rounds.
	MaxDepth    int
	Reporter    Reporter
	DebugWriter io.Writer

	// untracked skips the RunID and debug logging.
	untracked bool
	err       error
}

type Option func(*Executor)

func NewExecutor(opts ...Option) (*Executor, error) {
	e := &Executor{
		Reporter:    &SilentReporter{},
		DebugWriter: io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.err != nil {
		return nil, e.err
	}
	return e, nil
}

// WithTrace stores visited states in c and fills Result.Path.
func WithTrace(c cas.CAS) Option {
	return func(e *Executor) {
		e.CAS = c
	}
}

// WithMaxDepth stops the search after d rounds. Zero means no limit.
func WithMaxDepth(d int) Option {
	return func(e *Executor) {
		if d < 0 {
			e.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		e.MaxDepth = d
	}
}

func WithReporter(r Reporter) Option {
	return func(e *Executor) {
		if r != nil {
			e.Reporter = r
		}
	}
}

func WithDebugWriter(w io.Writer) Option {
	return func(e *Executor) {
		if w != nil {
			e.DebugWriter = w
		}
	}
}

// Run answers q on a fresh single-threaded engine.
func (e *Executor) Run(ctx context.Context, q Query) (*Result, error) {
	return InitSingleThread(e, q).RunModel(ctx)
}

// Run answers q with an executor built from opts.
func Run(ctx context.Context, q Query, opts ...Option) (*Result, error) {
	e, err := NewExecutor(opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, q)
}

// ShortestPath returns the fewest moves from start to target that never
// touch a forbidden state, or Unreachable. start == target is 0 moves even
// when start itself is forbidden.
func ShortestPath(forbidden lock.Set, start, target lock.State) int {
	q := Query{Start: start, Target: target, Forbidden: forbidden}
	res, err := InitSingleThread(&Executor{untracked: true}, q).RunModel(context.Background())
	if err != nil {
		// Without a CAS or a cancellable context the search cannot fail.
		panic(err)
	}
	return res.Answer()
}
