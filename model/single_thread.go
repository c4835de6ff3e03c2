package model

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/lock"
)

// SingleThreadEngine answers one Query breadth-first, one depth per round.
// All of its state belongs to a single RunModel call.
type SingleThreadEngine struct {
	Queue     []*Thunk
	NextQueue []*Thunk
	Executor  *Executor

	query    Query
	reporter Reporter
	debug    io.Writer
	visited  lock.Set
	parents  map[cas.Hash]cas.Hash
	stats    SearchStatistics
	depth    int // current BFS round
}

func InitSingleThread(exec *Executor, q Query) *SingleThreadEngine {
	st := &SingleThreadEngine{
		Executor: exec,
		query:    q,
		reporter: exec.Reporter,
		debug:    exec.DebugWriter,
	}
	if st.reporter == nil {
		st.reporter = &SilentReporter{}
	}
	if st.debug == nil {
		st.debug = io.Discard
	}
	return st
}

func (s *SingleThreadEngine) computeStatistics() SearchStatistics {
	stats := s.stats
	stats.UniqueStates = len(s.visited)
	stats.MaxDepth = s.depth
	return stats
}

func (s *SingleThreadEngine) result(runID string, distance int, reachable bool) *Result {
	return &Result{
		RunID:      runID,
		Query:      s.query.Name,
		Distance:   distance,
		Reachable:  reachable,
		Statistics: s.computeStatistics(),
	}
}

// record marks st visited and, when tracing, stores it with its parent.
func (s *SingleThreadEngine) record(st lock.State, parent cas.Hash) (*Thunk, error) {
	s.visited.Add(st)
	t := &Thunk{State: st}
	if s.Executor.CAS == nil {
		return t, nil
	}
	h, err := s.Executor.CAS.Put(&st)
	if err != nil {
		return nil, fmt.Errorf("hashing state %s: %w", st, err)
	}
	t.Hash = h
	if parent != 0 {
		s.parents[h] = parent
	}
	return t, nil
}

// buildPath walks the parent links back from the target.
func (s *SingleThreadEngine) buildPath(last *Thunk) ([]lock.State, error) {
	target := s.query.Target
	h, err := s.Executor.CAS.Put(&target)
	if err != nil {
		return nil, fmt.Errorf("hashing target %s: %w", target, err)
	}
	s.parents[h] = last.Hash

	var path []lock.State
	for cur, ok := h, true; ok; cur, ok = s.parents[cur] {
		st, err := cas.LoadState(s.Executor.CAS, cur)
		if err != nil {
			return nil, fmt.Errorf("rebuilding path: %w", err)
		}
		path = append(path, st)
		if st == s.query.Start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

func (s *SingleThreadEngine) RunModel(ctx context.Context) (*Result, error) {
	q := s.query
	runID := ""
	logger := zerolog.Nop()
	if !s.Executor.untracked {
		runID = uuid.NewString()
		logger = log.With().Str("run", runID).Logger()
	}
	w := s.debug
	s.depth = 0
	s.stats = SearchStatistics{}
	s.visited = lock.NewSet()
	s.parents = make(map[cas.Hash]cas.Hash)
	s.Queue, s.NextQueue = nil, nil

	logger.Debug().Str("query", q.Name).
		Stringer("start", q.Start).Stringer("target", q.Target).
		Int("forbidden", len(q.Forbidden)).Msg("Starting search")

	if q.Start == q.Target {
		fmt.Fprintf(w, "Start %s is the target\n", q.Start)
		res := s.result(runID, 0, true)
		if s.Executor.CAS != nil {
			res.Path = []lock.State{q.Start}
		}
		return res, nil
	}
	if q.Forbidden.Has(q.Start) {
		fmt.Fprintf(w, "Start %s is forbidden\n", q.Start)
		return s.result(runID, Unreachable, false), nil
	}

	root, err := s.record(q.Start, 0)
	if err != nil {
		return nil, err
	}
	s.Queue = append(s.Queue, root)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		s.depth++
		if s.Executor.MaxDepth > 0 && s.depth > s.Executor.MaxDepth {
			s.depth = s.Executor.MaxDepth
			fmt.Fprintf(w, "\nReached maximum depth %d, stopping exploration\n", s.Executor.MaxDepth)
			return s.result(runID, Unreachable, false), nil
		}

		fmt.Fprintf(w, "\n=== Depth %d: Expanding %d states ===\n", s.depth, len(s.Queue))
		roundStart := time.Now()
		pruned := 0

		for len(s.Queue) != 0 {
			t := s.Queue[0]
			s.Queue = s.Queue[1:]
			s.stats.Expanded++

			for _, next := range t.State.Neighbors() {
				s.stats.Generated++
				if next == q.Target {
					fmt.Fprintf(w, "Reached target %s from %s\n", next, t.State)
					res := s.result(runID, s.depth, true)
					if s.Executor.CAS != nil {
						res.Path, err = s.buildPath(t)
						if err != nil {
							return nil, err
						}
					}
					logger.Debug().Int("distance", s.depth).Msg("Search finished")
					return res, nil
				}
				if q.Forbidden.Has(next) {
					s.stats.ForbiddenHits++
					pruned++
					continue
				}
				if s.visited.Has(next) {
					s.stats.DuplicateStates++
					pruned++
					continue
				}
				n, err := s.record(next, t.Hash)
				if err != nil {
					return nil, err
				}
				s.NextQueue = append(s.NextQueue, n)
			}
		}

		s.reporter.Printf("%s", formatDepthReport(s.depth, s.stats.Expanded, pruned, len(s.NextQueue), time.Since(roundStart)))

		if len(s.NextQueue) == 0 {
			break
		}
		s.Queue = s.NextQueue
		s.NextQueue = nil
	}

	fmt.Fprintf(w, "\nFrontier exhausted at depth %d, %s is unreachable\n", s.depth, q.Target)
	logger.Debug().Msg("Target unreachable")
	return s.result(runID, Unreachable, false), nil
}
