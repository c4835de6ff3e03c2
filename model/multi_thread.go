package model

import (
	"context"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
)

// MultiThreadEngine answers a batch of queries on a pool of workers. Each
// query runs on its own SingleThreadEngine, so visited sets and frontiers
// are never shared; forbidden sets may be. Every RunBatch call keeps its own
// queue and outcomes, so one engine may run several batches at once.
type MultiThreadEngine struct {
	Executor   *Executor
	numWorkers int

	// closed is cancelled by Close and stops every running batch.
	closed   context.Context
	shutdown context.CancelFunc
}

// batch is the state of one RunBatch call.
type batch struct {
	ctx       context.Context
	exec      Executor
	workQueue chan *WorkItem
	outcomes  []Outcome

	// Statistics (atomic)
	completed   int64
	unreachable int64
	failed      int64

	workerWg sync.WaitGroup
}

// NewMultiThread creates a batch engine. numWorkers <= 0 means NumCPU; a nil
// executor runs with default settings.
func NewMultiThread(executor *Executor, numWorkers int) *MultiThreadEngine {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if executor == nil {
		executor = &Executor{Reporter: &SilentReporter{}, DebugWriter: io.Discard}
	}
	m := &MultiThreadEngine{
		Executor:   executor,
		numWorkers: numWorkers,
	}
	m.closed, m.shutdown = context.WithCancel(context.Background())
	return m
}

// Close cancels every running batch and any batch started later. RunBatch
// still waits for its workers.
func (m *MultiThreadEngine) Close() {
	m.shutdown()
}

func (b *batch) computeStatistics(workers int, elapsed time.Duration) BatchStatistics {
	return BatchStatistics{
		Queries:     len(b.outcomes),
		Completed:   int(atomic.LoadInt64(&b.completed)),
		Unreachable: int(atomic.LoadInt64(&b.unreachable)),
		Failed:      int(atomic.LoadInt64(&b.failed)),
		Workers:     workers,
		Elapsed:     elapsed,
	}
}

type BatchStatistics struct {
	Queries     int
	Completed   int
	Unreachable int
	Failed      int
	Workers     int
	Elapsed     time.Duration
}

// RunBatch answers every query and returns outcomes in input order.
// A cancelled context stops dispatch; queries never started keep ctx.Err().
func (m *MultiThreadEngine) RunBatch(ctx context.Context, queries []Query) ([]Outcome, BatchStatistics, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.closed, cancel)
	defer stop()
	if m.closed.Err() != nil {
		cancel()
	}

	start := time.Now()
	b := &batch{
		ctx:       ctx,
		exec:      *m.Executor,
		outcomes:  make([]Outcome, len(queries)),
		workQueue: make(chan *WorkItem, m.numWorkers*2),
	}
	// Per-round progress from many queries at once is noise; only the
	// batch summary goes to the reporter.
	b.exec.Reporter = &SilentReporter{}
	for i, q := range queries {
		b.outcomes[i] = Outcome{Query: q}
	}

	for i := 0; i < m.numWorkers; i++ {
		b.workerWg.Add(1)
		go b.worker(i)
	}

	dispatched := 0
dispatch:
	for i, q := range queries {
		select {
		case b.workQueue <- NewWorkItem(i, q):
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(b.workQueue)
	b.workerWg.Wait()

	if err := ctx.Err(); err != nil {
		for i := dispatched; i < len(queries); i++ {
			b.outcomes[i].Err = err
		}
		if m.Executor.Reporter != nil {
			m.Executor.Reporter.Printf("%s Batch cancelled after %d of %d queries\n",
				color.Yellow.Sprint("⚠"), dispatched, len(queries))
		}
		return b.outcomes, b.computeStatistics(m.numWorkers, time.Since(start)), err
	}

	return b.outcomes, b.computeStatistics(m.numWorkers, time.Since(start)), nil
}

// worker drains the work queue until it is closed.
func (b *batch) worker(workerID int) {
	defer b.workerWg.Done()

	for item := range b.workQueue {
		b.processWorkItem(workerID, item)
	}
}

func (b *batch) processWorkItem(workerID int, item *WorkItem) {
	res, err := InitSingleThread(&b.exec, item.Query).RunModel(b.ctx)
	out := &b.outcomes[item.Index]
	if err != nil {
		log.Error().Err(err).Int("worker", workerID).Str("query", item.Query.Name).Msg("Search failed")
		atomic.AddInt64(&b.failed, 1)
		out.Err = err
		return
	}
	out.Result = res
	atomic.AddInt64(&b.completed, 1)
	if !res.Reachable {
		atomic.AddInt64(&b.unreachable, 1)
	}
	log.Debug().Int("worker", workerID).Str("query", item.Query.Name).Int("answer", res.Answer()).Msg("Query done")
}
