package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/logging"
)

// Outcome is the result of a pooled analysis.
type Outcome struct {
	Report *Report
	Err    error
}

type job struct {
	ctx    context.Context
	sample *audio.VoiceSample
	userID string
	done   chan Outcome
}

// Pool offloads the CPU-bound pipeline from request-handling goroutines to a
// fixed set of workers sized to available cores. Each analysis is
// independent; the pool adds no coordination beyond the queue.
type Pool struct {
	analyzer *Analyzer
	jobs     chan job
	wg       sync.WaitGroup
	once     sync.Once
	logger   logging.Logger
}

// NewPool creates a pool with the given worker count; 0 means GOMAXPROCS.
func NewPool(analyzer *Analyzer, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		analyzer: analyzer,
		jobs:     make(chan job, workers*2),
		logger: logging.WithFields(logging.Fields{
			"component": "analysis_pool",
			"workers":   workers,
		}),
	}

	for range workers {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *Pool) run() {
	defer p.wg.Done()

	for j := range p.jobs {
		if err := j.ctx.Err(); err != nil {
			// Cancelled while queued: discard without running.
			j.done <- Outcome{Err: err}
			continue
		}
		report, err := p.analyzer.Analyze(j.ctx, j.sample, j.userID)
		j.done <- Outcome{Report: report, Err: err}
	}
}

// Submit queues one analysis and returns a channel that receives exactly one
// outcome. Submitting to a closed pool returns an error.
func (p *Pool) Submit(ctx context.Context, sample *audio.VoiceSample, userID string) (<-chan Outcome, error) {
	done := make(chan Outcome, 1)

	select {
	case p.jobs <- job{ctx: ctx, sample: sample, userID: userID, done: done}:
		return done, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis not queued: %w", ctx.Err())
	}
}

// Analyze is the synchronous convenience wrapper over Submit.
func (p *Pool) Analyze(ctx context.Context, sample *audio.VoiceSample, userID string) (*Report, error) {
	done, err := p.Submit(ctx, sample, userID)
	if err != nil {
		return nil, err
	}

	select {
	case outcome := <-done:
		return outcome.Report, outcome.Err
	case <-ctx.Done():
		// The worker will discard the in-flight result.
		return nil, ctx.Err()
	}
}

// Close drains the queue and stops the workers. Safe to call once.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
		p.logger.Debug("analysis pool stopped")
	})
}
