package worker

import (
	"context"
	"sync"
)

// Job is one unit of work run by a Pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produced
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines. Jobs receive the pool's
// context, which ends when the parent context does or on Shutdown.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	closeJobs    sync.Once
	closeResults sync.Once
}

// NewPool creates a pool of workers goroutines
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a pool whose jobs are canceled with ctx
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			select {
			case p.results <- job.Execute(p.ctx):
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues job. It blocks while the queue is full and drops the job
// once the pool is canceled.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Close stops accepting jobs; workers exit once the queue is drained
func (p *Pool) Close() {
	p.closeJobs.Do(func() {
		close(p.jobs)
	})
}

// Wait closes the queue and returns every result
func (p *Pool) Wait() []Result {
	p.Close()
	return p.Collect()
}

// Collect gathers results until every worker has exited. Callers submitting
// from another goroutine must call Close when done.
func (p *Pool) Collect() []Result {
	go func() {
		p.wg.Wait()
		p.finish()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels running jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.finish()
}

func (p *Pool) finish() {
	p.closeResults.Do(func() {
		close(p.results)
	})
}
