package jobs

import (
	"context"
	"errors"
	"log"
	"sync"

	"taqrir/models"
)

var ErrQueueFull = errors.New("job queue is full")

// Generator produces a report for a query. Implemented by the pipeline.
type Generator interface {
	Generate(ctx context.Context, query string) (models.Report, error)
}

type task struct {
	id    string
	query string
}

// Runner executes submitted jobs on a fixed pool of workers and records
// the terminal state in the store.
type Runner struct {
	store     Store
	generator Generator
	queue     chan task
	logger    *log.Logger
	wg        sync.WaitGroup
}

func NewRunner(store Store, generator Generator, queueSize, workers int) *Runner {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}
	r := &Runner{
		store:     store,
		generator: generator,
		queue:     make(chan task, queueSize),
		logger:    log.New(log.Writer(), "[JOBS] ", log.LstdFlags),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Submit enqueues a job without blocking. A full queue is the caller's
// signal to shed load.
func (r *Runner) Submit(id, query string) error {
	select {
	case r.queue <- task{id: id, query: query}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for in-flight jobs to finish.
func (r *Runner) Close() {
	close(r.queue)
	r.wg.Wait()
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for t := range r.queue {
		ctx := context.Background()
		report, err := r.generator.Generate(ctx, t.query)
		if err != nil {
			r.logger.Printf("job %s failed: %v", t.id, err)
			if serr := r.store.Fail(ctx, t.id, err); serr != nil {
				r.logger.Printf("job %s: recording failure: %v", t.id, serr)
			}
			continue
		}
		if serr := r.store.Succeed(ctx, t.id, report); serr != nil {
			r.logger.Printf("job %s: recording success: %v", t.id, serr)
		}
	}
}
