package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bling/internal/core"
	"bling/internal/log"
)

// ErrQueueFull is returned by Submit when the job buffer is at capacity.
var ErrQueueFull = errors.New("report queue full")

// Job is one queued report request.
type Job struct {
	ID    uuid.UUID
	Month core.MonthKey
}

// Result signals completion or failure of a job back to the submitter.
type Result struct {
	Job  Job
	Path string
	Err  error
}

// Pool runs report jobs concurrently with a bounded number of in-flight
// generations. Submissions are non-blocking.
type Pool struct {
	gen     *Generator
	jobs    chan Job
	results chan Result
	maxJobs int
	timeout time.Duration
	logger  *log.Logger
}

// NewPool creates a pool running at most maxJobs generations at once, each
// bounded by timeout.
func NewPool(gen *Generator, maxJobs int, timeout time.Duration, logger *log.Logger) *Pool {
	return &Pool{
		gen:     gen,
		jobs:    make(chan Job, maxJobs*4),
		results: make(chan Result, maxJobs*4),
		maxJobs: maxJobs,
		timeout: timeout,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// Submit queues a report for month and returns the job handle immediately.
func (p *Pool) Submit(month core.MonthKey) (Job, error) {
	if err := month.Validate(); err != nil {
		return Job{}, err
	}
	job := Job{ID: uuid.New(), Month: month}
	select {
	case p.jobs <- job:
		return job, nil
	default:
		return Job{}, ErrQueueFull
	}
}

// Schedule queues a report for month. It adapts Submit to the HTTP
// layer's scheduler port.
func (p *Pool) Schedule(_ context.Context, month core.MonthKey) (uuid.UUID, error) {
	job, err := p.Submit(month)
	return job.ID, err
}

// Results delivers one Result per completed or failed job.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Run consumes jobs until ctx is cancelled, then waits for in-flight
// generations to finish before closing the results channel.
func (p *Pool) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	g.SetLimit(p.maxJobs)

	for {
		select {
		case <-ctx.Done():
			err := g.Wait()
			close(p.results)
			return err
		case job := <-p.jobs:
			g.Go(func() error {
				p.run(ctx, job)
				return nil
			})
		}
	}
}

func (p *Pool) run(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	path, err := p.gen.Generate(jobCtx, job.Month, job.ID)
	if err != nil {
		p.logger.ErrorContext(ctx, "report job failed",
			log.FieldJobID, job.ID.String(),
			log.FieldMonth, job.Month.String(),
			log.FieldError, err,
		)
	}

	select {
	case p.results <- Result{Job: job, Path: path, Err: err}:
	case <-ctx.Done():
	}
}
