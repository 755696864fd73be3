package collector

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

// JobCollector records split jobs. Running jobs are tracked separately until
// they finish and are moved into the history buffer.
type JobCollector struct {
	buffer   *LookupRingBuffer[*Job, uuid.UUID]
	notifier *Notifier[*Job]

	running   map[uuid.UUID]*Job
	runningMu sync.RWMutex
}

type JobOptions struct {
	// NotifierOptions are options for notification about finished jobs
	NotifierOptions *NotifierOptions
}

func DefaultJobOptions() JobOptions {
	return JobOptions{}
}

func NewJobCollector(capacity uint64) *JobCollector {
	return NewJobCollectorWithOptions(capacity, DefaultJobOptions())
}

func NewJobCollectorWithOptions(capacity uint64, options JobOptions) *JobCollector {
	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &JobCollector{
		buffer:   NewLookupRingBuffer[*Job, uuid.UUID](capacity),
		notifier: NewNotifierWithOptions[*Job](notifierOptions),
		running:  make(map[uuid.UUID]*Job),
	}
}

// StartJob registers a running job.
func (c *JobCollector) StartJob(kind JobKind, input string) *Job {
	job := &Job{
		ID:    uuid.Must(uuid.NewV7()),
		Kind:  kind,
		Input: input,
		Start: time.Now(),
	}

	c.runningMu.Lock()
	c.running[job.ID] = job
	c.runningMu.Unlock()

	return job
}

// FinishJob stores the outcome of job and notifies subscribers. It returns the finished job.
func (c *JobCollector) FinishJob(job *Job, result *splitter.Result, err error) *Job {
	finished := *job
	finished.End = time.Now()
	finished.Result = result
	if err != nil {
		finished.Err = err.Error()
	}

	c.runningMu.Lock()
	delete(c.running, job.ID)
	c.runningMu.Unlock()

	c.buffer.Add(&finished)
	c.notifier.Notify(&finished)

	return &finished
}

// Run starts a job, calls fn and finishes the job with its outcome.
func (c *JobCollector) Run(kind JobKind, input string, fn func() (*splitter.Result, error)) (*Job, error) {
	job := c.StartJob(kind, input)
	result, err := fn()
	return c.FinishJob(job, result, err), err
}

// GetJob returns a running or finished job by ID.
func (c *JobCollector) GetJob(id uuid.UUID) (*Job, bool) {
	c.runningMu.RLock()
	job, ok := c.running[id]
	c.runningMu.RUnlock()
	if ok {
		return job, true
	}
	return c.buffer.Lookup(id)
}

// GetJobs returns up to limit jobs, newest first. Running jobs come before finished ones.
func (c *JobCollector) GetJobs(limit uint64) []*Job {
	c.runningMu.RLock()
	jobs := make([]*Job, 0, len(c.running))
	for _, job := range c.running {
		jobs = append(jobs, job)
	}
	c.runningMu.RUnlock()

	slices.SortFunc(jobs, func(a, b *Job) int {
		return b.Start.Compare(a.Start)
	})

	finished := c.buffer.Tail(limit)
	slices.Reverse(finished)
	jobs = append(jobs, finished...)

	if uint64(len(jobs)) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

// Subscribe returns a channel that receives finished jobs
func (c *JobCollector) Subscribe(ctx context.Context) <-chan *Job {
	return c.notifier.Subscribe(ctx)
}

// Close releases resources used by the collector
func (c *JobCollector) Close() {
	c.notifier.Close()
}
