package pipeline

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) Result

// Result is what one job task reports back. NotStarted marks a task that observed
// cancellation before doing any work.
type Result struct {
	JobID      string
	Matches    int
	NotStarted bool
	Err        error
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. Workers never drop a
// task: cancellation is left to the task itself so every submission yields one Result.
type WorkerPool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	once    sync.Once
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

func (p *WorkerPool) Submit(t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.tasks) })
}

// Run starts the workers. The returned channel is closed once Close has been called and
// every submitted task has reported.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				if t == nil {
					continue
				}
				out <- t(ctx)
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
