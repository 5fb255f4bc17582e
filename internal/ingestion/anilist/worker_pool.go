package anilist

import (
	"context"
	"sync"

	"animedrop/internal/logging"
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// WorkerPool runs submitted tasks on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
}

func NewWorkerPool(parent context.Context, workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(parent)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	logging.Debug().Int("workers", wp.workerCount).Msg("worker pool started")
}

// Submit queues task. It reports false when the pool is shutting down.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.closeMux.Lock()
	defer wp.closeMux.Unlock()
	if wp.closed {
		return false
	}
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Wait closes the queue and blocks until queued tasks are done.
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.cancel()
}

// Shutdown cancels in-flight tasks and waits for the workers to exit.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case task, ok := <-wp.taskQueue:
			if !ok {
				return
			}
			if err := task(wp.ctx); err != nil {
				logging.Debug().Err(err).Int("worker", id).Msg("task failed")
			}
		case <-wp.ctx.Done():
			return
		}
	}
}
