// Package thumbnails derives fixed-width variants of uploaded images. Jobs
// are queued after the image record is stored and processed by a worker
// pool in the background.
package thumbnails

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by a bounded queue that cannot take more jobs.
var ErrQueueFull = errors.New("thumbnail queue is full")

// Job asks for the variants of one image.
type Job struct {
	FileID string `cbor:"1,keyasint"`
	UserID string `cbor:"2,keyasint"`
}

// Queue carries jobs from the upload path to the worker pool. Dequeue
// blocks until a job is available or ctx is done.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
	Close() error
}

// MemoryQueue is a bounded in-process queue.
type MemoryQueue struct {
	jobs chan Job
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan Job, capacity)}
}

// Enqueue never blocks; a full queue drops the job with ErrQueueFull.
func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case job := <-q.jobs:
		return job, nil
	}
}

func (q *MemoryQueue) Close() error { return nil }
