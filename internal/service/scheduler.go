package service

import (
	"github.com/sourcegraph/conc"
)

// Scheduler runs submitted tasks off the caller's goroutine.
// Tasks submitted to the same scheduler are not ordered relative to each other.
type Scheduler interface {
	Submit(task func())
}

// TaskScheduler runs each task on its own goroutine
type TaskScheduler struct {
	wg conc.WaitGroup
}

// NewTaskScheduler creates a goroutine-backed scheduler
func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{}
}

func (s *TaskScheduler) Submit(task func()) {
	s.wg.Go(task)
}

// Wait blocks until every submitted task has returned.
// A panic in a task is re-raised here.
func (s *TaskScheduler) Wait() {
	s.wg.Wait()
}

// InlineScheduler runs tasks synchronously on the caller's goroutine
type InlineScheduler struct{}

func (InlineScheduler) Submit(task func()) {
	task()
}
