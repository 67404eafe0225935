// Package tasks tracks work that runs in the background on behalf of a
// request so the caller can poll for the result.
package tasks

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task id is not known.
var ErrNotFound = errors.New("task not found")

// DefaultTTL is how long a finished task is kept for polling.
const DefaultTTL = 15 * time.Minute

// Set of task states.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task represents the current status of a unit of work.
type Task struct {
	ID        string    `json:"task_id"`
	Status    string    `json:"status"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Registry maintains the set of known tasks. Finished tasks are forgotten
// once they are older than the ttl, pending tasks are always kept.
type Registry struct {
	mu    sync.RWMutex
	wg    sync.WaitGroup
	ttl   time.Duration
	tasks map[string]Task
}

// New constructs an empty registry that keeps finished tasks for the
// default ttl.
func New() *Registry {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL constructs an empty registry that keeps finished tasks for the
// specified duration.
func NewWithTTL(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Registry{
		ttl:   ttl,
		tasks: make(map[string]Task),
	}
}

// Run registers a pending task and executes the function in its own
// goroutine, recording the result when it returns.
func (r *Registry) Run(fn func() (any, error)) Task {
	task := Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Timestamp: time.Now().UTC(),
	}

	r.mu.Lock()
	r.prune(task.Timestamp)
	r.tasks[task.ID] = task
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		result, err := fn()

		done := Task{
			ID:        task.ID,
			Status:    StatusCompleted,
			Result:    result,
			Timestamp: time.Now().UTC(),
		}
		if err != nil {
			done.Status = StatusFailed
			done.Result = nil
			done.Error = err.Error()
		}

		r.mu.Lock()
		r.tasks[task.ID] = done
		r.mu.Unlock()
	}()

	return task
}

// Get returns the task for the specified id.
func (r *Registry) Get(id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(time.Now().UTC())

	task, exists := r.tasks[id]
	if !exists {
		return Task{}, ErrNotFound
	}

	return task, nil
}

// Wait blocks until every running task has finished.
func (r *Registry) Wait() {
	r.wg.Wait()
}

// =============================================================================

// prune removes the finished tasks that expired before now. The caller must
// hold the write lock.
func (r *Registry) prune(now time.Time) {
	for id, task := range r.tasks {
		if task.Status != StatusPending && now.Sub(task.Timestamp) > r.ttl {
			delete(r.tasks, id)
		}
	}
}
