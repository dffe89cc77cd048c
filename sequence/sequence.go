// Package sequence runs named behavior scripts as independent tasks. A
// sequence is fire-and-forget from the caller's point of view, but every
// spawn hands back a Task that can be cancelled or waited on.
package sequence

import (
	"context"
	"time"
)

// Behavior is the body of a sequence. It runs on its own goroutine and should
// return promptly once ctx is cancelled.
type Behavior func(ctx context.Context, args ...any)

// Descriptor names a sequence behavior for registration.
type Descriptor struct {
	Name     string
	Behavior Behavior
}

// Task is a handle to a spawned sequence.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Name returns the sequence name this task was spawned for.
func (t *Task) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Cancel asks the behavior to stop. It does not wait; use Done.
func (t *Task) Cancel() {
	if t == nil || t.cancel == nil {
		return
	}
	t.cancel()
}

// Done closes when the behavior has returned.
func (t *Task) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// Runner spawns sequence behaviors. The zero value is usable.
type Runner struct{}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Spawn starts behavior on a new goroutine, passing args through, and returns
// its task handle. The behavior's context is cancelled by Task.Cancel.
func (r *Runner) Spawn(name string, behavior Behavior, args ...any) *Task {
	if behavior == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{name: name, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		defer close(t.done)
		behavior(ctx, args...)
	}()
	return t
}

// Wait blocks until ctx is done or d has elapsed, reporting false if the
// context was cancelled first. Behaviors use it for cancellable delays.
func Wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
