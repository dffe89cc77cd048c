package sequence

import (
	"context"
	"testing"
	"time"
)

func TestRunnerSpawn(t *testing.T) {
	t.Run("runs_with_args", func(t *testing.T) {
		r := NewRunner()
		got := make(chan []any, 1)
		task := r.Spawn("greet", func(ctx context.Context, args ...any) {
			got <- args
		}, "hello", 7)
		if task == nil {
			t.Fatal("expected a task handle")
		}

		select {
		case args := <-got:
			if len(args) != 2 || args[0] != "hello" || args[1] != 7 {
				t.Fatalf("unexpected args %v", args)
			}
		case <-time.After(time.Second):
			t.Fatal("behavior did not run")
		}

		select {
		case <-task.Done():
		case <-time.After(time.Second):
			t.Fatal("Done did not close after behavior returned")
		}
	})

	t.Run("nil_behavior", func(t *testing.T) {
		r := NewRunner()
		if task := r.Spawn("nothing", nil); task != nil {
			t.Fatal("expected nil task for nil behavior")
		}
	})

	t.Run("cancel_stops_behavior", func(t *testing.T) {
		r := NewRunner()
		task := r.Spawn("wait", func(ctx context.Context, args ...any) {
			<-ctx.Done()
		})

		task.Cancel()
		select {
		case <-task.Done():
		case <-time.After(time.Second):
			t.Fatal("behavior did not observe cancellation")
		}
	})
}

func TestWait(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		if !Wait(context.Background(), time.Millisecond) {
			t.Fatal("expected Wait to report elapsed")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if Wait(ctx, time.Minute) {
			t.Fatal("expected Wait to report cancellation")
		}
	})
}
