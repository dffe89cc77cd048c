package sequence

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingEngine struct {
	mu      sync.Mutex
	playing map[string]bool
	calls   []string
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{playing: map[string]bool{}}
}

func (e *recordingEngine) Play(name string, transition float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing[name] {
		return false
	}
	e.playing[name] = true
	e.calls = append(e.calls, "play:"+name)
	return true
}

func (e *recordingEngine) Stop(name string, transition float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.playing, name)
	e.calls = append(e.calls, "stop:"+name)
}

func (e *recordingEngine) StopAll(transition float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = map[string]bool{}
	e.calls = append(e.calls, "stop_all")
}

func (e *recordingEngine) IsPlaying(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing[name]
}

func (e *recordingEngine) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func runBehavior(t *testing.T, b Behavior, args ...any) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		b(context.Background(), args...)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("behavior did not finish")
	}
}

func TestScriptBehavior(t *testing.T) {
	t.Run("compile_error", func(t *testing.T) {
		if _, err := ScriptBehavior("bad", []byte(`if {`), newRecordingEngine()); err == nil {
			t.Fatal("expected compile error")
		}
	})

	t.Run("drives_engine", func(t *testing.T) {
		engine := newRecordingEngine()
		src := []byte(`
anim.play("Walk", 0.1)
if anim.playing("Walk") {
	anim.stop("Walk")
}
anim.stop_all()
`)
		b, err := ScriptBehavior("drive", src, engine)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		runBehavior(t, b)

		want := []string{"play:Walk", "stop:Walk", "stop_all"}
		got := engine.snapshot()
		if len(got) != len(want) {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected calls %v, got %v", want, got)
			}
		}
	})

	t.Run("args_visible", func(t *testing.T) {
		engine := newRecordingEngine()
		src := []byte(`
if len(args) > 0 && args[0] == "go" {
	anim.play("Jump")
}
`)
		b, err := ScriptBehavior("argsy", src, engine)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		runBehavior(t, b, "go")

		if !engine.IsPlaying("Jump") {
			t.Fatal("expected script to act on its args")
		}
	})

	t.Run("wait_and_done_honor_cancel", func(t *testing.T) {
		engine := newRecordingEngine()
		src := []byte(`
if !wait(30) {
	if done() {
		anim.stop_all()
	}
}
`)
		b, err := ScriptBehavior("cancelly", src, engine)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			b(ctx)
		}()
		cancel()

		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("cancelled script did not finish")
		}
		got := engine.snapshot()
		if len(got) != 1 || got[0] != "stop_all" {
			t.Fatalf("expected [stop_all], got %v", got)
		}
	})

	t.Run("concurrent_runs_are_isolated", func(t *testing.T) {
		engine := newRecordingEngine()
		src := []byte(`
name := "clip"
if len(args) > 0 {
	name = args[0]
}
anim.play(name)
`)
		b, err := ScriptBehavior("iso", src, engine)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}

		var wg sync.WaitGroup
		for _, name := range []string{"A", "B", "C"} {
			wg.Add(1)
			go func(n string) {
				defer wg.Done()
				b(context.Background(), n)
			}(name)
		}
		wg.Wait()

		for _, name := range []string{"A", "B", "C"} {
			if !engine.IsPlaying(name) {
				t.Fatalf("expected %q playing", name)
			}
		}
	})
}
