package render

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// testSheet builds a sheet with n frame slots at the given fps. Update only
// consults the frame count, so the slots can stay empty.
func testSheet(n int, fps float64) *Sheet {
	return &Sheet{id: "test", frames: make([]*ebiten.Image, n), fps: fps}
}

// stepUntilStopped updates the track until playback ends, returning how many
// ticks that took and the callbacks from the finishing tick.
func stepUntilStopped(t *testing.T, track *SheetTrack, maxTicks int) (int, []func()) {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		fns := track.Update()
		if !track.IsPlaying() {
			return i, fns
		}
	}
	t.Fatalf("track still playing after %d ticks", maxTicks)
	return 0, nil
}

func TestSheetTrackUpdate(t *testing.T) {
	// 12 fps on a 60 tick clock is 5 ticks per frame.
	t.Run("non_loop_ends_on_last_frame", func(t *testing.T) {
		track := newSheetTrack(testSheet(3, 12))
		fired := 0
		track.OnStopped(func() { fired++ })
		track.Play(0, 0, 0)

		ticks, fns := stepUntilStopped(t, track, 100)
		if ticks != 15 {
			t.Fatalf("expected 3 frames x 5 ticks = 15 ticks, got %d", ticks)
		}
		for _, fn := range fns {
			fn()
		}
		if fired != 1 {
			t.Fatalf("expected one stop notification, got %d", fired)
		}
		if track.IsPlaying() {
			t.Fatal("expected track stopped")
		}
		if track.current != 2 {
			t.Fatalf("expected playback held on last frame, got %d", track.current)
		}
	})

	t.Run("looped_wraps_and_keeps_playing", func(t *testing.T) {
		track := newSheetTrack(testSheet(3, 12))
		track.SetLooped(true)
		track.Play(0, 0, 0)

		for i := 0; i < 14; i++ {
			if fns := track.Update(); fns != nil {
				t.Fatalf("looped track stopped at tick %d", i+1)
			}
		}
		// Tick 15 wraps back to the first frame.
		if fns := track.Update(); fns != nil {
			t.Fatal("looped track stopped on wrap")
		}
		if track.current != 0 {
			t.Fatalf("expected wrap to frame 0, got %d", track.current)
		}
		if !track.IsPlaying() {
			t.Fatal("expected looped track still playing")
		}
	})

	t.Run("single_frame_non_loop_ends_after_frame_duration", func(t *testing.T) {
		track := newSheetTrack(testSheet(1, 12))
		track.Play(0, 0, 0)

		ticks, _ := stepUntilStopped(t, track, 100)
		if ticks != 5 {
			t.Fatalf("expected single frame to end after 5 ticks, got %d", ticks)
		}
	})

	t.Run("speed_scales_frame_stepping", func(t *testing.T) {
		track := newSheetTrack(testSheet(3, 12))
		track.Play(0, 0, 2)

		ticks, _ := stepUntilStopped(t, track, 100)
		if ticks != 8 {
			t.Fatalf("expected double speed to finish in 8 ticks, got %d", ticks)
		}
	})

	t.Run("blend_out_reaches_zero_then_stops", func(t *testing.T) {
		track := newSheetTrack(testSheet(3, 12))
		track.SetLooped(true)
		track.Play(0, 0, 0)
		if track.weight != 1 {
			t.Fatalf("expected full weight after instant play, got %v", track.weight)
		}

		track.Stop(0.1) // 6 ticks at 60 ticks per second
		for i := 0; i < 5; i++ {
			track.Update()
			if !track.IsPlaying() {
				t.Fatalf("stopped before blend-out finished at tick %d", i+1)
			}
			if w := track.weight; w <= 0 || w >= 1 {
				t.Fatalf("expected weight mid-ramp at tick %d, got %v", i+1, w)
			}
		}
		track.Update()
		if track.IsPlaying() {
			t.Fatal("expected stop once the weight reached zero")
		}
		if track.weight != 0 {
			t.Fatalf("expected zero weight after blend-out, got %v", track.weight)
		}
	})

	t.Run("zero_transition_stop_ends_next_tick", func(t *testing.T) {
		track := newSheetTrack(testSheet(3, 12))
		track.SetLooped(true)
		track.Play(0, 0, 0)
		track.Stop(0)

		track.Update()
		if track.IsPlaying() {
			t.Fatal("expected stop on the tick after a zero-transition Stop")
		}
	})

	t.Run("destroy_drops_callbacks", func(t *testing.T) {
		track := newSheetTrack(testSheet(1, 12))
		fired := false
		track.OnStopped(func() { fired = true })
		track.Play(0, 0, 0)
		track.Destroy()

		if fns := track.Update(); fns != nil {
			t.Fatal("expected no updates after Destroy")
		}
		if fired {
			t.Fatal("expected stopped callback dropped on Destroy")
		}
	})

	t.Run("replay_after_natural_end", func(t *testing.T) {
		track := newSheetTrack(testSheet(1, 12))
		track.Play(0, 0, 0)
		stepUntilStopped(t, track, 100)

		track.Play(0, 0, 0)
		if !track.IsPlaying() {
			t.Fatal("expected track playing after replay")
		}
		if track.current != 0 {
			t.Fatalf("expected replay from frame 0, got %d", track.current)
		}
	})
}
