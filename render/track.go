package render

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/animkit/animator"
	"github.com/milk9111/animkit/common"
)

// ticksPerSecond matches Ebiten's default update rate.
const ticksPerSecond = 60.0

// SheetTrack is a playable instance of a Sheet. Frame stepping and weight
// blending run on the animator's Update tick; blend transitions ramp the
// track's visible weight toward its target over the requested time.
type SheetTrack struct {
	sheet *Sheet

	mu          sync.Mutex
	playing     bool
	fadingOut   bool
	destroyed   bool
	looped      bool
	priority    animator.Priority
	baseWeight  float64
	speed       float64
	weight      float64
	weightFrom  float64
	weightTo    float64
	blendTicks  float64
	blendTick   float64
	current     int
	tick        float64
	ticksPerFrm float64
	stopped     []func()
}

func newSheetTrack(sheet *Sheet) *SheetTrack {
	tpf := 1.0
	if sheet != nil && sheet.FPS() > 0 {
		tpf = math.Max(1, math.Round(ticksPerSecond/sheet.FPS()))
	}
	return &SheetTrack{
		sheet:       sheet,
		baseWeight:  1,
		speed:       1,
		ticksPerFrm: tpf,
	}
}

// Play starts playback from the first frame, blending the weight in over
// transition seconds. weight and speed values <= 0 keep the track's current
// settings.
func (t *SheetTrack) Play(transition, weight, speed float64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	if weight > 0 {
		t.baseWeight = weight
	}
	if speed > 0 {
		t.speed = speed
	}
	t.playing = true
	t.fadingOut = false
	t.current = 0
	t.tick = 0
	t.startBlendLocked(0, t.baseWeight, transition)
}

// Stop blends the weight out over transition seconds, then ends playback and
// fires the stopped callbacks. A zero transition stops on the next tick.
func (t *SheetTrack) Stop(transition float64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || !t.playing {
		return
	}
	t.fadingOut = true
	t.startBlendLocked(t.weight, 0, transition)
}

// Destroy releases the track. Pending stopped callbacks are dropped without
// firing.
func (t *SheetTrack) Destroy() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.destroyed = true
	t.playing = false
	t.fadingOut = false
	t.weight = 0
	t.stopped = nil
	t.mu.Unlock()
}

// AdjustWeight sets the track's playback weight. Values <= 0 are ignored.
func (t *SheetTrack) AdjustWeight(w float64) {
	if t == nil || w <= 0 {
		return
	}
	t.mu.Lock()
	t.baseWeight = w
	if t.playing && !t.fadingOut {
		t.weightTo = w
	}
	t.mu.Unlock()
}

// AdjustSpeed sets the track's playback speed multiplier. Values <= 0 are
// ignored.
func (t *SheetTrack) AdjustSpeed(s float64) {
	if t == nil || s <= 0 {
		return
	}
	t.mu.Lock()
	t.speed = s
	t.mu.Unlock()
}

// SetPriority sets the track's draw ordering priority.
func (t *SheetTrack) SetPriority(p animator.Priority) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.priority = p
	t.mu.Unlock()
}

// Priority returns the track's priority.
func (t *SheetTrack) Priority() animator.Priority {
	if t == nil {
		return animator.PriorityUnset
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priority
}

// SetLooped controls whether playback wraps at the last frame.
func (t *SheetTrack) SetLooped(looped bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.looped = looped
	t.mu.Unlock()
}

// Looped reports whether the track wraps at the last frame.
func (t *SheetTrack) Looped() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.looped
}

// IsPlaying reports whether the track is playing, including during blend-out.
func (t *SheetTrack) IsPlaying() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// OnStopped registers a one-shot callback for the next stop.
func (t *SheetTrack) OnStopped(fn func()) {
	if t == nil || fn == nil {
		return
	}
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.stopped = append(t.stopped, fn)
	t.mu.Unlock()
}

func (t *SheetTrack) startBlendLocked(from, to, transition float64) {
	t.weightFrom = from
	t.weightTo = to
	t.weight = from
	t.blendTick = 0
	t.blendTicks = math.Max(0, transition*ticksPerSecond)
	if t.blendTicks == 0 {
		t.weight = to
	}
}

// Update advances blending and frame stepping by one tick. It returns the
// callbacks to fire when playback stopped this tick; the animator invokes
// them outside the track lock.
func (t *SheetTrack) Update() []func() {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || !t.playing {
		return nil
	}

	if t.blendTick < t.blendTicks {
		t.blendTick++
		t.weight = common.Lerp(t.weightFrom, t.weightTo, t.blendTick/t.blendTicks)
	}
	if t.fadingOut && t.weight <= 0 {
		return t.finishLocked()
	}

	if t.sheet.FrameCount() <= 1 && !t.looped && !t.fadingOut {
		// Single-frame non-looping clip ends after its frame duration.
		t.tick += t.speed
		if t.tick >= t.ticksPerFrm {
			return t.finishLocked()
		}
		return nil
	}

	t.tick += t.speed
	for t.tick >= t.ticksPerFrm {
		t.tick -= t.ticksPerFrm
		t.current++
		if t.current >= t.sheet.FrameCount() {
			if t.looped {
				t.current = 0
				continue
			}
			t.current = t.sheet.FrameCount() - 1
			if !t.fadingOut {
				return t.finishLocked()
			}
		}
	}
	return nil
}

func (t *SheetTrack) finishLocked() []func() {
	t.playing = false
	t.fadingOut = false
	t.weight = 0
	fns := t.stopped
	t.stopped = nil
	return fns
}

// Draw renders the current frame with the track's weight applied as alpha.
// Nothing is drawn when the track isn't playing.
func (t *SheetTrack) Draw(screen *ebiten.Image, op *ebiten.DrawImageOptions) {
	if t == nil || screen == nil {
		return
	}
	t.mu.Lock()
	playing := t.playing && !t.destroyed
	frame := t.sheet.Frame(t.current)
	weight := common.Clamp(t.weight, 0, 1)
	t.mu.Unlock()
	if !playing || frame == nil || weight <= 0 {
		return
	}

	var dop ebiten.DrawImageOptions
	if op != nil {
		dop = *op
	}
	dop.Filter = ebiten.FilterNearest
	dop.ColorScale.ScaleAlpha(float32(weight))
	screen.DrawImage(frame, &dop)
}
