package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/animkit/animator"
)

// SheetAnimator is the Ebiten-backed animator.Animator. Tracks it loads are
// advanced by Update, which the host game calls once per tick, and drawn by
// Draw in priority order.
type SheetAnimator struct {
	mu        sync.Mutex
	tracks    []*SheetTrack
	destroyed bool
}

// NewSheetAnimator creates an empty animator.
func NewSheetAnimator() *SheetAnimator {
	return &SheetAnimator{}
}

// LoadTrack produces a playable track from a *Sheet resource.
func (a *SheetAnimator) LoadTrack(res animator.Resource) (animator.Track, error) {
	if a == nil {
		return nil, fmt.Errorf("render: nil animator")
	}
	sheet, ok := res.(*Sheet)
	if !ok {
		return nil, fmt.Errorf("render: resource %q is not a sheet", resID(res))
	}
	track := newSheetTrack(sheet)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return nil, fmt.Errorf("render: animator destroyed")
	}
	a.tracks = append(a.tracks, track)
	return track, nil
}

// Update advances every track by one tick, prunes destroyed tracks, and
// fires stop notifications that came due, outside the track locks.
func (a *SheetAnimator) Update() {
	if a == nil {
		return
	}
	a.mu.Lock()
	kept := a.tracks[:0]
	for _, t := range a.tracks {
		t.mu.Lock()
		dead := t.destroyed
		t.mu.Unlock()
		if !dead {
			kept = append(kept, t)
		}
	}
	a.tracks = kept
	tracks := make([]*SheetTrack, len(a.tracks))
	copy(tracks, a.tracks)
	a.mu.Unlock()

	var fire []func()
	for _, t := range tracks {
		fire = append(fire, t.Update()...)
	}
	for _, fn := range fire {
		fn()
	}
}

// Draw renders all playing tracks, lowest priority first so higher-priority
// clips draw on top.
func (a *SheetAnimator) Draw(screen *ebiten.Image, op *ebiten.DrawImageOptions) {
	if a == nil || screen == nil {
		return
	}
	a.mu.Lock()
	tracks := make([]*SheetTrack, len(a.tracks))
	copy(tracks, a.tracks)
	a.mu.Unlock()

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Priority() < tracks[j].Priority()
	})
	for _, t := range tracks {
		t.Draw(screen, op)
	}
}

// Destroy releases every track. Further LoadTrack calls fail.
func (a *SheetAnimator) Destroy() {
	if a == nil {
		return
	}
	a.mu.Lock()
	tracks := a.tracks
	a.tracks = nil
	a.destroyed = true
	a.mu.Unlock()
	for _, t := range tracks {
		t.Destroy()
	}
}

func resID(res animator.Resource) string {
	if res == nil {
		return ""
	}
	return res.ID()
}

// Model is a drawable host for an animator: a screen position plus the
// attached SheetAnimator. It implements controller.Host.
type Model struct {
	X, Y float64

	mu   sync.Mutex
	anim *SheetAnimator
}

// NewModel creates a model at the given screen position with no animator
// attached yet.
func NewModel(x, y float64) *Model {
	return &Model{X: x, Y: y}
}

// Animator returns the attached animator, or nil.
func (m *Model) Animator() animator.Animator {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.anim == nil {
		return nil
	}
	return m.anim
}

// CreateAnimator attaches and returns a fresh animator, replacing any
// previous one without destroying it.
func (m *Model) CreateAnimator() animator.Animator {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anim = NewSheetAnimator()
	return m.anim
}

// Update advances the attached animator by one tick.
func (m *Model) Update() {
	if m == nil {
		return
	}
	m.mu.Lock()
	a := m.anim
	m.mu.Unlock()
	a.Update()
}

// Draw renders the attached animator's playing tracks at the model position.
func (m *Model) Draw(screen *ebiten.Image) {
	if m == nil {
		return
	}
	m.mu.Lock()
	a := m.anim
	x, y := m.X, m.Y
	m.mu.Unlock()
	if a == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	a.Draw(screen, op)
}
