// Package animator defines the host-runtime contracts the controller drives:
// an Animator that turns resources into playable tracks, and the Track handle
// itself. The render package provides the Ebiten-backed implementation;
// anything that satisfies these interfaces can host a controller.
package animator

import "fmt"

// Priority orders tracks when several play at once. PriorityUnset keeps the
// track's default.
type Priority int

const (
	PriorityUnset Priority = iota
	PriorityIdle
	PriorityMovement
	PriorityAction
	PriorityCore
)

var priorityNames = map[Priority]string{
	PriorityUnset:    "",
	PriorityIdle:     "idle",
	PriorityMovement: "movement",
	PriorityAction:   "action",
	PriorityCore:     "core",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority maps a manifest string to a Priority. Empty means unset.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "":
		return PriorityUnset, nil
	case "idle":
		return PriorityIdle, nil
	case "movement":
		return PriorityMovement, nil
	case "action":
		return PriorityAction, nil
	case "core":
		return PriorityCore, nil
	}
	return PriorityUnset, fmt.Errorf("unknown priority %q", s)
}

// Resource is a lightweight reference to a raw animation resource, identified
// by the id it was resolved from.
type Resource interface {
	ID() string
}

// ResourceID is the trivial Resource carrying only an identifier. Backends
// that resolve resources themselves can use it directly.
type ResourceID string

// ID returns the identifier.
func (r ResourceID) ID() string { return string(r) }

// LoadFunc resolves an animation resource identifier into a Resource.
type LoadFunc func(id string) (Resource, error)

// Track is a playable instance of a loaded animation clip. Transition times
// are in seconds; weight and speed values <= 0 keep the track's current
// setting.
type Track interface {
	// Play starts playback, blending in over transition seconds.
	Play(transition, weight, speed float64)
	// Stop ends playback, blending out over transition seconds. The stop is
	// observed through OnStopped once the blend-out completes.
	Stop(transition float64)
	// Destroy releases the track. A playing track stops immediately.
	Destroy()

	AdjustWeight(w float64)
	AdjustSpeed(s float64)
	SetPriority(p Priority)
	Priority() Priority
	SetLooped(looped bool)
	Looped() bool
	IsPlaying() bool

	// OnStopped registers a one-shot callback fired the next time playback
	// stops, whether by natural end or an explicit Stop. Destroying the track
	// drops pending callbacks without firing them.
	OnStopped(fn func())
}

// Animator loads resources into playable tracks and owns their lifetime.
type Animator interface {
	LoadTrack(res Resource) (Track, error)
	Destroy()
}
