// Package controller tracks which animation clips are loaded and playing on a
// host animator, and runs named sequences as independent tasks. It is a
// bookkeeping layer: skeletal playback and blending stay with the animator
// implementation behind the animator.Track interface.
package controller

import (
	"log"
	"sync"

	"github.com/milk9111/animkit/animator"
	"github.com/milk9111/animkit/sequence"
)

// ClipDescriptor describes one animation clip to load. Zero-valued optional
// fields (Speed, Weight, Priority; Looped false) keep the track's default.
type ClipDescriptor struct {
	ID       string
	Name     string
	Speed    float64
	Weight   float64
	Looped   bool
	Priority animator.Priority
}

// Host owns the animator attached to a model. Controllers obtain their
// animator through it so several controllers can share one model.
type Host interface {
	// Animator returns the animator currently attached, or nil.
	Animator() animator.Animator
	// CreateAnimator attaches and returns a fresh animator.
	CreateAnimator() animator.Animator
}

// Controller owns the loaded/playing clip tables and the sequence registry
// for one model.
type Controller struct {
	mu      sync.Mutex
	anim    animator.Animator
	cache   *animator.ResourceCache
	resolve animator.LoadFunc
	runner  *sequence.Runner

	loaded    map[string]animator.Track
	playing   map[string]animator.Track
	sequences map[string]sequence.Descriptor
	active    map[string]*sequence.Task

	destroyed bool
}

// New creates a controller on host's animator and eagerly loads descriptors.
// With overwrite set, an already-attached animator is destroyed and replaced;
// otherwise it is reused. resolve turns descriptor IDs into resources; nil
// falls back to opaque animator.ResourceID values. An empty descriptor list
// is fine.
func New(host Host, resolve animator.LoadFunc, descriptors []ClipDescriptor, overwrite bool) *Controller {
	if host == nil {
		log.Printf("controller: nil host")
		return nil
	}
	a := host.Animator()
	if a != nil && overwrite {
		a.Destroy()
		a = nil
	}
	if a == nil {
		a = host.CreateAnimator()
	}
	if a == nil {
		log.Printf("controller: host produced no animator")
		return nil
	}
	if resolve == nil {
		resolve = func(id string) (animator.Resource, error) {
			return animator.ResourceID(id), nil
		}
	}

	c := &Controller{
		anim:      a,
		cache:     animator.DefaultCache,
		resolve:   resolve,
		runner:    sequence.NewRunner(),
		loaded:    make(map[string]animator.Track),
		playing:   make(map[string]animator.Track),
		sequences: make(map[string]sequence.Descriptor),
		active:    make(map[string]*sequence.Task),
	}
	for _, d := range descriptors {
		c.LoadAnimation(d)
	}
	return c
}

// SetResourceCache swaps the process-wide resource cache for a private one.
// Useful for tests and for models whose resources must not be shared.
func (c *Controller) SetResourceCache(cache *animator.ResourceCache) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cache = cache
	c.mu.Unlock()
}

// LoadAnimation resolves the descriptor's resource (through the shared cache),
// asks the animator for a track, applies the descriptor's optional playback
// parameters, and stores the track under the descriptor name. A track already
// loaded under that name is destroyed before being replaced.
func (c *Controller) LoadAnimation(d ClipDescriptor) {
	if c == nil {
		return
	}
	if d.Name == "" {
		log.Printf("controller: load animation with empty name (id %q)", d.ID)
		return
	}

	c.mu.Lock()
	anim, cache, resolve := c.anim, c.cache, c.resolve
	c.mu.Unlock()

	res, err := cache.Resolve(d.ID, resolve)
	if err != nil {
		log.Printf("controller: resolve %q for %q: %v", d.ID, d.Name, err)
		return
	}
	track, err := anim.LoadTrack(res)
	if err != nil {
		log.Printf("controller: load track %q: %v", d.Name, err)
		return
	}

	if d.Priority != animator.PriorityUnset {
		track.SetPriority(d.Priority)
	}
	if d.Looped {
		track.SetLooped(true)
	}
	if d.Weight > 0 {
		track.AdjustWeight(d.Weight)
	}
	if d.Speed > 0 {
		track.AdjustSpeed(d.Speed)
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		track.Destroy()
		return
	}
	if prev, ok := c.loaded[d.Name]; ok {
		delete(c.playing, d.Name)
		prev.Destroy()
	}
	c.loaded[d.Name] = track
	c.mu.Unlock()
}

// Play starts the named clip with the given blend parameters and returns its
// track. It warns and returns (nil, false) if the clip isn't loaded or is
// already playing. The clip leaves the playing set when its track reports a
// stop, natural or requested.
func (c *Controller) Play(name string, transition, weight, speed float64) (animator.Track, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	track, ok := c.loaded[name]
	if !ok {
		c.mu.Unlock()
		log.Printf("controller: play %q: not loaded", name)
		return nil, false
	}
	if _, playing := c.playing[name]; playing {
		c.mu.Unlock()
		log.Printf("controller: play %q: already playing", name)
		return nil, false
	}
	c.playing[name] = track
	c.mu.Unlock()

	track.OnStopped(func() {
		c.mu.Lock()
		// A reload may have replaced the entry under this name; only the
		// stopping track removes itself.
		if cur, ok := c.playing[name]; ok && cur == track {
			delete(c.playing, name)
		}
		c.mu.Unlock()
	})
	track.Play(transition, weight, speed)
	return track, true
}

// Stop requests a blend-out stop of the named clip. Not-playing names are a
// no-op. Removal from the playing set happens when the track's stop fires.
func (c *Controller) Stop(name string, transition float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	track, ok := c.playing[name]
	c.mu.Unlock()
	if !ok {
		return
	}
	track.Stop(transition)
}

// StopAll stops every playing clip with the given blend-out time.
func (c *Controller) StopAll(transition float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	tracks := make([]animator.Track, 0, len(c.playing))
	for _, t := range c.playing {
		tracks = append(tracks, t)
	}
	c.mu.Unlock()
	for _, t := range tracks {
		t.Stop(transition)
	}
}

// NewSequence registers a sequence. A name already registered warns and keeps
// the first registration.
func (c *Controller) NewSequence(d sequence.Descriptor) {
	if c == nil {
		return
	}
	if d.Name == "" || d.Behavior == nil {
		log.Printf("controller: sequence with empty name or nil behavior")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sequences[d.Name]; ok {
		log.Printf("controller: sequence %q already registered", d.Name)
		return
	}
	c.sequences[d.Name] = d
}

// ReplaceSequence cancels any active run of the named sequence and swaps in a
// new behavior. Unlike NewSequence it overwrites; the hot-reload path uses it.
func (c *Controller) ReplaceSequence(d sequence.Descriptor) {
	if c == nil || d.Name == "" || d.Behavior == nil {
		return
	}
	c.StopSequence(d.Name)
	c.mu.Lock()
	c.sequences[d.Name] = d
	c.mu.Unlock()
}

// PlaySequence spawns the named sequence's behavior as an independent task,
// passing args through. It warns if the sequence is unregistered or already
// active. The active entry clears itself when the task finishes.
func (c *Controller) PlaySequence(name string, args ...any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	d, ok := c.sequences[name]
	if !ok {
		c.mu.Unlock()
		log.Printf("controller: sequence %q not registered", name)
		return
	}
	if _, running := c.active[name]; running {
		c.mu.Unlock()
		log.Printf("controller: sequence %q already active", name)
		return
	}

	task := c.runner.Spawn(name, d.Behavior, args...)
	c.active[name] = task
	c.mu.Unlock()

	go func() {
		<-task.Done()
		c.mu.Lock()
		if cur, ok := c.active[name]; ok && cur == task {
			delete(c.active, name)
		}
		c.mu.Unlock()
	}()
}

// StopSequence cancels the named sequence's task, if active, and waits for it
// to return.
func (c *Controller) StopSequence(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	task, ok := c.active[name]
	c.mu.Unlock()
	if !ok {
		return
	}
	task.Cancel()
	<-task.Done()
}

// GetAnimations returns a snapshot of the loaded table. The stop
// notifications and sequence goroutines mutate the tables concurrently with
// callers, so handing out the live map would race; the snapshot is taken
// under the controller lock and is the caller's to keep.
func (c *Controller) GetAnimations() map[string]animator.Track {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]animator.Track, len(c.loaded))
	for name, track := range c.loaded {
		out[name] = track
	}
	return out
}

// GetPlayingAnimations returns a snapshot of the playing table, taken under
// the controller lock like GetAnimations.
func (c *Controller) GetPlayingAnimations() map[string]animator.Track {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]animator.Track, len(c.playing))
	for name, track := range c.playing {
		out[name] = track
	}
	return out
}

// IsPlaying reports whether the named clip is currently in the playing set.
func (c *Controller) IsPlaying(name string) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.playing[name]
	return ok
}

// IsSequenceActive reports whether the named sequence has a running task.
func (c *Controller) IsSequenceActive(name string) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.active[name]
	return ok
}

// RemoveTrack force-stops the named clip if playing, destroys its track, and
// forgets the name. Unknown names are a no-op.
func (c *Controller) RemoveTrack(name string, transition float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	track, ok := c.loaded[name]
	if !ok {
		c.mu.Unlock()
		return
	}
	_, playing := c.playing[name]
	delete(c.playing, name)
	delete(c.loaded, name)
	c.mu.Unlock()

	if playing {
		track.Stop(0)
	}
	track.Destroy()
}

// Reload replaces the named clips with freshly loaded tracks, stopping any
// that were playing. Used by the manifest watcher's hot-reload path.
func (c *Controller) Reload(descriptors []ClipDescriptor) {
	if c == nil {
		return
	}
	for _, d := range descriptors {
		if d.Name == "" {
			continue
		}
		c.mu.Lock()
		_, known := c.loaded[d.Name]
		c.mu.Unlock()
		if known {
			c.cacheForget(d.ID)
		}
		c.LoadAnimation(d)
		log.Printf("controller: reloaded %q", d.Name)
	}
}

func (c *Controller) cacheForget(id string) {
	c.mu.Lock()
	cache := c.cache
	c.mu.Unlock()
	cache.Forget(id)
}

// Destroy stops all playback immediately, destroys every loaded track, and
// cancels active sequence tasks. Sequence registrations survive; the
// controller itself must not be used afterwards.
func (c *Controller) Destroy() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	tracks := make([]animator.Track, 0, len(c.loaded))
	for _, t := range c.loaded {
		tracks = append(tracks, t)
	}
	c.loaded = make(map[string]animator.Track)
	c.playing = make(map[string]animator.Track)
	tasks := make([]*sequence.Task, 0, len(c.active))
	for _, t := range c.active {
		tasks = append(tasks, t)
	}
	c.active = make(map[string]*sequence.Task)
	c.mu.Unlock()

	for _, t := range tracks {
		t.Stop(0)
		t.Destroy()
	}
	for _, t := range tasks {
		t.Cancel()
		<-t.Done()
	}
}
