package render

import (
	"fmt"
	"log"

	"github.com/milk9111/animkit/animator"
	"github.com/milk9111/animkit/controller"
	"github.com/milk9111/animkit/manifest"
)

// Resolver returns a LoadFunc that resolves the manifest's clip ids into
// Sheet resources, loading sheet images through the process image registry.
func Resolver(m manifest.Manifest) animator.LoadFunc {
	specs := make(map[string]manifest.SheetSpec, len(m.Clips))
	for _, clip := range m.Clips {
		specs[clip.ResourceID()] = clip.Sheet
	}
	return func(id string) (animator.Resource, error) {
		spec, ok := specs[id]
		if !ok {
			return nil, fmt.Errorf("render: no sheet spec for resource %q", id)
		}
		img, err := LoadImage(spec.Image)
		if err != nil {
			return nil, err
		}
		return NewSheet(id, img, spec)
	}
}

// ResolverFile is like Resolver but rereads the manifest file on every cache
// miss, so hot-reloaded sheet geometry takes effect without rebuilding the
// controller.
func ResolverFile(filename string) animator.LoadFunc {
	return func(id string) (animator.Resource, error) {
		m, err := manifest.LoadManifest(filename)
		if err != nil {
			return nil, err
		}
		for _, clip := range m.Clips {
			if clip.ResourceID() == id {
				img, err := LoadImage(clip.Sheet.Image)
				if err != nil {
					return nil, err
				}
				return NewSheet(id, img, clip.Sheet)
			}
		}
		return nil, fmt.Errorf("render: no sheet spec for resource %q in %s", id, filename)
	}
}

// ReloadSequences recompiles the manifest's sequence scripts, replacing any
// registered behavior under the same name and cancelling active runs.
func ReloadSequences(c *controller.Controller, m manifest.Manifest) {
	if c == nil {
		return
	}
	for _, seq := range m.Sequences {
		if seq.Name == "" || seq.Script == "" {
			continue
		}
		src, err := manifest.LoadScript(seq.Script)
		if err != nil {
			log.Printf("render: sequence %q: load script %q: %v", seq.Name, seq.Script, err)
			continue
		}
		if err := c.ReplaceScript(seq.Name, src); err != nil {
			log.Printf("render: sequence %q: %v", seq.Name, err)
		}
	}
}

// Descriptors converts the manifest's clips into controller descriptors.
// Clips with an unknown priority keep the track default.
func Descriptors(m manifest.Manifest) []controller.ClipDescriptor {
	out := make([]controller.ClipDescriptor, 0, len(m.Clips))
	for _, clip := range m.Clips {
		priority, err := animator.ParsePriority(clip.Priority)
		if err != nil {
			log.Printf("render: clip %q: %v", clip.Name, err)
		}
		out = append(out, controller.ClipDescriptor{
			ID:       clip.ResourceID(),
			Name:     clip.Name,
			Speed:    clip.Speed,
			Weight:   clip.Weight,
			Looped:   clip.Looped,
			Priority: priority,
		})
	}
	return out
}

// RegisterSequences compiles the manifest's sequence scripts and registers
// them on the controller. Scripts that fail to load or compile are skipped
// with a warning.
func RegisterSequences(c *controller.Controller, m manifest.Manifest) {
	if c == nil {
		return
	}
	for _, seq := range m.Sequences {
		if seq.Name == "" || seq.Script == "" {
			log.Printf("render: sequence with empty name or script in manifest %q", m.Name)
			continue
		}
		src, err := manifest.LoadScript(seq.Script)
		if err != nil {
			log.Printf("render: sequence %q: load script %q: %v", seq.Name, seq.Script, err)
			continue
		}
		if err := c.RegisterScript(seq.Name, src); err != nil {
			log.Printf("render: sequence %q: %v", seq.Name, err)
		}
	}
}

// NewController builds a controller for model from a manifest: clips loaded
// eagerly, sequence scripts registered.
func NewController(model *Model, m manifest.Manifest, overwrite bool) *Controller {
	c := controller.New(model, Resolver(m), Descriptors(m), overwrite)
	RegisterSequences(c, m)
	return &Controller{Controller: c, model: model}
}

// NewControllerFile builds a controller from a manifest file, wiring the
// reread-on-miss resolver so watcher-driven reloads pick up sheet changes.
func NewControllerFile(model *Model, filename string, overwrite bool) (*Controller, error) {
	m, err := manifest.LoadManifest(filename)
	if err != nil {
		return nil, err
	}
	c := controller.New(model, ResolverFile(filename), Descriptors(m), overwrite)
	RegisterSequences(c, m)
	return &Controller{Controller: c, model: model}, nil
}

// Controller couples a controller.Controller with its render model so the
// host game can drive update/draw through one handle.
type Controller struct {
	*controller.Controller
	model *Model
}

// Model returns the render model the controller animates.
func (c *Controller) Model() *Model {
	if c == nil {
		return nil
	}
	return c.model
}
