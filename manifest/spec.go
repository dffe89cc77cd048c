// Package manifest loads animation manifests: YAML documents naming the
// clips a model plays and the sequence scripts that drive them.
package manifest

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// SheetSpec describes where a clip's frames live on a sprite sheet.
type SheetSpec struct {
	Image      string  `yaml:"image"`
	Row        int     `yaml:"row"`
	ColStart   int     `yaml:"col_start"`
	FrameCount int     `yaml:"frame_count"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FPS        float64 `yaml:"fps"`
}

// ClipSpec describes one loadable clip. Zero-valued speed/weight and an empty
// priority keep the track defaults.
type ClipSpec struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Speed    float64   `yaml:"speed"`
	Weight   float64   `yaml:"weight"`
	Looped   bool      `yaml:"looped"`
	Priority string    `yaml:"priority"`
	Sheet    SheetSpec `yaml:"sheet"`
}

// ResourceID returns the clip's resource identifier, falling back to the
// sheet image path when no explicit id is set.
func (c ClipSpec) ResourceID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Sheet.Image
}

// SequenceSpec names a sequence script file.
type SequenceSpec struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
}

// Manifest is one model's clip and sequence set.
type Manifest struct {
	Name      string         `yaml:"name"`
	Clips     []ClipSpec     `yaml:"clips"`
	Sequences []SequenceSpec `yaml:"sequences"`
}

// LoadSpec loads and unmarshals a YAML spec file, preferring an on-disk copy
// over the embedded one.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("manifest: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("manifest: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadManifest loads a manifest file. Duplicate clip names are dropped with a
// warning, keeping the last occurrence to match reload semantics.
func LoadManifest(filename string) (Manifest, error) {
	m, err := LoadSpec[Manifest](filename)
	if err != nil {
		return Manifest{}, err
	}

	seen := make(map[string]int, len(m.Clips))
	clips := m.Clips[:0]
	for _, clip := range m.Clips {
		if clip.Name == "" {
			log.Printf("manifest: %s: clip with empty name skipped", filename)
			continue
		}
		if i, ok := seen[clip.Name]; ok {
			log.Printf("manifest: %s: duplicate clip %q, keeping last", filename, clip.Name)
			clips[i] = clip
			continue
		}
		seen[clip.Name] = len(clips)
		clips = append(clips, clip)
	}
	m.Clips = clips
	return m, nil
}
