package manifest

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScript returns the bytes of a sequence script, preferring an on-disk
// copy under manifest/ over the embedded one.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

//go:embed *.yaml
var ManifestsFS embed.FS

// Load returns the bytes of a manifest file, preferring an on-disk copy
// under manifest/ over the embedded one.
func Load(name string) ([]byte, error) {
	clean := cleanManifestPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ManifestsFS.ReadFile(clean)
}

// ModTime returns the on-disk modification time of a manifest file, if it
// exists outside the embedded copy.
func ModTime(name string) (time.Time, bool) {
	clean := cleanManifestPath(name)
	info, err := os.Stat(diskPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanManifestPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "manifest/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "manifest/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "manifest/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join("manifest", filepath.FromSlash(clean))
}
