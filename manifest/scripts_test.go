package manifest

import (
	"io/fs"
	"testing"

	"github.com/milk9111/animkit/sequence"
)

// Every embedded script must compile; a script that only fails at
// registration time would make its sequence silently unavailable.
func TestEmbeddedScriptsCompile(t *testing.T) {
	names, err := fs.Glob(ScriptsFS, "scripts/*.tengo")
	if err != nil {
		t.Fatalf("glob scripts: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded scripts")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := ScriptsFS.ReadFile(name)
			if err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			if _, err := sequence.ScriptBehavior(name, src, nil); err != nil {
				t.Fatalf("compile %s: %v", name, err)
			}
		})
	}
}
