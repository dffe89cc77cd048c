package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	imagesMu sync.Mutex
	images   = map[string]*ebiten.Image{}
)

// RegisterImage stores an image by key in the process-wide registry.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	imagesMu.Lock()
	images[key] = img
	imagesMu.Unlock()
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	imagesMu.Lock()
	defer imagesMu.Unlock()
	return images[key]
}

// DropImage forgets a cached image so the next LoadImage rereads it.
func DropImage(key string) {
	if key == "" {
		return
	}
	imagesMu.Lock()
	delete(images, key)
	imagesMu.Unlock()
}
