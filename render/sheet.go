package render

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/animkit/manifest"
)

// Sheet is the resource behind a sprite-sheet clip: the sheet image plus the
// frame geometry to read from it. It satisfies animator.Resource.
type Sheet struct {
	id     string
	frames []*ebiten.Image
	fps    float64
}

// ID returns the resource identifier the sheet was resolved from.
func (s *Sheet) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// FPS returns the clip's native frame rate.
func (s *Sheet) FPS() float64 {
	if s == nil {
		return 0
	}
	return s.fps
}

// FrameCount returns how many frames were sliced from the sheet.
func (s *Sheet) FrameCount() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Frame returns the i-th frame image, or nil when out of range.
func (s *Sheet) Frame(i int) *ebiten.Image {
	if s == nil || i < 0 || i >= len(s.frames) {
		return nil
	}
	return s.frames[i]
}

// NewSheet slices a spritesheet into frames. Frames are read left-to-right
// starting at (row, colStart), continuing onto subsequent rows if the count
// exceeds the row length. fps defaults to 12 when <= 0.
func NewSheet(id string, img *ebiten.Image, spec manifest.SheetSpec) (*Sheet, error) {
	if img == nil {
		return nil, fmt.Errorf("render: sheet %q: nil image", id)
	}
	if spec.FrameW <= 0 || spec.FrameH <= 0 {
		return nil, fmt.Errorf("render: sheet %q: frame size %dx%d", id, spec.FrameW, spec.FrameH)
	}
	bounds := img.Bounds()
	cols := bounds.Dx() / spec.FrameW
	rows := bounds.Dy() / spec.FrameH
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("render: sheet %q: image %dx%d smaller than one frame", id, bounds.Dx(), bounds.Dy())
	}

	count := spec.FrameCount
	maxFrames := cols * rows
	if count <= 0 || count > maxFrames {
		count = maxFrames
	}

	row := spec.Row
	if row < 0 {
		row = 0
	}
	start := row*cols + spec.ColStart
	if start >= maxFrames {
		return nil, fmt.Errorf("render: sheet %q: start frame %d past sheet end", id, start)
	}
	if start+count > maxFrames {
		count = maxFrames - start
	}

	fps := spec.FPS
	if fps <= 0 {
		fps = 12
	}

	frames := make([]*ebiten.Image, count)
	for i := 0; i < count; i++ {
		idx := start + i
		col := idx % cols
		r := idx / cols
		sx := col * spec.FrameW
		sy := r * spec.FrameH
		rect := image.Rect(sx, sy, sx+spec.FrameW, sy+spec.FrameH)
		frames[i] = img.SubImage(rect).(*ebiten.Image)
	}

	return &Sheet{id: id, frames: frames, fps: fps}, nil
}
