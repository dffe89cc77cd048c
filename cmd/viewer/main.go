package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/animkit/manifest"
	"github.com/milk9111/animkit/render"
)

const (
	baseWidth  = 640
	baseHeight = 480
)

type viewerGame struct {
	frames int

	manifestPath string
	model        *render.Model
	ctrl         *render.Controller
	watcher      *manifest.Watcher
	ui           *viewerUI
}

func newViewerGame(manifestPath string, watchDirs []string) (*viewerGame, error) {
	model := render.NewModel(baseWidth/2-16, baseHeight/2-16)
	ctrl, err := render.NewControllerFile(model, manifestPath, false)
	if err != nil {
		return nil, err
	}

	g := &viewerGame{
		manifestPath: manifestPath,
		model:        model,
		ctrl:         ctrl,
	}

	if len(watchDirs) > 0 {
		w, err := manifest.NewWatcher(watchDirs...)
		if err != nil {
			log.Printf("viewer: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	m, err := manifest.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	g.ui = newViewerUI(g, m)
	return g, nil
}

func (g *viewerGame) Update() error {
	g.frames++

	g.drainWatcher()
	g.model.Update()
	if g.ui != nil {
		g.ui.Update()
	}
	return nil
}

func (g *viewerGame) drainWatcher() {
	if g.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("viewer: changed: %s", name)
			reload = true
		case err := <-g.watcher.Errors:
			if err != nil {
				log.Printf("viewer: watch error: %v", err)
			}
		default:
			if reload {
				g.reload()
			}
			return
		}
	}
}

func (g *viewerGame) reload() {
	m, err := manifest.LoadManifest(g.manifestPath)
	if err != nil {
		log.Printf("viewer: reload: %v", err)
		return
	}
	for _, clip := range m.Clips {
		render.DropImage(clip.Sheet.Image)
	}
	g.ctrl.Reload(render.Descriptors(m))
	render.ReloadSequences(g.ctrl.Controller, m)
	g.ui = newViewerUI(g, m)
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x20, G: 0x24, B: 0x28, A: 0xff})

	g.model.Draw(screen)
	if g.ui != nil {
		g.ui.Draw(screen)
	}

	playing := ""
	for name := range g.ctrl.GetPlayingAnimations() {
		if playing != "" {
			playing += ", "
		}
		playing += name
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f    playing: %s", ebiten.ActualFPS(), playing))
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func main() {
	manifestPath := flag.String("manifest", "viewer.yaml", "manifest file under manifest/ (disk copies override embedded)")
	watch := flag.Bool("watch", false, "hot-reload manifests and scripts from the manifest/ directory")
	flag.Parse()

	var watchDirs []string
	if *watch {
		watchDirs = []string{"manifest", "manifest/scripts"}
	}

	game, err := newViewerGame(*manifestPath, watchDirs)
	if err != nil {
		log.Fatal(err)
	}
	defer game.ctrl.Destroy()

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("animkit viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
