package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/animkit/manifest"
)

type viewerUI struct {
	ui *ebitenui.UI
}

// newViewerUI builds a side panel with a play/stop toggle per clip and a
// button per sequence. Buttons use colored nine-slices and the built-in basic
// font, so no theme fonts need loading.
func newViewerUI(g *viewerGame, m manifest.Manifest) *viewerUI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	seqImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x2b, G: 0x3b, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 12, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	title := widget.NewText(
		widget.TextOpts.Text(m.Name, &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	panel.AddChild(title)

	for _, clip := range m.Clips {
		name := clip.Name
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(name, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if g.ctrl.IsPlaying(name) {
					g.ctrl.Stop(name, 0.2)
					return
				}
				g.ctrl.Play(name, 0.2, 0, 0)
			}),
		)
		panel.AddChild(btn)
	}

	for _, seq := range m.Sequences {
		name := seq.Name
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: seqImg, Pressed: seqImg}),
			widget.ButtonOpts.Text("seq: "+name, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				g.ctrl.PlaySequence(name)
			}),
		)
		panel.AddChild(btn)
	}

	stopAll := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Stop all", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.ctrl.StopAll(0.25)
		}),
	)
	panel.AddChild(stopAll)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &viewerUI{ui: &ebitenui.UI{Container: root}}
}

func (v *viewerUI) Update() {
	if v == nil || v.ui == nil {
		return
	}
	v.ui.Update()
}

func (v *viewerUI) Draw(screen *ebiten.Image) {
	if v == nil || v.ui == nil {
		return
	}
	v.ui.Draw(screen)
}
