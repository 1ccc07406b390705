package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/mapeditor/tilemap"
)

var paintModes = []tilemap.Mode{tilemap.ModeStamp, tilemap.ModeFill, tilemap.ModeRemove}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, onModeSelected func(m tilemap.Mode), onRender func(), initial tilemap.Mode) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(300, 40),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(toolbarColor)),
	)

	var modeButtons []*widget.Button
	for _, m := range paintModes {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(m.String(), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 32),
			),
		)
		modeButtons = append(modeButtons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(modeButtons))
	for _, b := range modeButtons {
		elements = append(elements, b)
	}

	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onModeSelected == nil {
				return
			}
			for idx, b := range modeButtons {
				if args.Active == b {
					onModeSelected(paintModes[idx])
					return
				}
			}
		}),
	)

	renderBtn := newButton(theme, fontFace, "Export", onRender)
	toolbar.AddChild(renderBtn)

	tb := &ToolBar{group: group, buttons: modeButtons}
	tb.SetMode(initial)
	return toolbar, tb
}
