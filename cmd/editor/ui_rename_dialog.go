package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

type layerRenameDialog struct {
	Overlay *widget.Container
	Open    func(id int, current string)
}

func newLayerRenameDialog(theme *widget.Theme, fontFace *text.Face, onLayerRenamed func(id int, newName string)) *layerRenameDialog {
	renameID := -1

	renameOverlay := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{0, 0, 0, 160})),
	)
	renameOverlay.GetWidget().Visibility = widget.Visibility_Hide

	dialog := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(320, 140),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 220, 255})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)
	dialog.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}

	hide := func() {
		renameOverlay.GetWidget().Visibility = widget.Visibility_Hide
		renameID = -1
	}
	// LayerStack.Rename rejects blank and unchanged names, so the dialog
	// passes whatever was typed.
	submit := func(name string) {
		if renameID >= 0 && onLayerRenamed != nil {
			onLayerRenamed(renameID, name)
		}
		hide()
	}

	nameLabel := widget.NewLabel(
		widget.LabelOpts.Text("Rename layer", fontFace, &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 140}}),
	)
	nameInput := newTextInput(fontFace, 260,
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			submit(args.InputText)
		}),
	)

	buttonsRow := newButtonRow()
	buttonsRow.AddChild(newButton(theme, fontFace, "OK", func() {
		submit(nameInput.GetText())
	}))
	buttonsRow.AddChild(newButton(theme, fontFace, "Cancel", hide))

	dialog.AddChild(nameLabel)
	dialog.AddChild(nameInput)
	dialog.AddChild(buttonsRow)
	renameOverlay.AddChild(dialog)

	open := func(id int, current string) {
		renameID = id
		nameInput.SetText(current)
		nameInput.Focus(true)
		renameOverlay.GetWidget().Visibility = widget.Visibility_Show
	}

	return &layerRenameDialog{Overlay: renameOverlay, Open: open}
}
