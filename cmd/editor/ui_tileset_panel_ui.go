package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	paletteViewW = 240
	paletteViewH = 320
)

func buildTilesetPanelUI(assets []AssetInfo, theme *widget.Theme, fontFace *text.Face, cb uiCallbacks) *TilesetPanelUI {
	entries := make([]any, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, a)
	}

	// Tileset panel: vertical layout (top: asset list, bottom: palette)
	tilesetPanel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(rightPanelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)

	tilesetPanel.AddChild(newLabel("Tilesets", fontFace))
	assetList := widget.NewList(
		widget.ListOpts.Entries(entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if asset, ok := e.(AssetInfo); ok {
				return asset.Name
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if cb.OnTilesetSelected == nil {
				return
			}
			if asset, ok := args.Entry.(AssetInfo); ok {
				cb.OnTilesetSelected(asset)
			}
		}),
	)
	tilesetPanel.AddChild(assetList)

	zoomLabel := widget.NewText(widget.TextOpts.Text("Zoom 1x", fontFace, color.White))
	zoomRow := newButtonRow()
	zoomRow.AddChild(newButton(theme, fontFace, "-", cb.OnZoomOut))
	zoomRow.AddChild(zoomLabel)
	zoomRow.AddChild(newButton(theme, fontFace, "+", cb.OnZoomIn))
	tilesetPanel.AddChild(zoomRow)

	info := widget.NewText(widget.TextOpts.Text("No selection", fontFace, color.White))
	tilesetPanel.AddChild(info)

	palette := widget.NewGraphic(
		widget.GraphicOpts.Image(ebiten.NewImage(paletteViewW, paletteViewH)),
		widget.GraphicOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(paletteViewW, paletteViewH),
		),
	)
	tilesetPanel.AddChild(palette)

	return &TilesetPanelUI{
		Container: tilesetPanel,
		Palette:   palette,
		ZoomLabel: zoomLabel,
		Info:      info,
	}
}
