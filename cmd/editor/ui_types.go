package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/mapeditor/tilemap"
)

// ToolBar contains the radio-group state for the paint mode buttons.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
}

func (tb *ToolBar) SetMode(m tilemap.Mode) {
	idx := int(m)
	if tb == nil || tb.group == nil || idx < 0 || idx >= len(tb.buttons) {
		return
	}
	tb.group.SetActive(tb.buttons[idx])
}

// TilesetPanelUI is the composed right-panel widget plus the palette view.
type TilesetPanelUI struct {
	Container *widget.Container
	Palette   *widget.Graphic
	ZoomLabel *widget.Text
	Info      *widget.Text
}

// PaletteRect is the screen area the palette preview occupies.
func (p *TilesetPanelUI) PaletteRect() (x, y, w, h int) {
	if p == nil || p.Palette == nil {
		return 0, 0, 0, 0
	}
	r := p.Palette.GetWidget().Rect
	return r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

func (p *TilesetPanelUI) SetPalette(img *ebiten.Image) {
	if p == nil || p.Palette == nil {
		return
	}
	p.Palette.Image = img
}

func (p *TilesetPanelUI) SetZoom(z int) {
	if p == nil || p.ZoomLabel == nil {
		return
	}
	p.ZoomLabel.Label = fmt.Sprintf("Zoom %dx", z)
}

func (p *TilesetPanelUI) SetInfo(s string) {
	if p == nil || p.Info == nil {
		return
	}
	p.Info.Label = s
}

// LeftPanelUI is the composed left-panel widget and its stateful helpers.
type LeftPanelUI struct {
	Container     *widget.Container
	LayerPanel    *LayerPanel
	MapNameInput  *widget.TextInput
	RenameOverlay *widget.Container
}
