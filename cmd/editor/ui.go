package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/mapeditor/tilemap"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	leftPanelWidth  = 220
	rightPanelWidth = 260
	toolbarHeight   = 40
)

// uiState is what the panels show when first built.
type uiState struct {
	MapName string
	MapSize string
	Mode    tilemap.Mode
	Layers  tilemap.Layers
	Active  int
}

// uiCallbacks connects widgets to the editor. Any may be nil.
type uiCallbacks struct {
	OnModeSelected    func(m tilemap.Mode)
	OnRender          func()
	OnSave            func()
	OnLayerSelected   func(id int)
	OnLayerRenamed    func(id int, name string)
	OnNewLayer        func()
	OnDeleteLayer     func(id int)
	OnMoveLayerUp     func(idx int)
	OnMoveLayerDown   func(idx int)
	OnToggleVisible   func(id int)
	OnToggleLock      func(id int)
	OnClearMap        func()
	OnTilesetSelected func(asset AssetInfo)
	OnZoomIn          func()
	OnZoomOut         func()
}

// editorUI bundles the widgets the editor updates after building.
type editorUI struct {
	UI      *ebitenui.UI
	ToolBar *ToolBar
	Left    *LeftPanelUI
	Tileset *TilesetPanelUI
}

func BuildEditorUI(assets []AssetInfo, state uiState, cb uiCallbacks) *editorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	rightPanel := buildTilesetPanelUI(assets, ui.PrimaryTheme, &fontFace, cb)
	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, cb.OnModeSelected, cb.OnRender, state.Mode)
	leftPanel := buildLeftPanelUI(ui.PrimaryTheme, &fontFace, state, cb)

	// The canvas is drawn by ebiten; this container only gives the root
	// anchor layout a center child.
	gridPanel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(400, 300),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	leftPanel.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	rightPanel.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	gridPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(gridPanel)
	root.AddChild(leftPanel.Container)
	root.AddChild(rightPanel.Container)
	root.AddChild(toolbarContainer)
	root.AddChild(leftPanel.RenameOverlay)

	ui.Container = root
	leftPanel.LayerPanel.SetLayers(state.Layers)
	leftPanel.LayerPanel.SetSelected(state.Active)

	return &editorUI{UI: ui, ToolBar: toolBar, Left: leftPanel, Tileset: rightPanel}
}
