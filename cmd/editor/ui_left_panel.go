package main

import (
	"github.com/ebitenui/ebitenui/event"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

func buildLeftPanelUI(theme *widget.Theme, fontFace *text.Face, state uiState, cb uiCallbacks) *LeftPanelUI {
	layerPanel := NewLayerPanel()
	layerPanel.onNewLayer = cb.OnNewLayer
	layerPanel.onDelete = cb.OnDeleteLayer
	layerPanel.onMoveUp = cb.OnMoveLayerUp
	layerPanel.onMoveDown = cb.OnMoveLayerDown
	layerPanel.onToggleShow = cb.OnToggleVisible
	layerPanel.onToggleLock = cb.OnToggleLock
	layerPanel.onClear = cb.OnClearMap

	leftPanel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(leftPanelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)

	mapNameInput := addMapSection(leftPanel, fontFace, state.MapName, state.MapSize)
	leftPanel.AddChild(newButton(theme, fontFace, "Save", cb.OnSave))

	renameBtn := addLayersSection(leftPanel, theme, fontFace, layerPanel, cb.OnLayerSelected)

	renameDialog := newLayerRenameDialog(theme, fontFace, cb.OnLayerRenamed)
	layerPanel.openRenameDialog = renameDialog.Open

	renameBtn.ClickedEvent.AddHandler(event.WrapHandler(func(args *widget.ButtonClickedEventArgs) {
		sel, ok := layerPanel.Selected()
		if !ok || layerPanel.openRenameDialog == nil {
			return
		}
		layerPanel.openRenameDialog(sel.ID, sel.Name)
	}))

	return &LeftPanelUI{
		Container:     leftPanel,
		LayerPanel:    layerPanel,
		MapNameInput:  mapNameInput,
		RenameOverlay: renameDialog.Overlay,
	}
}
