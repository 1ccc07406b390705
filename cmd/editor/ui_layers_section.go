package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

func addLayersSection(
	parent *widget.Container,
	theme *widget.Theme,
	fontFace *text.Face,
	layerPanel *LayerPanel,
	onLayerSelected func(id int),
) *widget.Button {
	parent.AddChild(newLabel("Layers", fontFace))

	layerList := widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(LayerEntry); ok {
				return layerLabel(entry)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(LayerEntry)
			if !ok || layerPanel.suppressEvents {
				return
			}
			if onLayerSelected != nil {
				onLayerSelected(entry.ID)
			}
		}),
	)
	parent.AddChild(layerList)
	layerPanel.list = layerList

	withSelected := func(fn func(LayerEntry)) func() {
		return func() {
			if sel, ok := layerPanel.Selected(); ok {
				fn(sel)
			}
		}
	}

	editRow := newButtonRow()
	editRow.AddChild(newButton(theme, fontFace, "New", func() {
		if layerPanel.onNewLayer != nil {
			layerPanel.onNewLayer()
		}
	}))
	editRow.AddChild(newButton(theme, fontFace, "Delete", withSelected(func(e LayerEntry) {
		if layerPanel.onDelete != nil {
			layerPanel.onDelete(e.ID)
		}
	})))
	editRow.AddChild(newButton(theme, fontFace, "Up", withSelected(func(e LayerEntry) {
		if layerPanel.onMoveUp != nil {
			layerPanel.onMoveUp(e.Index)
		}
	})))
	editRow.AddChild(newButton(theme, fontFace, "Down", withSelected(func(e LayerEntry) {
		if layerPanel.onMoveDown != nil {
			layerPanel.onMoveDown(e.Index)
		}
	})))
	parent.AddChild(editRow)

	flagsRow := newButtonRow()
	renameBtn := newButton(theme, fontFace, "Rename", nil)
	flagsRow.AddChild(renameBtn)
	flagsRow.AddChild(newButton(theme, fontFace, "Show/Hide", withSelected(func(e LayerEntry) {
		if layerPanel.onToggleShow != nil {
			layerPanel.onToggleShow(e.ID)
		}
	})))
	flagsRow.AddChild(newButton(theme, fontFace, "Lock", withSelected(func(e LayerEntry) {
		if layerPanel.onToggleLock != nil {
			layerPanel.onToggleLock(e.ID)
		}
	})))
	parent.AddChild(flagsRow)

	parent.AddChild(newButton(theme, fontFace, "Clear Map", func() {
		if layerPanel.onClear != nil {
			layerPanel.onClear()
		}
	}))

	return renameBtn
}
