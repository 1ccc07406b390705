package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// addMapSection adds the map name field and the map size readout. Saving
// uses whatever name is in the field.
func addMapSection(parent *widget.Container, fontFace *text.Face, name, size string) *widget.TextInput {
	mapNameInput := newTextInput(fontFace, 200)
	mapNameInput.SetText(name)
	parent.AddChild(newLabel("Map", fontFace))
	parent.AddChild(mapNameInput)
	parent.AddChild(newLabel(size, fontFace))
	return mapNameInput
}
