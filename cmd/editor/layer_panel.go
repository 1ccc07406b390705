package main

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/mapeditor/tilemap"
)

// LayerEntry is a small value used by the UI list to represent a layer row.
type LayerEntry struct {
	Index   int
	ID      int
	Name    string
	Visible bool
	Locked  bool
}

func layerLabel(e LayerEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", e.Index+1, e.Name)
	if !e.Visible {
		b.WriteString(" (hidden)")
	}
	if e.Locked {
		b.WriteString(" (locked)")
	}
	return b.String()
}

func layerEntries(ls tilemap.Layers) []any {
	entries := make([]any, len(ls))
	for i, l := range ls {
		entries[i] = LayerEntry{Index: i, ID: l.ID, Name: l.Name, Visible: l.Visible, Locked: l.Locked}
	}
	return entries
}

// LayerPanel holds the list widget and the callbacks behind its buttons.
type LayerPanel struct {
	list             *widget.List
	entries          []any
	openRenameDialog func(id int, current string)

	onNewLayer   func()
	onDelete     func(id int)
	onMoveUp     func(idx int)
	onMoveDown   func(idx int)
	onToggleShow func(id int)
	onToggleLock func(id int)
	onClear      func()
	// suppressEvents, when true, keeps programmatic selections from being
	// reported as user picks.
	suppressEvents bool
}

func NewLayerPanel() *LayerPanel {
	return &LayerPanel{}
}

func (lp *LayerPanel) SetLayers(ls tilemap.Layers) {
	if lp == nil || lp.list == nil {
		return
	}
	lp.suppressEvents = true
	lp.entries = layerEntries(ls)
	lp.list.SetEntries(lp.entries)
	lp.suppressEvents = false
}

func (lp *LayerPanel) SetSelected(idx int) {
	if lp == nil || lp.list == nil {
		return
	}
	if idx < 0 || idx >= len(lp.entries) {
		return
	}
	lp.suppressEvents = true
	lp.list.SetSelectedEntry(lp.entries[idx])
	lp.suppressEvents = false
}

// Selected returns the highlighted row, if any.
func (lp *LayerPanel) Selected() (LayerEntry, bool) {
	if lp == nil || lp.list == nil {
		return LayerEntry{}, false
	}
	e, ok := lp.list.SelectedEntry().(LayerEntry)
	return e, ok
}
