package tilemap

import "image"

// Brush is what the painter stamps: a w×h block of tile references.
type Brush interface {
	Size() (w, h int)
	TileAt(dx, dy int) string
}

// TileBrush is a 1×1 brush painting a single tile reference.
type TileBrush string

func (b TileBrush) Size() (int, int)      { return 1, 1 }
func (b TileBrush) TileAt(_, _ int) string { return string(b) }

type Mode int

const (
	ModeStamp Mode = iota
	ModeFill
	ModeRemove
)

func (m Mode) String() string {
	switch m {
	case ModeStamp:
		return "Stamp"
	case ModeFill:
		return "Fill"
	case ModeRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Painter applies the current brush to the active layer of Layers and commits
// a History entry for every operation that changes something.
type Painter struct {
	Layers  *LayerStack
	History *History
	Width   int
	Height  int
	Brush   Brush
	Mode    Mode

	dirty image.Rectangle

	stroking bool
	lastCell image.Point
}

// NewPainter wires a painter over a fresh layer stack and history.
func NewPainter(width, height int, ls Layers) *Painter {
	stack := NewLayerStack(ls)
	return &Painter{
		Layers:  stack,
		History: NewHistory(stack.Layers()),
		Width:   width,
		Height:  height,
	}
}

// LastDirty is the tile rectangle touched by the last successful operation.
func (p *Painter) LastDirty() image.Rectangle {
	return p.dirty
}

func (p *Painter) bounds() image.Rectangle {
	return Bounds(p.Width, p.Height)
}

func (p *Painter) target() *Layer {
	if p.Layers == nil {
		return nil
	}
	l := p.Layers.Active()
	if l.Locked {
		return nil
	}
	return l
}

func (p *Painter) commit(r image.Rectangle) {
	p.dirty = r
	if p.History != nil {
		p.History.Commit(p.Layers.Layers())
	}
}

// Stamp writes the brush with its top-left cell at (x, y). Cells falling
// outside the map are skipped.
func (p *Painter) Stamp(x, y int) bool {
	if p.Brush == nil {
		return false
	}
	l := p.target()
	if l == nil {
		return false
	}
	w, h := p.Brush.Size()
	if w <= 0 || h <= 0 {
		return false
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(p.bounds())
	if r.Empty() {
		return false
	}
	for dx := 0; dx < w; dx++ {
		for dy := 0; dy < h; dy++ {
			cx, cy := x+dx, y+dy
			if !inBounds(cx, cy, p.Width, p.Height) {
				continue
			}
			l.Set(Tile{X: cx, Y: cy, TileID: p.Brush.TileAt(dx, dy)})
		}
	}
	p.commit(r)
	return true
}

// Fill replaces the active layer's tiles with the brush repeated over the
// whole map.
func (p *Painter) Fill() bool {
	if p.Brush == nil {
		return false
	}
	l := p.target()
	if l == nil {
		return false
	}
	w, h := p.Brush.Size()
	r := p.bounds()
	if w <= 0 || h <= 0 || r.Empty() {
		return false
	}
	l.ClearTiles()
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			l.Set(Tile{X: x, Y: y, TileID: p.Brush.TileAt(x%w, y%h)})
		}
	}
	p.commit(r)
	return true
}

// Remove erases the tile at (x, y). An empty cell is left alone.
func (p *Painter) Remove(x, y int) bool {
	l := p.target()
	if l == nil {
		return false
	}
	if !l.Delete(x, y) {
		return false
	}
	p.commit(image.Rect(x, y, x+1, y+1))
	return true
}

func (p *Painter) apply(x, y int) bool {
	switch p.Mode {
	case ModeStamp:
		return p.Stamp(x, y)
	case ModeFill:
		return p.Fill()
	case ModeRemove:
		return p.Remove(x, y)
	}
	return false
}

// PointerDown starts a stroke at cell (x, y) and applies the current mode.
func (p *Painter) PointerDown(x, y int) bool {
	p.stroking = true
	p.lastCell = image.Pt(x, y)
	return p.apply(x, y)
}

// PointerMove continues the stroke. Staying on the same cell, or being in
// fill mode, does nothing.
func (p *Painter) PointerMove(x, y int) bool {
	if !p.stroking || p.Mode == ModeFill {
		return false
	}
	c := image.Pt(x, y)
	if c == p.lastCell {
		return false
	}
	p.lastCell = c
	return p.apply(x, y)
}

// PointerUp ends the stroke.
func (p *Painter) PointerUp() {
	p.stroking = false
}

func (p *Painter) Stroking() bool {
	return p.stroking
}

// SelectLayer changes the active layer. A stroke in progress is ended first,
// so further moves do nothing until the next PointerDown.
func (p *Painter) SelectLayer(id int) bool {
	p.PointerUp()
	return p.Layers.SetActive(id)
}

// Undo restores the previous history entry.
func (p *Painter) Undo() bool {
	ls, ok := p.History.Undo()
	if !ok {
		return false
	}
	p.PointerUp()
	p.Layers.Replace(ls)
	p.dirty = p.bounds()
	return true
}

// Redo re-applies the next history entry.
func (p *Painter) Redo() bool {
	ls, ok := p.History.Redo()
	if !ok {
		return false
	}
	p.PointerUp()
	p.Layers.Replace(ls)
	p.dirty = p.bounds()
	return true
}

// CommitLayers records a layer-manager edit in history.
func (p *Painter) CommitLayers() {
	p.commit(p.bounds())
}
