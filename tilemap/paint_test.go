package tilemap

import (
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// blockBrush is a w×h brush whose cells are named "<prefix>dx,dy".
type blockBrush struct {
	prefix string
	w, h   int
}

func (b blockBrush) Size() (int, int) { return b.w, b.h }
func (b blockBrush) TileAt(dx, dy int) string {
	return fmt.Sprintf("%s%d,%d", b.prefix, dx, dy)
}

func cells(l *Layer) []image.Point {
	var out []image.Point
	for _, t := range l.Tiles() {
		out = append(out, image.Pt(t.X, t.Y))
	}
	return out
}

func TestRemoveIsIdempotent(t *testing.T) {
	p := NewPainter(4, 4, nil)
	p.Brush = TileBrush("grass")
	p.Stamp(1, 1)
	p.Stamp(2, 1)

	if !p.Remove(1, 1) {
		t.Fatalf("first Remove should report a change")
	}
	once := p.Layers.Snapshot()
	histLen := p.History.Len()

	if p.Remove(1, 1) {
		t.Fatalf("second Remove on empty cell should be a no-op")
	}
	if !p.Layers.Layers().Equal(once) {
		t.Fatalf("layers changed after repeated Remove")
	}
	if p.History.Len() != histLen {
		t.Fatalf("no-op Remove committed history: %d -> %d", histLen, p.History.Len())
	}
}

func TestStampOverwrite(t *testing.T) {
	p := NewPainter(3, 3, nil)
	p.Brush = TileBrush("a")
	p.Stamp(1, 2)
	p.Brush = TileBrush("b")
	p.Stamp(1, 2)

	l := p.Layers.Active()
	if l.Len() != 1 {
		t.Fatalf("expected 1 placement, got %d", l.Len())
	}
	got, ok := l.Get(1, 2)
	if !ok || got.TileID != "b" {
		t.Fatalf("expected tile b at (1,2), got %+v ok=%v", got, ok)
	}
}

func TestFillCoverage(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"square", 4, 4},
		{"wide", 7, 2},
		{"single", 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPainter(c.w, c.h, nil)
			p.Brush = TileBrush("water")
			p.Layers.Active().Set(Tile{X: 100, Y: 100, TileID: "stale"})
			if !p.Fill() {
				t.Fatalf("Fill should succeed")
			}
			l := p.Layers.Active()
			if l.Len() != c.w*c.h {
				t.Fatalf("expected %d placements, got %d", c.w*c.h, l.Len())
			}
			for y := 0; y < c.h; y++ {
				for x := 0; x < c.w; x++ {
					if tile, ok := l.Get(x, y); !ok || tile.TileID != "water" {
						t.Fatalf("cell (%d,%d) = %+v ok=%v", x, y, tile, ok)
					}
				}
			}
			if _, ok := l.Get(100, 100); ok {
				t.Fatalf("fill should replace the previous tile collection")
			}
		})
	}
}

func TestFillRepeatsMultiTileBrush(t *testing.T) {
	p := NewPainter(5, 3, nil)
	p.Brush = blockBrush{prefix: "s", w: 2, h: 2}
	p.Fill()

	l := p.Layers.Active()
	for _, c := range []struct{ x, y int }{{0, 0}, {3, 1}, {4, 2}, {1, 2}} {
		want := fmt.Sprintf("s%d,%d", c.x%2, c.y%2)
		if got, _ := l.Get(c.x, c.y); got.TileID != want {
			t.Fatalf("cell (%d,%d): want %s, got %s", c.x, c.y, want, got.TileID)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	p := NewPainter(6, 6, nil)
	before := p.Layers.Snapshot()

	ops := []func() bool{
		func() bool { p.Brush = TileBrush("a"); return p.Stamp(0, 0) },
		func() bool { p.Brush = blockBrush{prefix: "b", w: 3, h: 2}; return p.Stamp(2, 2) },
		func() bool { return p.Remove(3, 3) },
		func() bool { p.Brush = TileBrush("c"); return p.Fill() },
		func() bool { return p.Remove(5, 5) },
	}
	for i, op := range ops {
		if !op() {
			t.Fatalf("op %d made no change", i)
		}
	}
	after := p.Layers.Snapshot()

	for i := range ops {
		if !p.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if p.Undo() {
		t.Fatalf("undo past the initial state should fail")
	}
	if !p.Layers.Layers().Equal(before) {
		t.Fatalf("undo did not restore initial state:\n%s", cmp.Diff(tilesOf(before), tilesOf(p.Layers.Layers())))
	}

	for i := range ops {
		if !p.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if p.Redo() {
		t.Fatalf("redo past the newest state should fail")
	}
	if !p.Layers.Layers().Equal(after) {
		t.Fatalf("redo did not restore final state:\n%s", cmp.Diff(tilesOf(after), tilesOf(p.Layers.Layers())))
	}
}

func tilesOf(ls Layers) [][]Tile {
	out := make([][]Tile, len(ls))
	for i, l := range ls {
		out[i] = l.Tiles()
	}
	return out
}

func TestLockedLayerIsImmutable(t *testing.T) {
	p := NewPainter(4, 4, nil)
	p.Brush = TileBrush("a")
	p.Stamp(1, 1)
	p.Layers.ToggleLock(p.Layers.ActiveID())
	before := p.Layers.Snapshot()
	histLen := p.History.Len()

	p.Brush = TileBrush("b")
	if p.Stamp(1, 1) || p.Stamp(2, 2) || p.Fill() || p.Remove(1, 1) {
		t.Fatalf("paint on a locked layer reported a change")
	}
	if !p.Layers.Layers().Equal(before) {
		t.Fatalf("locked layer was modified")
	}
	if p.History.Len() != histLen {
		t.Fatalf("locked layer ops committed history")
	}
}

func TestStampClipsToMap(t *testing.T) {
	cases := []struct {
		name    string
		w, h    int
		brush   blockBrush
		x, y    int
		want    []image.Point
		changed bool
	}{
		{
			name:    "corner_2x2_on_5x5",
			w:       5,
			h:       5,
			brush:   blockBrush{prefix: "t", w: 2, h: 2},
			x:       4,
			y:       4,
			want:    []image.Point{{4, 4}},
			changed: true,
		},
		{
			name:    "negative_origin",
			w:       3,
			h:       3,
			brush:   blockBrush{prefix: "t", w: 2, h: 2},
			x:       -1,
			y:       0,
			want:    []image.Point{{0, 0}, {0, 1}},
			changed: true,
		},
		{
			name:  "fully_outside",
			w:     3,
			h:     3,
			brush: blockBrush{prefix: "t", w: 2, h: 2},
			x:     3,
			y:     0,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPainter(c.w, c.h, nil)
			p.Brush = c.brush
			if got := p.Stamp(c.x, c.y); got != c.changed {
				t.Fatalf("Stamp returned %v, want %v", got, c.changed)
			}
			if diff := cmp.Diff(c.want, cells(p.Layers.Active())); diff != "" {
				t.Fatalf("placements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStampCornerUsesTopLeftSubTile(t *testing.T) {
	p := NewPainter(5, 5, nil)
	p.Brush = blockBrush{prefix: "r", w: 2, h: 2}
	p.Stamp(4, 4)
	got, ok := p.Layers.Active().Get(4, 4)
	if !ok || got.TileID != "r0,0" {
		t.Fatalf("expected r0,0 at (4,4), got %+v", got)
	}
	if want := image.Rect(4, 4, 5, 5); p.LastDirty() != want {
		t.Fatalf("dirty rect: want %v, got %v", want, p.LastDirty())
	}
}

func TestStampWithoutBrushIsNoop(t *testing.T) {
	p := NewPainter(2, 2, nil)
	if p.Stamp(0, 0) || p.Fill() {
		t.Fatalf("paint without a brush should be a no-op")
	}
	if p.History.Len() != 1 {
		t.Fatalf("expected only the initial history entry, got %d", p.History.Len())
	}
}

func TestDragStroke(t *testing.T) {
	p := NewPainter(8, 8, nil)
	p.Brush = TileBrush("g")

	if !p.PointerDown(0, 0) {
		t.Fatalf("pointer down should stamp")
	}
	if p.PointerMove(0, 0) {
		t.Fatalf("move within the same cell should not re-trigger")
	}
	p.PointerMove(1, 0)
	p.PointerMove(2, 0)
	p.PointerUp()
	if p.PointerMove(3, 0) {
		t.Fatalf("move after pointer up should do nothing")
	}
	if got := p.Layers.Active().Len(); got != 3 {
		t.Fatalf("expected 3 tiles painted, got %d", got)
	}
	if got := p.History.Len(); got != 4 {
		t.Fatalf("expected one commit per cell, history len %d", got)
	}
}

func TestDragFillTriggersOnce(t *testing.T) {
	p := NewPainter(3, 3, nil)
	p.Brush = TileBrush("f")
	p.Mode = ModeFill
	p.PointerDown(0, 0)
	p.PointerMove(1, 1)
	p.PointerMove(2, 2)
	p.PointerUp()
	if got := p.History.Len(); got != 2 {
		t.Fatalf("fill should commit once per pointer down, history len %d", got)
	}
}

func TestDragRemove(t *testing.T) {
	p := NewPainter(4, 1, nil)
	p.Brush = TileBrush("x")
	p.Fill()
	p.Mode = ModeRemove
	p.PointerDown(0, 0)
	p.PointerMove(1, 0)
	p.PointerMove(1, 0)
	p.PointerUp()
	if diff := cmp.Diff([]image.Point{{2, 0}, {3, 0}}, cells(p.Layers.Active())); diff != "" {
		t.Fatalf("remaining cells (-want +got):\n%s", diff)
	}
}

func TestSelectLayerEndsStroke(t *testing.T) {
	p := NewPainter(4, 4, nil)
	first := p.Layers.ActiveID()
	second := p.Layers.AddLayer().ID
	p.SelectLayer(first)
	p.Brush = TileBrush("a")

	p.PointerDown(0, 0)
	if !p.SelectLayer(second) {
		t.Fatalf("SelectLayer should switch layers")
	}
	if p.Stroking() {
		t.Fatalf("switching layers should end the stroke")
	}
	if p.PointerMove(1, 0) {
		t.Fatalf("move after layer switch should not paint")
	}
	l, _ := p.Layers.Get(second)
	if l.Len() != 0 {
		t.Fatalf("new active layer should be untouched, has %d tiles", l.Len())
	}
}
