package tilemap

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"
)

// Layer is a named sparse grid of tile placements. At most one tile lives in
// each cell.
type Layer struct {
	ID      int
	Name    string
	Visible bool
	Locked  bool

	tiles map[Key]Tile
}

// NewLayer returns an empty, visible, unlocked layer.
func NewLayer(id int, name string) *Layer {
	return &Layer{
		ID:      id,
		Name:    name,
		Visible: true,
		tiles:   make(map[Key]Tile),
	}
}

func (l *Layer) ensure() {
	if l.tiles == nil {
		l.tiles = make(map[Key]Tile)
	}
}

// Set places t at its cell, replacing whatever was there.
func (l *Layer) Set(t Tile) {
	l.ensure()
	l.tiles[KeyOf(t.X, t.Y)] = t
}

func (l *Layer) Get(x, y int) (Tile, bool) {
	t, ok := l.tiles[KeyOf(x, y)]
	return t, ok
}

// Delete removes the tile at (x, y) and reports whether one existed.
func (l *Layer) Delete(x, y int) bool {
	k := KeyOf(x, y)
	if _, ok := l.tiles[k]; !ok {
		return false
	}
	delete(l.tiles, k)
	return true
}

func (l *Layer) Len() int {
	return len(l.tiles)
}

// ClearTiles drops every placement on the layer.
func (l *Layer) ClearTiles() {
	l.tiles = make(map[Key]Tile)
}

// Tiles returns the placements ordered by row, then column.
func (l *Layer) Tiles() []Tile {
	out := make([]Tile, 0, len(l.tiles))
	for _, t := range l.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// TilesIn returns the placements whose cell falls inside r (tile units).
func (l *Layer) TilesIn(r image.Rectangle) []Tile {
	var out []Tile
	// Walk whichever is smaller: the rectangle or the layer.
	if r.Dx()*r.Dy() < len(l.tiles) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if t, ok := l.tiles[KeyOf(x, y)]; ok {
					out = append(out, t)
				}
			}
		}
		return out
	}
	for _, t := range l.Tiles() {
		if image.Pt(t.X, t.Y).In(r) {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := &Layer{
		ID:      l.ID,
		Name:    l.Name,
		Visible: l.Visible,
		Locked:  l.Locked,
		tiles:   make(map[Key]Tile, len(l.tiles)),
	}
	for k, t := range l.tiles {
		c.tiles[k] = t
	}
	return c
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%d %q, %d tiles)", l.ID, l.Name, len(l.tiles))
}

type layerJSON struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	Tiles   []Tile `json:"tiles"`
}

func (l *Layer) MarshalJSON() ([]byte, error) {
	return json.Marshal(layerJSON{
		ID:      l.ID,
		Name:    l.Name,
		Visible: l.Visible,
		Locked:  l.Locked,
		Tiles:   l.Tiles(),
	})
}

func (l *Layer) UnmarshalJSON(data []byte) error {
	var raw layerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode layer: %w", err)
	}
	l.ID = raw.ID
	l.Name = raw.Name
	l.Visible = raw.Visible
	l.Locked = raw.Locked
	l.tiles = make(map[Key]Tile, len(raw.Tiles))
	for _, t := range raw.Tiles {
		l.tiles[KeyOf(t.X, t.Y)] = t
	}
	return nil
}

// Layers is an ordered layer collection; later entries draw on top.
type Layers []*Layer

// Clone deep-copies every layer.
func (ls Layers) Clone() Layers {
	out := make(Layers, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

// Equal reports whether two collections hold the same layers and tiles in
// the same order.
func (ls Layers) Equal(other Layers) bool {
	if len(ls) != len(other) {
		return false
	}
	for i := range ls {
		a, b := ls[i], other[i]
		if a.ID != b.ID || a.Name != b.Name || a.Visible != b.Visible || a.Locked != b.Locked {
			return false
		}
		if len(a.tiles) != len(b.tiles) {
			return false
		}
		for k, t := range a.tiles {
			if bt, ok := b.tiles[k]; !ok || bt != t {
				return false
			}
		}
	}
	return true
}

func (ls Layers) index(id int) int {
	for i, l := range ls {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// DefaultLayers is the collection used when a map has no persisted layers.
func DefaultLayers() Layers {
	return Layers{NewLayer(1, "Base Layer")}
}
