package tilemap

import "image"

// Tile is a single placement on a layer. X and Y are grid cells, not pixels.
type Tile struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	TileID     string `json:"tileId"`
	AutoTileID string `json:"autoTileId,omitempty"`
}

// Key packs a cell coordinate into a single map key.
type Key int64

func KeyOf(x, y int) Key {
	return Key(int64(x)<<32 | int64(uint32(int32(y))))
}

// Cell unpacks the key back into grid coordinates.
func (k Key) Cell() (int, int) {
	return int(int32(int64(k) >> 32)), int(int32(uint32(k)))
}

// Bounds is the map rectangle in tile units, [0,w)x[0,h).
func Bounds(w, h int) image.Rectangle {
	return image.Rect(0, 0, w, h)
}

func inBounds(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}
