package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/milk9111/mapeditor/common"
	"golang.org/x/image/draw"
)

const (
	MinZoom = 1
	MaxZoom = 4
)

var (
	ErrNoTileset       = errors.New("no tileset loaded")
	ErrInvalidTileSize = errors.New("invalid tile size")
	ErrNoSelection     = errors.New("no selection")
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

var selectionColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}

// Selector picks a whole-tile rectangle out of a tileset image. All
// rectangles it keeps are in tile units.
type Selector struct {
	tileset  image.Image
	tileSize int
	cols     int
	rows     int
	zoom     int
	minZoom  int
	maxZoom  int

	sel      image.Rectangle
	anchor   image.Point
	dragging bool
}

// NewSelector returns a selector over tileset. A nil tileset is allowed;
// every interaction then does nothing.
func NewSelector(tileset image.Image, tileSize int) (*Selector, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileSize, tileSize)
	}
	s := &Selector{tileSize: tileSize, zoom: MinZoom, minZoom: MinZoom, maxZoom: MaxZoom}
	s.SetTileset(tileset)
	return s, nil
}

// SetTileset swaps the tileset and clears the selection.
func (s *Selector) SetTileset(tileset image.Image) {
	s.tileset = tileset
	s.sel = image.Rectangle{}
	s.dragging = false
	s.cols, s.rows = 0, 0
	if tileset != nil {
		b := tileset.Bounds()
		s.cols = b.Dx() / s.tileSize
		s.rows = b.Dy() / s.tileSize
	}
}

func (s *Selector) Loaded() bool {
	return s.tileset != nil && s.cols > 0 && s.rows > 0
}

func (s *Selector) TileSize() int { return s.tileSize }

// Grid returns the tileset size in tiles.
func (s *Selector) Grid() (cols, rows int) { return s.cols, s.rows }

// Selection is the current rectangle in tile units; empty when nothing is
// selected.
func (s *Selector) Selection() image.Rectangle { return s.sel }

func (s *Selector) Dragging() bool { return s.dragging }

func (s *Selector) cellAt(px, py int) image.Point {
	cx := floorDiv(px, s.tileSize)
	cy := floorDiv(py, s.tileSize)
	return image.Pt(clamp(cx, 0, s.cols-1), clamp(cy, 0, s.rows-1))
}

// Begin anchors a drag at tileset pixel (px, py).
func (s *Selector) Begin(px, py int) {
	if !s.Loaded() {
		return
	}
	s.anchor = s.cellAt(px, py)
	s.sel = image.Rectangle{Min: s.anchor, Max: s.anchor.Add(image.Pt(1, 1))}
	s.dragging = true
}

// Extend grows the drag rectangle to cover the anchor and the cell under
// (px, py).
func (s *Selector) Extend(px, py int) {
	if !s.Loaded() || !s.dragging {
		return
	}
	c := s.cellAt(px, py)
	s.sel = image.Rect(
		min(s.anchor.X, c.X), min(s.anchor.Y, c.Y),
		max(s.anchor.X, c.X)+1, max(s.anchor.Y, c.Y)+1,
	)
}

// Finish ends the drag and builds a stamp from the selection.
func (s *Selector) Finish() (*Stamp, error) {
	s.dragging = false
	return s.Stamp()
}

// Stamp builds a stamp from the current selection.
func (s *Selector) Stamp() (*Stamp, error) {
	if !s.Loaded() {
		return nil, ErrNoTileset
	}
	if s.sel.Empty() {
		return nil, ErrNoSelection
	}
	x, y := s.sel.Min.X, s.sel.Min.Y
	w, h := s.sel.Dx(), s.sel.Dy()

	whole, err := common.EncodePNG(s.crop(s.sel))
	if err != nil {
		return nil, fmt.Errorf("encode stamp: %w", err)
	}
	st := &Stamp{
		ID:     stampID(x, y, w, h),
		Name:   stampName(x, y, w, h),
		Image:  whole,
		Width:  w,
		Height: h,
	}
	if w == 1 && h == 1 {
		return st, nil
	}
	st.SubTiles = make([][]string, w)
	for dx := 0; dx < w; dx++ {
		st.SubTiles[dx] = make([]string, h)
		for dy := 0; dy < h; dy++ {
			cell := image.Rect(x+dx, y+dy, x+dx+1, y+dy+1)
			ref, err := common.EncodePNG(s.crop(cell))
			if err != nil {
				return nil, fmt.Errorf("encode sub tile %d,%d: %w", dx, dy, err)
			}
			st.SubTiles[dx][dy] = ref
		}
	}
	return st, nil
}

// crop copies the tile rectangle r out of the tileset into a new image
// anchored at the origin.
func (s *Selector) crop(r image.Rectangle) *image.RGBA {
	px := image.Rect(r.Min.X*s.tileSize, r.Min.Y*s.tileSize, r.Max.X*s.tileSize, r.Max.Y*s.tileSize)
	px = px.Add(s.tileset.Bounds().Min)
	dst := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	draw.Draw(dst, dst.Bounds(), s.tileset, px.Min, draw.Src)
	return dst
}

// Move shifts the selection by its own width or height, staying inside the
// tileset.
func (s *Selector) Move(dir Direction) {
	if !s.Loaded() || s.sel.Empty() {
		return
	}
	w, h := s.sel.Dx(), s.sel.Dy()
	x, y := s.sel.Min.X, s.sel.Min.Y
	switch dir {
	case Up:
		y -= h
	case Down:
		y += h
	case Left:
		x -= w
	case Right:
		x += w
	}
	x = clamp(x, 0, s.cols-w)
	y = clamp(y, 0, s.rows-h)
	s.sel = image.Rect(x, y, x+w, y+h)
}

// Resize grows the selection by one tile to the right or down, and shrinks
// it by one tile for left or up. It never drops below one tile or leaves
// the tileset.
func (s *Selector) Resize(dir Direction) {
	if !s.Loaded() || s.sel.Empty() {
		return
	}
	r := s.sel
	switch dir {
	case Right:
		r.Max.X = min(r.Max.X+1, s.cols)
	case Down:
		r.Max.Y = min(r.Max.Y+1, s.rows)
	case Left:
		r.Max.X = max(r.Max.X-1, r.Min.X+1)
	case Up:
		r.Max.Y = max(r.Max.Y-1, r.Min.Y+1)
	}
	s.sel = r
}

func (s *Selector) Zoom() int { return s.zoom }

func (s *Selector) SetZoom(z int) {
	s.zoom = clamp(z, s.minZoom, s.maxZoom)
}

// ZoomRange reports the zoom bounds SetZoom clamps to.
func (s *Selector) ZoomRange() (lo, hi int) { return s.minZoom, s.maxZoom }

// SetZoomRange changes the zoom bounds and re-clamps the current zoom. lo is
// raised to MinZoom and hi to lo when out of order.
func (s *Selector) SetZoomRange(lo, hi int) {
	lo = max(lo, MinZoom)
	s.minZoom, s.maxZoom = lo, max(hi, lo)
	s.SetZoom(s.zoom)
}

func (s *Selector) ZoomIn()  { s.SetZoom(s.zoom + 1) }
func (s *Selector) ZoomOut() { s.SetZoom(s.zoom - 1) }

// RenderedTileSize is the on-screen size of one tile at the current zoom.
func (s *Selector) RenderedTileSize() int {
	return s.tileSize * s.zoom
}

// ScreenToPixel converts a point on the zoomed preview to tileset pixels.
func (s *Selector) ScreenToPixel(sx, sy int) (int, int) {
	return floorDiv(sx, s.zoom), floorDiv(sy, s.zoom)
}

// Preview renders the tileset at the current zoom with the selection
// outlined. It returns nil when no tileset is loaded.
func (s *Selector) Preview() *image.RGBA {
	if s.tileset == nil {
		return nil
	}
	b := s.tileset.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*s.zoom, b.Dy()*s.zoom))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s.tileset, b, draw.Src, nil)
	if !s.sel.Empty() {
		ts := s.RenderedTileSize()
		outline(dst, image.Rect(s.sel.Min.X*ts, s.sel.Min.Y*ts, s.sel.Max.X*ts, s.sel.Max.Y*ts), selectionColor)
	}
	return dst
}

func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
