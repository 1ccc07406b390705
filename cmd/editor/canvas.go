package main

import (
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/mapeditor/render"
	"github.com/milk9111/mapeditor/tilemap"
)

var (
	cursorColor = color.RGBA{R: 255, G: 200, B: 0, A: 220}
	lockedColor = color.RGBA{R: 220, G: 60, B: 60, A: 220}
)

// Canvas keeps the composited map on the CPU and mirrors it into an ebiten
// image. Paint operations mark tile rectangles dirty; the repaint runs on the
// game goroutine once the debouncer has fired.
type Canvas struct {
	comp     *render.Compositor
	rgba     *image.RGBA
	img      *ebiten.Image
	bounds   image.Rectangle
	pending  image.Rectangle
	due      atomic.Bool
	debounce *render.Debouncer
	view     viewport
}

func NewCanvas(comp *render.Compositor, width, height int, delay time.Duration, origin image.Point) *Canvas {
	c := &Canvas{comp: comp, view: newViewport(origin, comp.TileSize)}
	c.debounce = render.NewDebouncer(delay, func() { c.due.Store(true) })
	c.resize(width, height)
	return c
}

func (c *Canvas) resize(width, height int) {
	if c.img != nil {
		c.img.Deallocate()
	}
	c.rgba = c.comp.NewCanvas(width, height)
	c.img = ebiten.NewImage(c.rgba.Bounds().Dx(), c.rgba.Bounds().Dy())
	c.bounds = tilemap.Bounds(width, height)
	c.pending = c.bounds
	c.due.Store(true)
}

// Reset reallocates the canvas for a newly opened map, picking up the
// compositor's current tile size.
func (c *Canvas) Reset(width, height int) {
	c.debounce.Stop()
	c.view.tileSize = c.comp.TileSize
	c.resize(width, height)
}

// Invalidate schedules a repaint of tile rectangle r.
func (c *Canvas) Invalidate(r image.Rectangle) {
	r = r.Intersect(c.bounds)
	if r.Empty() {
		return
	}
	c.pending = c.pending.Union(r)
	c.debounce.Trigger()
}

func (c *Canvas) InvalidateAll() {
	c.Invalidate(c.bounds)
}

// Sync repaints the pending region if the debouncer has fired. It reports
// whether anything was drawn.
func (c *Canvas) Sync(layers tilemap.Layers) bool {
	if !c.due.Swap(false) || c.pending.Empty() {
		return false
	}
	c.comp.RenderRegion(c.rgba, layers, c.pending)
	c.img.WritePixels(c.rgba.Pix)
	c.pending = image.Rectangle{}
	return true
}

// Draw blits the canvas and outlines the brush footprint at cell.
func (c *Canvas) Draw(screen *ebiten.Image, cell image.Point, brushW, brushH int, locked bool) {
	op := &ebiten.DrawImageOptions{GeoM: c.view.geoM()}
	screen.DrawImage(c.img, op)

	foot := image.Rect(cell.X, cell.Y, cell.X+brushW, cell.Y+brushH).Intersect(c.bounds)
	if foot.Empty() {
		return
	}
	clr := cursorColor
	if locked {
		clr = lockedColor
	}
	x, y, w, h := c.view.cellRect(foot)
	vector.StrokeRect(screen, x, y, w, h, 2, clr, false)
}

func (c *Canvas) Close() {
	c.debounce.Stop()
	if c.img != nil {
		c.img.Deallocate()
	}
}
