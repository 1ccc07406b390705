package render

import (
	"image"
	"image/color"

	"github.com/milk9111/mapeditor/tilemap"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
)

const checkerSquare = 8

// Canvas limits for full renders.
const (
	DefaultMaxCanvasSide   = 16384
	DefaultMaxCanvasPixels = 1 << 26
)

var (
	background   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	checkerLight = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	checkerDark  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	gridColor    = color.RGBA{R: 51, G: 65, B: 85, A: 76}
)

// Compositor draws layers onto an RGBA canvas where one tile covers
// TileSize×TileSize pixels.
type Compositor struct {
	TileSize         int
	ShowGrid         bool
	ShowCheckerboard bool
	Cache            *TileCache
	Log              zerolog.Logger

	// MaxCanvasSide and MaxCanvasPixels bound RenderFull canvases.
	MaxCanvasSide   int
	MaxCanvasPixels int
}

func NewCompositor(tileSize int) *Compositor {
	return &Compositor{
		TileSize:         tileSize,
		ShowGrid:         true,
		ShowCheckerboard: true,
		Cache:            NewTileCache(DefaultCacheSize),
		Log:              zerolog.Nop(),
		MaxCanvasSide:    DefaultMaxCanvasSide,
		MaxCanvasPixels:  DefaultMaxCanvasPixels,
	}
}

func (c *Compositor) validate(req RenderRequest) error {
	side, pixels := c.MaxCanvasSide, c.MaxCanvasPixels
	if side <= 0 {
		side = DefaultMaxCanvasSide
	}
	if pixels <= 0 {
		pixels = DefaultMaxCanvasPixels
	}
	return req.validate(side, pixels)
}

// NewCanvas allocates a canvas for a w×h tile map.
func (c *Compositor) NewCanvas(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w*c.TileSize, h*c.TileSize))
}

// PixelRect converts a tile rectangle to canvas pixels.
func (c *Compositor) PixelRect(r image.Rectangle) image.Rectangle {
	ts := c.TileSize
	return image.Rect(r.Min.X*ts, r.Min.Y*ts, r.Max.X*ts, r.Max.Y*ts)
}

// RenderRegion repaints tile rectangle r of dst: background, checkerboard,
// grid, then every visible layer's tiles from bottom to top.
func (c *Compositor) RenderRegion(dst *image.RGBA, layers tilemap.Layers, r image.Rectangle) {
	px := c.PixelRect(r).Intersect(dst.Bounds())
	if px.Empty() {
		return
	}
	c.clear(dst, px)
	if c.ShowGrid {
		c.grid(dst, px)
	}
	for _, l := range layers {
		if !l.Visible {
			continue
		}
		for _, t := range l.TilesIn(r) {
			c.drawTile(dst, px, t)
		}
	}
}

func (c *Compositor) clear(dst *image.RGBA, px image.Rectangle) {
	draw.Draw(dst, px, image.NewUniform(background), image.Point{}, draw.Src)
	if !c.ShowCheckerboard {
		return
	}
	dark := image.NewUniform(checkerDark)
	light := image.NewUniform(checkerLight)
	// Squares are aligned to the canvas origin so partial repaints line up.
	x0 := px.Min.X - px.Min.X%checkerSquare
	y0 := px.Min.Y - px.Min.Y%checkerSquare
	for y := y0; y < px.Max.Y; y += checkerSquare {
		for x := x0; x < px.Max.X; x += checkerSquare {
			src := light
			if (x/checkerSquare+y/checkerSquare)%2 == 1 {
				src = dark
			}
			sq := image.Rect(x, y, x+checkerSquare, y+checkerSquare).Intersect(px)
			draw.Draw(dst, sq, src, image.Point{}, draw.Src)
		}
	}
}

func (c *Compositor) grid(dst *image.RGBA, px image.Rectangle) {
	ts := c.TileSize
	line := image.NewUniform(gridColor)
	for x := px.Min.X - px.Min.X%ts; x < px.Max.X; x += ts {
		if x < px.Min.X {
			continue
		}
		draw.Draw(dst, image.Rect(x, px.Min.Y, x+1, px.Max.Y), line, image.Point{}, draw.Over)
	}
	for y := px.Min.Y - px.Min.Y%ts; y < px.Max.Y; y += ts {
		if y < px.Min.Y {
			continue
		}
		draw.Draw(dst, image.Rect(px.Min.X, y, px.Max.X, y+1), line, image.Point{}, draw.Over)
	}
}

// drawTile composites t into dst, clipped to clip. Tiles whose image cannot
// be decoded are skipped.
func (c *Compositor) drawTile(dst *image.RGBA, clip image.Rectangle, t tilemap.Tile) {
	img, err := c.Cache.Image(t.TileID)
	if err != nil {
		c.Log.Debug().Err(err).Int("x", t.X).Int("y", t.Y).Msg("skipping tile")
		return
	}
	ts := c.TileSize
	cell := image.Rect(t.X*ts, t.Y*ts, (t.X+1)*ts, (t.Y+1)*ts)
	target := cell.Intersect(clip)
	if target.Empty() {
		return
	}
	b := img.Bounds()
	if b.Dx() == ts && b.Dy() == ts {
		draw.Draw(dst, target, img, b.Min.Add(target.Min.Sub(cell.Min)), draw.Over)
		return
	}
	// Off-size tiles are scaled to the cell first.
	scaled := image.NewRGBA(image.Rect(0, 0, ts, ts))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	draw.Draw(dst, target, scaled, target.Min.Sub(cell.Min), draw.Over)
}
