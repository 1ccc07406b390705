package main

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	minCanvasZoom = 0.25
	maxCanvasZoom = 4.0
	statusTTL     = 3 * time.Second
)

// viewport maps screen pixels to map cells. The canvas is drawn at origin,
// shifted by pan and scaled by zoom.
type viewport struct {
	origin   image.Point
	panX     float64
	panY     float64
	zoom     float64
	tileSize int
}

func newViewport(origin image.Point, tileSize int) viewport {
	return viewport{origin: origin, zoom: 1, tileSize: tileSize}
}

func (v viewport) world(sx, sy int) (float64, float64) {
	return (float64(sx-v.origin.X) - v.panX) / v.zoom, (float64(sy-v.origin.Y) - v.panY) / v.zoom
}

// cellAt returns the map cell under screen point (sx, sy). Cells left of or
// above the map come back negative.
func (v viewport) cellAt(sx, sy int) (int, int) {
	wx, wy := v.world(sx, sy)
	ts := float64(v.tileSize)
	return int(math.Floor(wx / ts)), int(math.Floor(wy / ts))
}

// zoomAt scales by factor keeping the world point under (cx, cy) fixed.
func (v *viewport) zoomAt(cx, cy int, factor float64) {
	old := v.zoom
	z := old * factor
	if z < minCanvasZoom {
		z = minCanvasZoom
	}
	if z > maxCanvasZoom {
		z = maxCanvasZoom
	}
	if z == old {
		return
	}
	wx, wy := v.world(cx, cy)
	v.zoom = z
	v.panX = float64(cx-v.origin.X) - wx*z
	v.panY = float64(cy-v.origin.Y) - wy*z
}

func (v viewport) geoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(v.zoom, v.zoom)
	m.Translate(float64(v.origin.X)+v.panX, float64(v.origin.Y)+v.panY)
	return m
}

// cellRect is the screen rectangle covered by the tile rectangle r.
func (v viewport) cellRect(r image.Rectangle) (x, y, w, h float32) {
	ts := float64(v.tileSize) * v.zoom
	x = float32(float64(v.origin.X) + v.panX + float64(r.Min.X)*ts)
	y = float32(float64(v.origin.Y) + v.panY + float64(r.Min.Y)*ts)
	return x, y, float32(float64(r.Dx()) * ts), float32(float64(r.Dy()) * ts)
}

// paletteScroll is the scroll offset of the palette preview inside its
// fixed-size view.
type paletteScroll struct {
	x, y int
}

// toPreview converts a screen point to preview pixels given the view's
// top-left corner.
func (p paletteScroll) toPreview(sx, sy int, view image.Point) (int, int) {
	return sx - view.X + p.x, sy - view.Y + p.y
}

// clamp keeps the view inside content.
func (p *paletteScroll) clamp(content, view image.Point) {
	p.x = clampInt(p.x, 0, max(0, content.X-view.X))
	p.y = clampInt(p.y, 0, max(0, content.Y-view.Y))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// statusLine is a transient notification.
type statusLine struct {
	text  string
	until time.Time
}

func (s *statusLine) Set(msg string, now time.Time) {
	s.text = msg
	s.until = now.Add(statusTTL)
}

func (s *statusLine) Text(now time.Time) string {
	if now.After(s.until) {
		return ""
	}
	return s.text
}
