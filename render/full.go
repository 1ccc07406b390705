package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/mapeditor/common"
	"github.com/milk9111/mapeditor/tilemap"
)

var ErrInvalidRequest = errors.New("invalid render request")

// RenderRequest describes a full-map render.
type RenderRequest struct {
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	TileSize         int            `json:"tileSize"`
	Layers           tilemap.Layers `json:"layers"`
	ShowCheckerboard bool           `json:"showCheckerboard"`
	ShowGrid         bool           `json:"showGrid"`
}

// validate rejects requests that cannot be drawn: non-positive sizes, nil
// layers, and canvases wider or taller than maxSide pixels or larger than
// maxPixels overall. The checks divide rather than multiply so huge inputs
// cannot overflow.
func (r RenderRequest) validate(maxSide, maxPixels int) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrInvalidRequest, r.Width, r.Height)
	}
	if r.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidRequest, r.TileSize)
	}
	if r.TileSize > maxSide || r.Width > maxSide/r.TileSize || r.Height > maxSide/r.TileSize {
		return fmt.Errorf("%w: canvas %dx%d tiles of %dpx exceeds %dpx per side",
			ErrInvalidRequest, r.Width, r.Height, r.TileSize, maxSide)
	}
	// both sides are at most maxSide here, so the product fits
	if w, h := r.Width*r.TileSize, r.Height*r.TileSize; w > maxPixels/h {
		return fmt.Errorf("%w: canvas %dx%d px exceeds %d pixels", ErrInvalidRequest, w, h, maxPixels)
	}
	for i, l := range r.Layers {
		if l == nil {
			return fmt.Errorf("%w: layer %d is null", ErrInvalidRequest, i)
		}
	}
	return nil
}

// Progress is one step of a full render. ImageData, when set, is a PNG data
// URL of the canvas so far.
type Progress struct {
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
	ImageData string `json:"imageData,omitempty"`
}

const (
	progressCanvas  = 10
	progressChecker = 15
	progressIndex   = 20
	progressLayers  = 25
	progressGrid    = 85
	progressEncode  = 90
	progressTotal   = 100

	// tiles between progress reports while drawing a layer
	progressEvery = 10
)

// RenderFull renders the whole map described by req. Visible layers are
// drawn bottom to top, then the grid on top. progress may be nil. The
// context is checked between tiles.
func (c *Compositor) RenderFull(ctx context.Context, req RenderRequest, progress func(Progress)) (*image.RGBA, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	report := func(cur int, msg string, canvas *image.RGBA) {
		if progress == nil {
			return
		}
		p := Progress{Current: cur, Total: progressTotal, Message: msg}
		if canvas != nil {
			data, err := common.EncodePNG(canvas)
			if err == nil {
				p.ImageData = data
			}
		}
		progress(p)
	}

	report(0, "Starting render...", nil)

	fc := *c
	fc.TileSize = req.TileSize
	fc.ShowCheckerboard = req.ShowCheckerboard
	fc.ShowGrid = false
	canvas := fc.NewCanvas(req.Width, req.Height)
	report(progressCanvas, "Canvas created", nil)

	full := tilemap.Bounds(req.Width, req.Height)
	fc.clear(canvas, canvas.Bounds())
	report(progressChecker, "Background drawn", nil)

	total := 0
	for _, l := range req.Layers {
		if l.Visible {
			total += l.Len()
		}
	}
	report(progressIndex, fmt.Sprintf("Indexed %d tiles", total), nil)

	drawn := 0
	layerProgress := func() int {
		if total == 0 {
			return progressLayers
		}
		return progressLayers + drawn*(progressGrid-progressLayers)/total
	}
	for _, l := range req.Layers {
		if !l.Visible {
			continue
		}
		report(layerProgress(), fmt.Sprintf("Rendering layer %q", l.Name), nil)
		tiles := l.TilesIn(full)
		for i, t := range tiles {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("render cancelled: %w", err)
			}
			fc.drawTile(canvas, canvas.Bounds(), t)
			drawn++
			if i%progressEvery == 0 || i == len(tiles)-1 {
				report(layerProgress(), fmt.Sprintf("Rendering tiles... (%d/%d)", drawn, total), nil)
			}
		}
		report(layerProgress(), fmt.Sprintf("Layer %q done", l.Name), canvas)
	}

	report(progressGrid, "Drawing grid...", nil)
	if req.ShowGrid {
		fc.grid(canvas, canvas.Bounds())
	}
	report(progressEncode, "Encoding image...", nil)
	return canvas, nil
}
