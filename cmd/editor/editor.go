package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/mapeditor/config"
	"github.com/milk9111/mapeditor/levels"
	"github.com/milk9111/mapeditor/palette"
	"github.com/milk9111/mapeditor/render"
	"github.com/milk9111/mapeditor/tilemap"
	"github.com/rs/zerolog/log"
)

var backgroundColor = color.RGBA{R: 18, G: 20, B: 26, A: 255}

// selfSaveGrace is how long after a save the watcher's report of our own
// write is ignored.
const selfSaveGrace = time.Second

// EditorGame is the Ebiten game for the map editor.
type EditorGame struct {
	cfg config.Config
	svc *levels.Service
	doc *levels.MapDocument

	ui           *editorUI
	painter      *tilemap.Painter
	tileset      image.Image
	selector     *palette.Selector
	paletteImg   *ebiten.Image
	paletteBlank *ebiten.Image
	scroll       paletteScroll

	comp     *render.Compositor
	canvas   *Canvas
	bus      *render.Bus
	renderer *render.Renderer
	listener *render.Listener

	watcher    *levels.Watcher
	watchedMap string
	lastSave   time.Time

	saving         bool
	renderProgress string
	saveResults    chan levels.SaveResult
	tilesetResults chan tilesetLoaded
	mapResults     chan mapLoaded
	renderUpdates  chan renderUpdate

	status      statusLine
	clipboardOK bool
	isPanning   bool
	lastPanX    int
	lastPanY    int
	hoverCell   image.Point
	screenW     int
	screenH     int
}

func NewEditorGame(cfg config.Config, svc *levels.Service, doc *levels.MapDocument, assets []AssetInfo, tileset image.Image) (*EditorGame, error) {
	doc.EnsureLayers()
	g := &EditorGame{
		cfg:            cfg,
		svc:            svc,
		doc:            doc,
		tileset:        tileset,
		bus:            render.NewBus(),
		saveResults:    make(chan levels.SaveResult, 1),
		tilesetResults: make(chan tilesetLoaded, 1),
		mapResults:     make(chan mapLoaded, 1),
		renderUpdates:  make(chan renderUpdate, 16),
	}

	g.comp = render.NewCompositor(doc.TileSize)
	g.comp.ShowGrid = cfg.Render.ShowGrid
	g.comp.ShowCheckerboard = cfg.Render.ShowCheckerboard
	g.comp.Cache = render.NewTileCache(cfg.Render.CacheSize)
	g.comp.Log = log.Logger

	// The full render runs on its own goroutine, so it gets its own
	// compositor; only the tile cache is shared.
	full := render.NewCompositor(doc.TileSize)
	full.Cache = g.comp.Cache
	full.Log = log.Logger
	full.MaxCanvasSide = cfg.Render.MaxCanvasSide
	full.MaxCanvasPixels = cfg.Render.MaxCanvasPixels
	g.renderer = render.NewRenderer(full, g.bus, log.Logger)
	g.renderer.Timeout = cfg.Render.Timeout

	g.canvas = NewCanvas(g.comp, doc.Width, doc.Height, cfg.Render.Debounce, image.Pt(leftPanelWidth+8, toolbarHeight+8))
	g.painter = tilemap.NewPainter(doc.Width, doc.Height, doc.Layers)
	g.painter.History.SetLimit(cfg.UndoLimit)
	g.painter.SelectLayer(doc.SelectedLayerID())

	sel, err := palette.NewSelector(tileset, doc.TileSize)
	if err != nil {
		return nil, err
	}
	sel.SetZoomRange(cfg.Zoom.Min, cfg.Zoom.Max)
	sel.SetZoom(cfg.Zoom.Min)
	g.selector = sel

	g.ui = BuildEditorUI(assets, uiState{
		MapName: doc.Name,
		MapSize: mapSizeLabel(doc),
		Mode:    g.painter.Mode,
		Layers:  g.painter.Layers.Layers(),
		Active:  g.painter.Layers.ActiveIndex(),
	}, uiCallbacks{
		OnModeSelected: func(m tilemap.Mode) {
			if g.painter.Mode != m {
				g.painter.PointerUp()
				g.painter.Mode = m
			}
		},
		OnRender:        g.Export,
		OnSave:          g.Save,
		OnLayerSelected: g.SelectLayer,
		OnLayerRenamed: func(id int, name string) {
			if g.painter.Layers.Rename(id, name) {
				g.layersChanged()
			}
		},
		OnNewLayer:    g.AddLayer,
		OnDeleteLayer: g.DeleteLayer,
		OnMoveLayerUp: func(idx int) {
			g.ReorderLayer(idx, idx+1)
		},
		OnMoveLayerDown: func(idx int) {
			g.ReorderLayer(idx, idx-1)
		},
		OnToggleVisible: func(id int) {
			if g.painter.Layers.ToggleVisibility(id) {
				g.layersChanged()
			}
		},
		OnToggleLock: func(id int) {
			if g.painter.Layers.ToggleLock(id) {
				g.layersChanged()
			}
		},
		OnClearMap:        g.ClearMap,
		OnTilesetSelected: g.loadTileset,
		OnZoomIn: func() {
			g.selector.ZoomIn()
			g.refreshPalette()
		},
		OnZoomOut: func() {
			g.selector.ZoomOut()
			g.refreshPalette()
		},
	})
	g.paletteBlank = g.ui.Tileset.Palette.Image
	g.refreshPalette()
	g.watchFiles()
	return g, nil
}

func mapSizeLabel(doc *levels.MapDocument) string {
	return fmt.Sprintf("%dx%d tiles, %dpx", doc.Width, doc.Height, doc.TileSize)
}

// openDocument replaces the open map. Brush and mode carry over; history
// starts fresh.
func (g *EditorGame) openDocument(doc *levels.MapDocument) {
	doc.EnsureLayers()
	brush, mode := g.painter.Brush, g.painter.Mode
	g.doc = doc

	g.painter = tilemap.NewPainter(doc.Width, doc.Height, doc.Layers)
	g.painter.History.SetLimit(g.cfg.UndoLimit)
	g.painter.SelectLayer(doc.SelectedLayerID())
	g.painter.Mode = mode

	if doc.TileSize != g.selector.TileSize() {
		g.comp.TileSize = doc.TileSize
		if sel, err := palette.NewSelector(g.tileset, doc.TileSize); err == nil {
			sel.SetZoomRange(g.selector.ZoomRange())
			sel.SetZoom(g.selector.Zoom())
			g.selector = sel
		}
		brush = nil
		g.refreshPalette()
	}
	g.painter.Brush = brush
	g.canvas.Reset(doc.Width, doc.Height)
	g.ui.Left.MapNameInput.SetText(doc.Name)
	g.refreshLayers()
	g.watchFiles()
}

func (g *EditorGame) notify(msg string) {
	log.Info().Msg(msg)
	g.status.Set(msg, time.Now())
}

func (g *EditorGame) refreshLayers() {
	g.ui.Left.LayerPanel.SetLayers(g.painter.Layers.Layers())
	g.ui.Left.LayerPanel.SetSelected(g.painter.Layers.ActiveIndex())
}

// layersChanged commits a layer-manager edit and repaints.
func (g *EditorGame) layersChanged() {
	g.painter.CommitLayers()
	g.canvas.InvalidateAll()
	g.refreshLayers()
}

func (g *EditorGame) SelectLayer(id int) {
	g.painter.SelectLayer(id)
}

func (g *EditorGame) AddLayer() {
	g.painter.PointerUp()
	g.painter.Layers.AddLayer()
	g.layersChanged()
}

func (g *EditorGame) DeleteLayer(id int) {
	g.painter.PointerUp()
	if g.painter.Layers.DeleteLayer(id) {
		g.layersChanged()
	}
}

func (g *EditorGame) ReorderLayer(from, to int) {
	if g.painter.Layers.Reorder(from, to) {
		g.layersChanged()
	}
}

// ClearMap resets to a single empty Base Layer. It can be undone.
func (g *EditorGame) ClearMap() {
	g.painter.PointerUp()
	g.painter.Layers.Clear()
	g.layersChanged()
	g.notify("Map cleared")
}

func (g *EditorGame) cycleLayer(step int) {
	ls := g.painter.Layers.Layers()
	idx := (g.painter.Layers.ActiveIndex() + step + len(ls)) % len(ls)
	g.painter.SelectLayer(ls[idx].ID)
	g.ui.Left.LayerPanel.SetSelected(idx)
}

func (g *EditorGame) Undo() {
	if g.painter.Undo() {
		g.canvas.Invalidate(g.painter.LastDirty())
		g.refreshLayers()
	}
}

func (g *EditorGame) Redo() {
	if g.painter.Redo() {
		g.canvas.Invalidate(g.painter.LastDirty())
		g.refreshLayers()
	}
}

func (g *EditorGame) setMode(m tilemap.Mode) {
	g.painter.PointerUp()
	g.painter.Mode = m
	g.ui.ToolBar.SetMode(m)
	log.Debug().Stringer("mode", m).Msg("switched paint mode")
}

// refreshPalette rebuilds the zoomed tileset preview shown in the right
// panel.
func (g *EditorGame) refreshPalette() {
	g.ui.Tileset.SetZoom(g.selector.Zoom())
	prev := g.selector.Preview()
	if g.paletteImg != nil {
		g.paletteImg.Deallocate()
		g.paletteImg = nil
	}
	if prev == nil {
		g.ui.Tileset.SetPalette(g.paletteBlank)
		return
	}
	g.paletteImg = ebiten.NewImageFromImage(prev)
	viewSize := image.Pt(paletteViewW, paletteViewH)
	g.scroll.clamp(prev.Bounds().Size(), viewSize)
	view := image.Rectangle{Min: image.Pt(g.scroll.x, g.scroll.y)}
	view.Max = view.Min.Add(viewSize)
	g.ui.Tileset.SetPalette(g.paletteImg.SubImage(view.Intersect(g.paletteImg.Bounds())).(*ebiten.Image))
}

// useSelection makes the current palette selection the brush.
func (g *EditorGame) useSelection() {
	st, err := g.selector.Stamp()
	if err != nil {
		return
	}
	g.painter.Brush = st
	g.ui.Tileset.SetInfo(st.Name)
}

func (g *EditorGame) textInputFocused() bool {
	if fw := g.ui.UI.GetFocusedWidget(); fw != nil {
		if _, ok := fw.(*widget.TextInput); ok {
			return true
		}
	}
	return false
}

func (g *EditorGame) modalOpen() bool {
	return g.ui.Left.RenameOverlay.GetWidget().Visibility == widget.Visibility_Show
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

var arrowKeys = map[ebiten.Key]palette.Direction{
	ebiten.KeyArrowUp:    palette.Up,
	ebiten.KeyArrowDown:  palette.Down,
	ebiten.KeyArrowLeft:  palette.Left,
	ebiten.KeyArrowRight: palette.Right,
}

func (g *EditorGame) handleHotkeys() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	ctrl := ctrlPressed()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ) && shift, inpututil.IsKeyJustPressed(ebiten.KeyY):
			g.Redo()
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			g.Undo()
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			g.Save()
		case inpututil.IsKeyJustPressed(ebiten.KeyP):
			g.Export()
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			g.reloadMap()
		case inpututil.IsKeyJustPressed(ebiten.KeyB):
			g.setMode(tilemap.ModeStamp)
		case inpututil.IsKeyJustPressed(ebiten.KeyF):
			g.setMode(tilemap.ModeFill)
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			g.setMode(tilemap.ModeRemove)
		}
		return nil
	}

	// Cycle layers (Q/E)
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.cycleLayer(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.cycleLayer(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.AddLayer()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.comp.ShowGrid = !g.comp.ShowGrid
		g.canvas.InvalidateAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.comp.ShowCheckerboard = !g.comp.ShowCheckerboard
		g.canvas.InvalidateAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.painter.Brush = nil
		g.ui.Tileset.SetInfo("No selection")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.selector.ZoomIn()
		g.refreshPalette()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.selector.ZoomOut()
		g.refreshPalette()
	}

	// Arrow keys move the palette selection, Shift+arrow resizes it.
	for key, dir := range arrowKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if shift {
			g.selector.Resize(dir)
		} else {
			g.selector.Move(dir)
		}
		g.useSelection()
		g.refreshPalette()
	}
	return nil
}

// handlePalette drives drag selection on the palette preview. It reports
// whether the mouse belonged to the palette this frame.
func (g *EditorGame) handlePalette(cx, cy int) bool {
	x, y, w, h := g.ui.Tileset.PaletteRect()
	origin := image.Pt(x, y)
	inside := image.Pt(cx, cy).In(image.Rect(x, y, x+w, y+h))

	if g.selector.Dragging() {
		before := g.selector.Selection()
		g.selector.Extend(g.selector.ScreenToPixel(g.scroll.toPreview(cx, cy, origin)))
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			st, err := g.selector.Finish()
			if err != nil {
				g.notify("Selection failed: " + err.Error())
			} else {
				g.painter.Brush = st
				g.ui.Tileset.SetInfo(st.Name)
			}
			g.refreshPalette()
		} else if g.selector.Selection() != before {
			g.refreshPalette()
		}
		return true
	}
	if !inside || !g.selector.Loaded() {
		return false
	}
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		step := g.selector.RenderedTileSize()
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			wx, wy = wy, 0
		}
		g.scroll.x -= int(wx) * step
		g.scroll.y -= int(wy) * step
		g.refreshPalette()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.selector.Begin(g.selector.ScreenToPixel(g.scroll.toPreview(cx, cy, origin)))
		g.refreshPalette()
	}
	return true
}

func (g *EditorGame) inCanvasArea(cx, cy int) bool {
	return cx >= leftPanelWidth && cx < g.screenW-rightPanelWidth && cy >= toolbarHeight && cy < g.screenH
}

func (g *EditorGame) handleCanvas(cx, cy int) {
	view := &g.canvas.view
	x, y := view.cellAt(cx, cy)
	g.hoverCell = image.Pt(x, y)

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.painter.PointerUp()
	}

	// Handle pan (middle mouse drag)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) && g.inCanvasArea(cx, cy) {
		g.isPanning = true
		g.lastPanX, g.lastPanY = cx, cy
	}
	if g.isPanning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		view.panX += float64(cx - g.lastPanX)
		view.panY += float64(cy - g.lastPanY)
		g.lastPanX, g.lastPanY = cx, cy
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.isPanning = false
	}

	if ebuiinput.UIHovered || !g.inCanvasArea(cx, cy) {
		return
	}
	// Handle zoom (mouse wheel, centered on cursor)
	if _, wy := ebiten.Wheel(); wy != 0 {
		factor := 1.1
		if wy < 0 {
			factor = 1 / 1.1
		}
		view.zoomAt(cx, cy, factor)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if g.painter.PointerDown(x, y) {
			g.canvas.Invalidate(g.painter.LastDirty())
		}
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && g.painter.Stroking():
		if g.painter.PointerMove(x, y) {
			g.canvas.Invalidate(g.painter.LastDirty())
		}
	}
}

// drainResults applies whatever the background jobs have finished.
func (g *EditorGame) drainResults() {
	var events <-chan string
	var errs <-chan error
	if g.watcher != nil {
		events, errs = g.watcher.Events, g.watcher.Errors
	}
	for {
		select {
		case res := <-g.saveResults:
			g.lastSave = time.Now()
			g.handleSave(res)
		case r := <-g.tilesetResults:
			g.handleTileset(r)
		case r := <-g.mapResults:
			g.handleMap(r)
		case u := <-g.renderUpdates:
			g.handleRender(u)
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			g.fileChanged(path)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn().Err(err).Msg("file watch error")
		default:
			return
		}
	}
}

func (g *EditorGame) fileChanged(path string) {
	if path == g.watchedMap {
		if g.saving || time.Since(g.lastSave) < selfSaveGrace {
			return
		}
		g.notify("Map changed on disk, Ctrl+R to reload")
		return
	}
	log.Info().Str("path", path).Msg("tileset changed on disk")
	g.loadTileset(AssetInfo{Path: path})
}

func (g *EditorGame) Update() error {
	g.drainResults()

	// If the UI has a focused text widget (user is typing), suppress hotkeys.
	if !g.textInputFocused() && !g.modalOpen() {
		if err := g.handleHotkeys(); err != nil {
			return err
		}
	}

	g.ui.UI.Update()

	if !g.modalOpen() {
		cx, cy := ebiten.CursorPosition()
		if !g.handlePalette(cx, cy) {
			g.handleCanvas(cx, cy)
		}
	}

	g.canvas.Sync(g.painter.Layers.Layers())
	return nil
}

// statusText composes the bottom status bar.
func statusText(mode tilemap.Mode, layer *tilemap.Layer, saving bool, progress, msg string) string {
	parts := []string{mode.String(), "Layer: " + layer.Name}
	if layer.Locked {
		parts = append(parts, "locked")
	}
	if saving {
		parts = append(parts, "Saving...")
	}
	if progress != "" {
		parts = append(parts, progress)
	}
	if msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, " | ")
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	bw, bh := 1, 1
	if g.painter.Brush != nil && g.painter.Mode == tilemap.ModeStamp {
		bw, bh = g.painter.Brush.Size()
	}
	active := g.painter.Layers.Active()
	g.canvas.Draw(screen, g.hoverCell, bw, bh, active.Locked)

	g.ui.UI.Draw(screen)

	line := statusText(g.painter.Mode, active, g.saving, g.renderProgress, g.status.Text(time.Now()))
	ebitenutil.DebugPrintAt(screen, line, leftPanelWidth+8, g.screenH-20)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *EditorGame) Close() {
	g.canvas.Close()
	if g.listener != nil {
		g.listener.Close()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
