package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	assetsPkg "github.com/milk9111/mapeditor/assets"
	"github.com/milk9111/mapeditor/common"
	"github.com/milk9111/mapeditor/levels"
	"github.com/milk9111/mapeditor/render"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

type tilesetLoaded struct {
	path string
	img  image.Image
	err  error
}

type mapLoaded struct {
	doc *levels.MapDocument
	err error
}

type renderUpdate struct {
	progress  *render.Progress
	imageData string
	err       string
	done      bool
}

// normalizeMapName turns what was typed in the map field into a store name.
func normalizeMapName(s string) string {
	s = strings.TrimSpace(s)
	s = filepath.Base(filepath.ToSlash(s))
	s = strings.TrimSuffix(s, ".json")
	if s == "." || s == "/" {
		return ""
	}
	return s
}

// documentSnapshot copies the open document with the current layers. The
// copy is handed to a goroutine, so nothing in it is shared with the
// painter.
func (g *EditorGame) documentSnapshot() *levels.MapDocument {
	doc := *g.doc
	if g.ui != nil {
		doc.Name = normalizeMapName(g.ui.Left.MapNameInput.GetText())
	}
	doc.Layers = g.painter.Layers.Snapshot()
	doc.CurrentlySelectedLayer = strconv.Itoa(g.painter.Layers.ActiveID())
	return &doc
}

// Save persists the document in the background. The status line shows
// "Saving..." until the result arrives.
func (g *EditorGame) Save() {
	if g.saving {
		return
	}
	doc := g.documentSnapshot()
	g.saving = true
	go func() {
		g.saveResults <- g.svc.SaveMap(doc)
	}()
}

func (g *EditorGame) handleSave(res levels.SaveResult) {
	g.saving = false
	if !res.Success {
		g.notify("Save failed: " + res.ErrorMessage)
		return
	}
	g.doc.Name = normalizeMapName(g.ui.Left.MapNameInput.GetText())
	g.notify(res.Message)
}

// loadTileset swaps the palette image. Builtin assets load synchronously;
// files go through the backend and arrive on tilesetResults.
func (g *EditorGame) loadTileset(asset AssetInfo) {
	if asset.Builtin {
		// the builtin tileset is what an empty tilesetPath means
		img, err := assetsPkg.LoadImage(asset.Path)
		g.handleTileset(tilesetLoaded{img: img, err: err})
		return
	}
	path := asset.Path
	if rel, err := filepath.Rel(g.svc.DataDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = filepath.ToSlash(rel)
	}
	go func() {
		res := g.svc.LoadTilesetImage(path)
		if !res.Success {
			g.tilesetResults <- tilesetLoaded{path: path, err: errors.New(res.ErrorMessage)}
			return
		}
		raw, err := common.DataURLBytes(res.ImageData)
		if err != nil {
			g.tilesetResults <- tilesetLoaded{path: path, err: err}
			return
		}
		img, err := common.DecodeImageBytes(raw)
		g.tilesetResults <- tilesetLoaded{path: path, img: img, err: err}
	}()
}

func (g *EditorGame) handleTileset(r tilesetLoaded) {
	if r.err != nil {
		log.Warn().Err(r.err).Str("path", r.path).Msg("tileset load failed")
		g.notify("Tileset load failed: " + r.err.Error())
		return
	}
	g.tileset = r.img
	g.selector.SetTileset(r.img)
	g.painter.Brush = nil
	g.doc.TilesetPath = r.path
	g.refreshPalette()
	g.watchFiles()
	log.Info().Str("path", r.path).Msg("tileset loaded")
}

// reloadMap replaces the open document with the stored one.
func (g *EditorGame) reloadMap() {
	name := g.doc.Name
	go func() {
		doc, err := g.svc.LoadMapDocument(name)
		g.mapResults <- mapLoaded{doc: doc, err: err}
	}()
}

func (g *EditorGame) handleMap(r mapLoaded) {
	if r.err != nil {
		g.notify("Reload failed: " + r.err.Error())
		return
	}
	tilesetChanged := r.doc.TilesetPath != g.doc.TilesetPath
	g.openDocument(r.doc)
	if tilesetChanged && r.doc.TilesetPath != "" {
		g.loadTileset(AssetInfo{Path: filepath.Join(g.svc.DataDir, r.doc.TilesetPath)})
	}
	g.notify("Reloaded " + r.doc.Name)
}

// Export renders the whole map in the background. When it completes the
// PNG goes to the clipboard and to data/exports.
func (g *EditorGame) Export() {
	if g.listener != nil {
		g.notify("Render already in progress")
		return
	}
	req := render.RenderRequest{
		Width:            g.doc.Width,
		Height:           g.doc.Height,
		TileSize:         g.doc.TileSize,
		Layers:           g.painter.Layers.Snapshot(),
		ShowCheckerboard: g.comp.ShowCheckerboard,
		ShowGrid:         g.comp.ShowGrid,
	}
	updates := g.renderUpdates
	g.listener = render.Listen(g.bus, render.ListenerFuncs{
		OnProgress: func(p render.Progress) {
			select {
			case updates <- renderUpdate{progress: &p}:
			default:
				// a newer progress event will follow
			}
		},
		OnComplete: func(imageData string) {
			updates <- renderUpdate{imageData: imageData}
		},
		OnError: func(msg string) {
			updates <- renderUpdate{err: msg}
		},
	}, func() {
		updates <- renderUpdate{done: true}
	})
	if res := g.renderer.Start(context.Background(), req); !res.Success {
		g.listener.Close()
		g.listener = nil
		g.notify("Render failed: " + res.Message)
	}
}

func (g *EditorGame) handleRender(u renderUpdate) {
	switch {
	case u.done:
		g.listener = nil
		g.renderProgress = ""
	case u.err != "":
		g.notify("Render failed: " + u.err)
	case u.progress != nil:
		g.renderProgress = fmt.Sprintf("%s %d%%", u.progress.Message, u.progress.Current*100/max(1, u.progress.Total))
	case u.imageData != "":
		path, err := g.writeExport(u.imageData)
		if err != nil {
			log.Error().Err(err).Msg("export failed")
			g.notify("Export failed: " + err.Error())
			return
		}
		g.notify("Exported map to " + path)
	}
}

func (g *EditorGame) writeExport(imageData string) (string, error) {
	data, err := common.DataURLBytes(imageData)
	if err != nil {
		return "", err
	}
	name := g.doc.Name
	if name == "" {
		name = "map"
	}
	path := filepath.Join(g.svc.DataDir, "exports", name+".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if g.clipboardOK {
		clipboard.Write(clipboard.FmtImage, data)
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Bool("clipboard", g.clipboardOK).Msg("exported map")
	return path, nil
}

// watchFiles (re)starts the file watcher over the map file, when the store
// keeps maps on disk, and the tileset.
func (g *EditorGame) watchFiles() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
	g.watchedMap = ""
	var paths []string
	if fs, ok := g.svc.Store.(*levels.FileStore); ok && g.doc.Name != "" {
		if abs, err := filepath.Abs(fs.Path(g.doc.Name)); err == nil {
			g.watchedMap = abs
			paths = append(paths, abs)
		}
	}
	if p := g.doc.TilesetPath; p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(g.svc.DataDir, p)
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return
	}
	w, err := levels.NewWatcher(paths...)
	if err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("file watch disabled")
		return
	}
	g.watcher = w
}
