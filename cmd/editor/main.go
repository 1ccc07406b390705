package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mattn/go-isatty"
	assetsPkg "github.com/milk9111/mapeditor/assets"
	"github.com/milk9111/mapeditor/config"
	"github.com/milk9111/mapeditor/levels"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

// promptMapSize asks for the size of a new map. Blank or invalid answers
// keep the defaults.
func promptMapSize(defaultCols, defaultRows int, r io.Reader, w io.Writer) (int, int) {
	reader := bufio.NewReader(r)
	ask := func(label string, def int) int {
		fmt.Fprintf(w, "Enter map %s in tiles (default %d): ", label, def)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		if v, err := strconv.Atoi(line); err == nil && v > 0 {
			return v
		}
		return def
	}
	cols := ask("width", defaultCols)
	rows := ask("height", defaultRows)
	return cols, rows
}

// openInitialMap picks the document the editor starts with: the named map
// from the store, the embedded sample, or a new empty map.
func openInitialMap(svc *levels.Service, cfg config.Config, name string, sample bool, width, height int) (*levels.MapDocument, error) {
	if sample {
		return levels.LoadMapFromFS(levels.SampleMap)
	}
	name = normalizeMapName(name)
	if name != "" {
		doc, err := svc.LoadMapDocument(name)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, levels.ErrMapNotFound) {
			return nil, err
		}
		log.Info().Str("map", name).Msg("map not found, starting a new one")
	} else {
		name = "untitled"
	}

	if width <= 0 || height <= 0 {
		width, height = cfg.Map.Width, cfg.Map.Height
		if isatty.IsTerminal(os.Stdin.Fd()) {
			width, height = promptMapSize(width, height, os.Stdin, os.Stdout)
		}
	}
	return levels.NewMapDocument(name, width, height, cfg.TileSize), nil
}

// initialTileset loads the document's tileset, falling back to the builtin
// one when it is unset or unreadable.
func initialTileset(dataDir string, doc *levels.MapDocument) image.Image {
	if doc.TilesetPath == "" {
		return assetsPkg.DefaultTileset()
	}
	path := doc.TilesetPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}
	img, err := levels.LoadTileset(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("tileset unavailable, using builtin")
		return assetsPkg.DefaultTileset()
	}
	return img
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are built in)")
	dataDir := flag.String("data", "", "Data directory for maps, tilesets and exports (overrides config)")
	mapName := flag.String("map", "", "Map to open from the store (.json optional)")
	tilesetPath := flag.String("tileset", "", "Tileset image to use, relative to the data directory")
	sample := flag.Bool("sample", false, "Open the embedded sample map")
	width := flag.Int("width", 0, "Width in tiles of a new map")
	height := flag.Int("height", 0, "Height in tiles of a new map")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	log.Info().Str("data", cfg.DataDir).Str("store", cfg.Store.Kind).Msg("editor starting")

	store, err := levels.OpenStore(cfg.Store.Kind, cfg.DataDir, cfg.Store.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open map store")
	}
	defer store.Close()
	svc := levels.NewService(cfg.DataDir, store, log.Logger)

	doc, err := openInitialMap(svc, cfg, *mapName, *sample, *width, *height)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open map")
	}
	if *tilesetPath != "" {
		doc.TilesetPath = filepath.ToSlash(*tilesetPath)
	}

	assets, err := ListImageAssets(filepath.Join(cfg.DataDir, "tilesets"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to list tilesets")
	}

	game, err := NewEditorGame(cfg, svc, doc, assets, initialTileset(cfg.DataDir, doc))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create editor")
	}
	defer game.Close()

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable, exports go to disk only")
	} else {
		game.clipboardOK = true
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Map Editor - " + doc.Name)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("editor exited")
	}
}
