package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/mapeditor/config"
	"github.com/milk9111/mapeditor/levels"
	"github.com/milk9111/mapeditor/render"
	"github.com/milk9111/mapeditor/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are built in)")
	dataDir := flag.String("data", "", "Data directory for maps and tilesets (overrides config)")
	addr := flag.String("addr", "", "Listen address (overrides config and PORT)")
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
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	store, err := levels.OpenStore(cfg.Store.Kind, cfg.DataDir, cfg.Store.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Kind).Msg("failed to open map store")
	}
	defer store.Close()
	log.Info().Str("store", cfg.Store.Kind).Str("data", cfg.DataDir).Msg("persistence initialized")

	comp := render.NewCompositor(cfg.TileSize)
	comp.Cache = render.NewTileCache(cfg.Render.CacheSize)
	comp.Log = log.Logger
	comp.MaxCanvasSide = cfg.Render.MaxCanvasSide
	comp.MaxCanvasPixels = cfg.Render.MaxCanvasPixels
	renderer := render.NewRenderer(comp, render.NewBus(), log.Logger)
	renderer.Timeout = cfg.Render.Timeout

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(levels.NewService(cfg.DataDir, store, log.Logger), renderer, log.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("map server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("map server stopped")
	}
}
