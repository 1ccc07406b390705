package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/milk9111/mapeditor/levels"
	"github.com/milk9111/mapeditor/render"
	"github.com/rs/zerolog"
)

// maxBodySize bounds request bodies. Map documents carry tile images inline,
// so this is generous.
const maxBodySize = 64 << 20

// Server exposes the map backend over HTTP and streams render events over a
// websocket.
type Server struct {
	Service  *levels.Service
	Renderer *render.Renderer
	Bus      *render.Bus
	Log      zerolog.Logger

	upgrader websocket.Upgrader
}

func New(svc *levels.Service, renderer *render.Renderer, log zerolog.Logger) *Server {
	return &Server{
		Service:  svc,
		Renderer: renderer,
		Bus:      renderer.Bus,
		Log:      log,
		upgrader: websocket.Upgrader{
			// The editor frontend is served from elsewhere during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tileset", s.handleTileset)
	mux.HandleFunc("POST /api/maps/save", s.handleSaveMap)
	mux.HandleFunc("GET /api/maps", s.handleListMaps)
	mux.HandleFunc("GET /api/maps/{name}", s.handleLoadMap)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /ws", s.handleWS)
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

type tilesetReq struct {
	Path string `json:"path"`
}

func (s *Server) handleTileset(w http.ResponseWriter, r *http.Request) {
	var req tilesetReq
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, levels.TilesetImageResult{ErrorMessage: "path is required"})
		return
	}
	path, err := s.Service.ResolveTileset(req.Path)
	if err != nil {
		s.Log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("rejected tileset path")
		writeJSON(w, http.StatusBadRequest, levels.TilesetImageResult{ErrorMessage: err.Error()})
		return
	}
	res := s.Service.LoadTilesetImage(path)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

func (s *Server) handleSaveMap(w http.ResponseWriter, r *http.Request) {
	var doc levels.MapDocument
	if !decodeBody(w, r, &doc) {
		return
	}
	if err := doc.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, levels.SaveResult{ErrorMessage: err.Error()})
		return
	}
	res := s.Service.SaveMap(&doc)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func (s *Server) handleLoadMap(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.PathValue("name"), ".json")
	doc, err := s.Service.LoadMapDocument(name)
	switch {
	case errors.Is(err, levels.ErrMapNotFound):
		writeJSON(w, http.StatusNotFound, errorResp{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, doc)
	}
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	names, err := s.Service.ListMaps()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// handleRender starts a full render. The result only says whether it
// started; the image arrives over /ws.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req render.RenderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// The render outlives the request.
	res := s.Renderer.Start(context.Background(), req)
	status := http.StatusAccepted
	switch {
	case res.Success:
	case res.Message == render.ErrBusy.Error():
		status = http.StatusConflict
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}
