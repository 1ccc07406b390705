package levels

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/mapeditor/common"
	"github.com/rs/zerolog"
)

const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
)

// OpenStore returns the store named by kind. JSON maps live under
// dataDir/maps.
func OpenStore(kind, dataDir, dsn string) (Store, error) {
	switch kind {
	case "", StoreJSON:
		return NewFileStore(filepath.Join(dataDir, "maps"))
	case StorePostgres:
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}

type TilesetImageResult struct {
	Success      bool   `json:"success"`
	ImageData    string `json:"imageData,omitempty"`
	TilesetPath  string `json:"tilesetPath,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type SaveResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Service is the backend the editing canvas talks to: tileset images and
// map documents. Failures are reported in results, never panics.
type Service struct {
	DataDir string
	Store   Store
	Log     zerolog.Logger
}

func NewService(dataDir string, store Store, log zerolog.Logger) *Service {
	return &Service{DataDir: dataDir, Store: store, Log: log}
}

func (s *Service) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.DataDir, path)
}

// ErrPathOutsideData is returned for tileset paths that leave DataDir.
var ErrPathOutsideData = errors.New("path is outside the data directory")

// ResolveTileset cleans a client supplied tileset path and returns it relative
// to DataDir. Absolute paths and paths that climb out of DataDir are rejected.
func (s *Service) ResolveTileset(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(path)))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideData, path)
	}
	root, err := filepath.Abs(s.DataDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, filepath.Join(root, clean))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideData, path)
	}
	return rel, nil
}

// LoadTilesetImage reads the tileset at path (relative to DataDir unless
// absolute) and returns it as a data URL.
func (s *Service) LoadTilesetImage(path string) TilesetImageResult {
	full := s.resolve(path)
	data, format, err := ReadTileset(full)
	if err != nil {
		s.Log.Warn().Err(err).Str("path", full).Msg("load tileset failed")
		return TilesetImageResult{ErrorMessage: err.Error()}
	}
	s.Log.Debug().Str("path", full).Int("bytes", len(data)).Msg("tileset loaded")
	return TilesetImageResult{
		Success:     true,
		ImageData:   common.DataURL(format, data),
		TilesetPath: full,
	}
}

// SaveMap persists doc. doc itself is never modified.
func (s *Service) SaveMap(doc *MapDocument) SaveResult {
	if doc == nil {
		return SaveResult{ErrorMessage: ErrInvalidMap.Error()}
	}
	if err := s.Store.SaveMap(doc); err != nil {
		s.Log.Error().Err(err).Str("map", doc.Name).Msg("save map failed")
		return SaveResult{ErrorMessage: fmt.Sprintf("error saving map: %v", err)}
	}
	s.Log.Info().Str("map", doc.Name).Int("layers", len(doc.Layers)).Msg("saved map")
	return SaveResult{Success: true, Message: fmt.Sprintf("Successfully updated map JSON file: %s", doc.Name)}
}

// LoadMapDocument loads the map called name from the store.
func (s *Service) LoadMapDocument(name string) (*MapDocument, error) {
	doc, err := s.Store.LoadMap(name)
	if err != nil {
		s.Log.Warn().Err(err).Str("map", name).Msg("load map failed")
		return nil, err
	}
	return doc, nil
}

func (s *Service) ListMaps() ([]string, error) {
	return s.Store.ListMaps()
}
