package levels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/mapeditor/tilemap"
)

const DefaultMapType = "overworld"

var (
	ErrInvalidMap  = errors.New("invalid map document")
	ErrMapNotFound = errors.New("map not found")
)

// MapDocument is the persisted form of a map: metadata, layers and the
// encounter tables edited by the surrounding editor views.
type MapDocument struct {
	ID                     int            `json:"id"`
	Name                   string         `json:"name"`
	Width                  int            `json:"width"`
	Height                 int            `json:"height"`
	TileSize               int            `json:"tileSize"`
	Type                   string         `json:"type"`
	TilesetPath            string         `json:"tilesetPath"`
	Layers                 tilemap.Layers `json:"layers"`
	CurrentlySelectedLayer string         `json:"currentlySelectedLayer"`
	MapEncounters          MapEncounters  `json:"mapEncounters"`
	Properties             MapProperties  `json:"properties"`
}

type Encounter struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	MinLevel         int    `json:"minLevel"`
	MaxLevel         int    `json:"maxLevel"`
	Rarity           int    `json:"rarity"`
	Shiny            bool   `json:"shiny"`
	TimeOfDayToCatch string `json:"timeOfDayToCatch"`
}

type FishingEncounter struct {
	Encounter
	HighestRod string `json:"highestRod"`
}

type MapEncounters struct {
	Grass   []Encounter        `json:"grass"`
	Fishing []FishingEncounter `json:"fishing"`
	Cave    []Encounter        `json:"cave"`
	Diving  []Encounter        `json:"diving"`
}

type MapProperties struct {
	Music string `json:"music"`
}

// NewMapDocument returns a blank overworld map with a single Base Layer and
// empty encounter tables.
func NewMapDocument(name string, width, height, tileSize int) *MapDocument {
	layers := tilemap.DefaultLayers()
	return &MapDocument{
		Name:                   name,
		Width:                  width,
		Height:                 height,
		TileSize:               tileSize,
		Type:                   DefaultMapType,
		Layers:                 layers,
		CurrentlySelectedLayer: strconv.Itoa(layers[0].ID),
		MapEncounters: MapEncounters{
			Grass:   []Encounter{},
			Fishing: []FishingEncounter{},
			Cave:    []Encounter{},
			Diving:  []Encounter{},
		},
	}
}

// Validate checks the fields the editor relies on.
func (d *MapDocument) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidMap)
	}
	if strings.ContainsAny(d.Name, `/\`) || d.Name == "." || d.Name == ".." {
		return fmt.Errorf("%w: name %q is not a valid file name", ErrInvalidMap, d.Name)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidMap, d.Width, d.Height)
	}
	if d.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidMap, d.TileSize)
	}
	seen := make(map[int]bool, len(d.Layers))
	for i, l := range d.Layers {
		if l == nil {
			return fmt.Errorf("%w: layer %d is null", ErrInvalidMap, i)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate layer id %d", ErrInvalidMap, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// EnsureLayers fills in the default layer collection when none was stored.
func (d *MapDocument) EnsureLayers() {
	if len(d.Layers) == 0 {
		d.Layers = tilemap.DefaultLayers()
	}
}

// SelectedLayerID parses CurrentlySelectedLayer, returning 0 when unset.
func (d *MapDocument) SelectedLayerID() int {
	id, err := strconv.Atoi(strings.TrimSpace(d.CurrentlySelectedLayer))
	if err != nil {
		return 0
	}
	return id
}
