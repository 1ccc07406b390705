package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed *.json
var MapsFS embed.FS

// SampleMap is the embedded map opened when the editor starts without one.
const SampleMap = "route1.json"

func LoadMapFromFS(name string) (*MapDocument, error) {
	data, err := fs.ReadFile(MapsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return decodeMap(data)
}

func decodeMap(data []byte) (*MapDocument, error) {
	var doc MapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	doc.EnsureLayers()
	return &doc, nil
}
