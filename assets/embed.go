package assets

import (
	"embed"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/milk9111/mapeditor/common"
)

//go:embed *.png
var assetsFS embed.FS

// DefaultTilesetName is the built-in tileset used when a map has none.
const DefaultTilesetName = "tileset.png"

// DefaultTilesetTileSize is the tile size the built-in tileset is cut for.
const DefaultTilesetTileSize = 32

// LoadImage decodes an embedded image by assets-relative path.
func LoadImage(path string) (image.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := common.DecodeImageBytes(b)
	if err != nil {
		return nil, fmt.Errorf("embed: decode %s: %w", path, err)
	}
	return img, nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// DefaultTileset returns the built-in tileset image.
func DefaultTileset() image.Image {
	img, err := LoadImage(DefaultTilesetName)
	if err != nil {
		panic(fmt.Sprintf("embed: load %s: %v", DefaultTilesetName, err))
	}
	return img
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
