package levels

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/mapeditor/common"
)

const MaxTilesetSize = 50 << 20

var (
	ErrTilesetNotFound    = errors.New("tileset does not exist")
	ErrTilesetEmpty       = errors.New("tileset file is empty")
	ErrTilesetTooLarge    = errors.New("tileset file too large")
	ErrTilesetUnsupported = errors.New("unsupported tileset format")
)

var tilesetFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
}

// ReadTileset validates and reads a tileset file, returning its bytes and
// image format.
func ReadTileset(path string) ([]byte, string, error) {
	format, ok := tilesetFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrTilesetUnsupported, filepath.Ext(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrTilesetNotFound, path)
		}
		return nil, "", fmt.Errorf("stat tileset: %w", err)
	}
	if info.Size() == 0 {
		return nil, "", ErrTilesetEmpty
	}
	if info.Size() > MaxTilesetSize {
		return nil, "", fmt.Errorf("%w: maximum size is %d MB", ErrTilesetTooLarge, MaxTilesetSize>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read tileset: %w", err)
	}
	return data, format, nil
}

// LoadTileset reads and decodes a tileset image.
func LoadTileset(path string) (image.Image, error) {
	data, format, err := ReadTileset(path)
	if err != nil {
		return nil, err
	}
	img, err := common.DecodeImageBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s tileset: %w", format, err)
	}
	return img, nil
}
