package palette

import "fmt"

// Stamp is a selected tileset region ready to paint. SubTiles is indexed
// [col][row] and holds one encoded image per cell.
type Stamp struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Image    string     `json:"image"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	SubTiles [][]string `json:"subTiles,omitempty"`
}

// Size reports the stamp footprint in tiles.
func (s *Stamp) Size() (int, int) {
	return s.Width, s.Height
}

// TileAt returns the image reference for cell (dx, dy) of the stamp. Single
// tiles and stamps without SubTiles always paint Image.
func (s *Stamp) TileAt(dx, dy int) string {
	if (s.Width == 1 && s.Height == 1) || len(s.SubTiles) == 0 {
		return s.Image
	}
	if dx < 0 || dx >= len(s.SubTiles) || dy < 0 || dy >= len(s.SubTiles[dx]) {
		return s.Image
	}
	return s.SubTiles[dx][dy]
}

func stampID(x, y, w, h int) string {
	return fmt.Sprintf("%d,%d:%dx%d", x, y, w, h)
}

func stampName(x, y, w, h int) string {
	if w == 1 && h == 1 {
		return fmt.Sprintf("Tile (%d, %d)", x, y)
	}
	return fmt.Sprintf("Region %d×%d", w, h)
}
