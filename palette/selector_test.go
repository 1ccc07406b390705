package palette

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/mapeditor/common"
)

// testTileset builds a cols×rows tileset where every tile is filled with a
// color derived from its cell.
func testTileset(cols, rows, tileSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols*tileSize, rows*tileSize))
	for y := 0; y < rows*tileSize; y++ {
		for x := 0; x < cols*tileSize; x++ {
			img.Set(x, y, tileColor(x/tileSize, y/tileSize))
		}
	}
	return img
}

func tileColor(cx, cy int) color.RGBA {
	return color.RGBA{R: uint8(cx * 20), G: uint8(cy * 20), B: 100, A: 255}
}

func newTestSelector(t *testing.T, cols, rows int) *Selector {
	t.Helper()
	s, err := NewSelector(testTileset(cols, rows, 16), 16)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	return s
}

func TestNewSelectorRejectsBadTileSize(t *testing.T) {
	for _, ts := range []int{0, -8} {
		if _, err := NewSelector(testTileset(2, 2, 16), ts); !errors.Is(err, ErrInvalidTileSize) {
			t.Fatalf("tile size %d: expected ErrInvalidTileSize, got %v", ts, err)
		}
	}
}

func TestNoTilesetIsNoop(t *testing.T) {
	s, err := NewSelector(nil, 16)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	s.Begin(10, 10)
	s.Extend(50, 50)
	s.Move(Right)
	s.Resize(Down)
	if !s.Selection().Empty() {
		t.Fatalf("selection should stay empty without a tileset")
	}
	if _, err := s.Finish(); !errors.Is(err, ErrNoTileset) {
		t.Fatalf("expected ErrNoTileset, got %v", err)
	}
	if s.Preview() != nil {
		t.Fatalf("preview without tileset should be nil")
	}
}

func TestDragSelection(t *testing.T) {
	cases := []struct {
		name   string
		begin  image.Point
		extend image.Point
		want   image.Rectangle
	}{
		{"single_tile", image.Pt(5, 5), image.Pt(12, 3), image.Rect(0, 0, 1, 1)},
		{"down_right", image.Pt(17, 17), image.Pt(50, 40), image.Rect(1, 1, 4, 3)},
		{"up_left", image.Pt(50, 40), image.Pt(17, 17), image.Rect(1, 1, 4, 3)},
		{"clamped", image.Pt(70, 70), image.Pt(500, -20), image.Rect(4, 0, 5, 5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestSelector(t, 5, 5)
			s.Begin(c.begin.X, c.begin.Y)
			s.Extend(c.extend.X, c.extend.Y)
			if s.Selection() != c.want {
				t.Fatalf("selection: want %v, got %v", c.want, s.Selection())
			}
		})
	}
}

func TestFinishSingleTile(t *testing.T) {
	s := newTestSelector(t, 4, 4)
	s.Begin(16*2+1, 16*3+1)
	st, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if st.ID != "2,3:1x1" || st.Name != "Tile (2, 3)" {
		t.Fatalf("unexpected id/name %q %q", st.ID, st.Name)
	}
	if st.SubTiles != nil {
		t.Fatalf("single tile stamp should have no sub tiles")
	}
	img, err := common.DecodeImage(st.Image)
	if err != nil {
		t.Fatalf("decode stamp image: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("stamp image size %v", img.Bounds())
	}
	if got := color.RGBAModel.Convert(img.At(4, 4)); got != tileColor(2, 3) {
		t.Fatalf("stamp pixel: want %v, got %v", tileColor(2, 3), got)
	}
}

func TestFinishRegionSlicesSubTiles(t *testing.T) {
	s := newTestSelector(t, 6, 6)
	s.Begin(16, 32)
	s.Extend(16*3, 16*3)
	st, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if st.Width != 3 || st.Height != 2 {
		t.Fatalf("expected 3x2 stamp, got %dx%d", st.Width, st.Height)
	}
	if st.ID != "1,2:3x2" || st.Name != "Region 3×2" {
		t.Fatalf("unexpected id/name %q %q", st.ID, st.Name)
	}
	if len(st.SubTiles) != 3 || len(st.SubTiles[0]) != 2 {
		t.Fatalf("sub tiles should be [3][2], got [%d][...]", len(st.SubTiles))
	}
	for dx := 0; dx < 3; dx++ {
		for dy := 0; dy < 2; dy++ {
			img, err := common.DecodeImage(st.TileAt(dx, dy))
			if err != nil {
				t.Fatalf("decode sub tile %d,%d: %v", dx, dy, err)
			}
			want := tileColor(1+dx, 2+dy)
			if got := color.RGBAModel.Convert(img.At(8, 8)); got != want {
				t.Fatalf("sub tile %d,%d: want %v, got %v", dx, dy, want, got)
			}
		}
	}
	if s.Dragging() {
		t.Fatalf("Finish should end the drag")
	}
}

func TestMove(t *testing.T) {
	cases := []struct {
		name string
		dirs []Direction
		want image.Rectangle
	}{
		{"right_by_width", []Direction{Right}, image.Rect(3, 1, 5, 3)},
		{"clamped_right", []Direction{Right, Right, Right}, image.Rect(6, 1, 8, 3)},
		{"down_by_height", []Direction{Down}, image.Rect(1, 3, 3, 5)},
		{"clamped_up", []Direction{Up}, image.Rect(1, 0, 3, 2)},
		{"clamped_left", []Direction{Left}, image.Rect(0, 1, 2, 3)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestSelector(t, 8, 6)
			s.Begin(16, 16)
			s.Extend(16*2, 16*2)
			for _, d := range c.dirs {
				s.Move(d)
			}
			if s.Selection() != c.want {
				t.Fatalf("want %v, got %v", c.want, s.Selection())
			}
		})
	}
}

func TestResize(t *testing.T) {
	cases := []struct {
		name string
		dirs []Direction
		want image.Rectangle
	}{
		{"grow_right", []Direction{Right}, image.Rect(2, 2, 4, 3)},
		{"grow_down_clamped", []Direction{Down, Down, Down, Down}, image.Rect(2, 2, 3, 4)},
		{"shrink_floor", []Direction{Left, Up}, image.Rect(2, 2, 3, 3)},
		{"grow_then_shrink", []Direction{Right, Right, Left}, image.Rect(2, 2, 4, 3)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestSelector(t, 5, 4)
			s.Begin(32, 32)
			s.Finish()
			for _, d := range c.dirs {
				s.Resize(d)
			}
			if s.Selection() != c.want {
				t.Fatalf("want %v, got %v", c.want, s.Selection())
			}
		})
	}
}

func TestZoom(t *testing.T) {
	s := newTestSelector(t, 2, 2)
	var got []int
	for i := 0; i < 5; i++ {
		s.ZoomIn()
		got = append(got, s.Zoom())
	}
	for i := 0; i < 5; i++ {
		s.ZoomOut()
		got = append(got, s.Zoom())
	}
	want := []int{2, 3, 4, 4, 4, 3, 2, 1, 1, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("zoom sequence (-want +got):\n%s", diff)
	}

	s.SetZoom(3)
	if s.RenderedTileSize() != 48 {
		t.Fatalf("rendered tile size: want 48, got %d", s.RenderedTileSize())
	}
	if x, y := s.ScreenToPixel(50, 95); x != 16 || y != 31 {
		t.Fatalf("ScreenToPixel: got %d,%d", x, y)
	}
	if p := s.Preview(); p.Bounds().Dx() != 96 {
		t.Fatalf("preview width: want 96, got %d", p.Bounds().Dx())
	}
}

func TestZoomRange(t *testing.T) {
	s := newTestSelector(t, 2, 2)
	s.SetZoomRange(2, 8)
	if s.Zoom() != 2 {
		t.Fatalf("zoom should be raised to the new minimum, got %d", s.Zoom())
	}
	for i := 0; i < 10; i++ {
		s.ZoomIn()
	}
	if s.Zoom() != 8 {
		t.Fatalf("zoom = %d, want clamp at 8", s.Zoom())
	}
	if p := s.Preview(); p.Bounds().Dx() != 8*32 {
		t.Fatalf("preview width: want %d, got %d", 8*32, p.Bounds().Dx())
	}

	s.SetZoomRange(1, 3)
	if s.Zoom() != 3 {
		t.Fatalf("zoom should drop to the new maximum, got %d", s.Zoom())
	}
	s.SetZoomRange(0, -1)
	if lo, hi := s.ZoomRange(); lo != MinZoom || hi != MinZoom {
		t.Fatalf("range = %d..%d, want %d..%d", lo, hi, MinZoom, MinZoom)
	}
}

func TestStampTileAtFallsBackToImage(t *testing.T) {
	st := &Stamp{Image: "whole", Width: 2, Height: 2}
	if st.TileAt(1, 1) != "whole" {
		t.Fatalf("stamp without sub tiles should paint its image")
	}
	st.SubTiles = [][]string{{"a", "b"}, {"c", "d"}}
	if st.TileAt(1, 0) != "c" {
		t.Fatalf("TileAt should index [col][row], got %q", st.TileAt(1, 0))
	}
}
