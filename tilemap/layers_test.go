package tilemap

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(s *LayerStack) []string {
	var out []string
	for _, l := range s.Layers() {
		out = append(out, l.Name)
	}
	return out
}

func TestNewLayerStackDefaults(t *testing.T) {
	s := NewLayerStack(nil)
	if s.Len() != 1 {
		t.Fatalf("expected default collection of 1 layer, got %d", s.Len())
	}
	l := s.Active()
	if l.ID != 1 || l.Name != "Base Layer" || !l.Visible || l.Locked {
		t.Fatalf("unexpected default layer %+v", l)
	}
}

func TestAddLayer(t *testing.T) {
	s := NewLayerStack(Layers{NewLayer(1, "Base Layer"), NewLayer(7, "Top")})
	l := s.AddLayer()
	if l.ID != 8 {
		t.Fatalf("expected id max+1 = 8, got %d", l.ID)
	}
	if l.Name != "Layer 3" {
		t.Fatalf("expected name Layer 3, got %q", l.Name)
	}
	if s.ActiveID() != 8 {
		t.Fatalf("new layer should become active")
	}
	if !l.Visible || l.Locked || l.Len() != 0 {
		t.Fatalf("new layer should be visible, unlocked and empty: %+v", l)
	}
}

func TestDeleteLayer(t *testing.T) {
	cases := []struct {
		name       string
		ids        []int
		active     int
		del        int
		ok         bool
		wantActive int
		wantLen    int
	}{
		{"last_layer_floor", []int{1}, 1, 1, false, 1, 1},
		{"delete_active", []int{1, 2, 3}, 2, 2, true, 1, 2},
		{"delete_first_active", []int{4, 2}, 4, 4, true, 2, 1},
		{"delete_inactive", []int{1, 2, 3}, 3, 1, true, 3, 2},
		{"unknown_id", []int{1, 2}, 1, 9, false, 1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var ls Layers
			for _, id := range c.ids {
				ls = append(ls, NewLayer(id, "L"))
			}
			s := NewLayerStack(ls)
			s.SetActive(c.active)
			if got := s.DeleteLayer(c.del); got != c.ok {
				t.Fatalf("DeleteLayer returned %v, want %v", got, c.ok)
			}
			if s.Len() != c.wantLen {
				t.Fatalf("expected %d layers, got %d", c.wantLen, s.Len())
			}
			if s.ActiveID() != c.wantActive {
				t.Fatalf("expected active %d, got %d", c.wantActive, s.ActiveID())
			}
		})
	}
}

func TestDeleteNeverDropsBelowOne(t *testing.T) {
	s := NewLayerStack(nil)
	s.AddLayer()
	s.AddLayer()
	for i := 0; i < 5; i++ {
		s.DeleteLayer(s.ActiveID())
	}
	if s.Len() != 1 {
		t.Fatalf("layer count should floor at 1, got %d", s.Len())
	}
}

func TestToggleFlags(t *testing.T) {
	s := NewLayerStack(nil)
	id := s.ActiveID()
	s.ToggleVisibility(id)
	s.ToggleLock(id)
	l := s.Active()
	if l.Visible || !l.Locked {
		t.Fatalf("flags not flipped: %+v", l)
	}
	s.ToggleVisibility(id)
	s.ToggleLock(id)
	if !l.Visible || l.Locked {
		t.Fatalf("flags not restored: %+v", l)
	}
}

func TestReorder(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		ok       bool
		want     []string
	}{
		{"same_index", 1, 1, false, []string{"a", "b", "c", "d"}},
		{"down", 0, 2, true, []string{"b", "c", "a", "d"}},
		{"up", 3, 0, true, []string{"d", "a", "b", "c"}},
		{"out_of_range", 0, 4, false, []string{"a", "b", "c", "d"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewLayerStack(Layers{NewLayer(1, "a"), NewLayer(2, "b"), NewLayer(3, "c"), NewLayer(4, "d")})
			if got := s.Reorder(c.from, c.to); got != c.ok {
				t.Fatalf("Reorder returned %v, want %v", got, c.ok)
			}
			if diff := cmp.Diff(c.want, names(s)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRename(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{"accepted", "Ground", true, "Ground"},
		{"trimmed", "  Trees  ", true, "Trees"},
		{"blank", "   ", false, "Base Layer"},
		{"unchanged", " Base Layer ", false, "Base Layer"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewLayerStack(nil)
			if got := s.Rename(s.ActiveID(), c.input); got != c.ok {
				t.Fatalf("Rename returned %v, want %v", got, c.ok)
			}
			if s.Active().Name != c.want {
				t.Fatalf("expected name %q, got %q", c.want, s.Active().Name)
			}
		})
	}
}

func TestClearResetsToBaseLayer(t *testing.T) {
	s := NewLayerStack(nil)
	s.Active().Set(Tile{X: 1, Y: 1, TileID: "a"})
	s.AddLayer()
	s.Clear()
	if diff := cmp.Diff([]string{"Base Layer"}, names(s)); diff != "" {
		t.Fatalf("clear mismatch (-want +got):\n%s", diff)
	}
	if s.Active().Len() != 0 {
		t.Fatalf("cleared layer should be empty")
	}
}

func TestLayerJSONRoundTrip(t *testing.T) {
	in := `{"id":3,"name":"Paths","visible":true,"locked":false,"tiles":[` +
		`{"x":2,"y":1,"tileId":"data:image/png;base64,AA=="},` +
		`{"x":0,"y":0,"tileId":"data:image/png;base64,BB==","autoTileId":"auto"}]}`

	var l Layer
	if err := json.Unmarshal([]byte(in), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 tiles, got %d", l.Len())
	}
	out, err := json.Marshal(&l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Layer
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if !(Layers{&l}).Equal(Layers{&again}) {
		t.Fatalf("round trip changed layer:\n%s", cmp.Diff(l.Tiles(), again.Tiles()))
	}
	if got := again.Tiles()[0]; got.X != 0 || got.Y != 0 || got.AutoTileID != "auto" {
		t.Fatalf("tiles should be ordered by row then column, first = %+v", got)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	for _, c := range [][2]int{{0, 0}, {5, 9}, {-3, 7}, {12, -1}, {-40, -40}} {
		x, y := KeyOf(c[0], c[1]).Cell()
		if x != c[0] || y != c[1] {
			t.Fatalf("KeyOf(%d,%d).Cell() = (%d,%d)", c[0], c[1], x, y)
		}
	}
	if KeyOf(1, 2) == KeyOf(2, 1) {
		t.Fatalf("keys for transposed cells collide")
	}
}
