package tilemap

import "testing"

func layerWith(ids ...string) Layers {
	l := NewLayer(1, "Base Layer")
	for i, id := range ids {
		l.Set(Tile{X: i, Y: 0, TileID: id})
	}
	return Layers{l}
}

func TestHistoryInitialState(t *testing.T) {
	h := NewHistory(layerWith())
	if h.Len() != 1 || h.Position() != 0 {
		t.Fatalf("expected single entry at 0, got len=%d pos=%d", h.Len(), h.Position())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history should have nothing to undo or redo")
	}
	if _, ok := h.Undo(); ok {
		t.Fatalf("Undo on fresh history should fail")
	}
}

func TestHistoryCommitDropsRedoBranch(t *testing.T) {
	h := NewHistory(layerWith())
	h.Commit(layerWith("a"))
	h.Commit(layerWith("a", "b"))
	h.Undo()
	if !h.CanRedo() {
		t.Fatalf("expected redo to be available after undo")
	}
	h.Commit(layerWith("a", "c"))
	if h.CanRedo() {
		t.Fatalf("commit after undo should discard the redo branch")
	}
	if h.Len() != 3 || h.Position() != 2 {
		t.Fatalf("expected len=3 pos=2, got len=%d pos=%d", h.Len(), h.Position())
	}
	got, _ := h.Undo()
	if !got.Equal(layerWith("a")) {
		t.Fatalf("undo returned wrong snapshot")
	}
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	live := layerWith("a")
	h := NewHistory(layerWith())
	h.Commit(live)
	live[0].Set(Tile{X: 9, Y: 9, TileID: "mutated"})

	h.Undo()
	redone, _ := h.Redo()
	if _, ok := redone[0].Get(9, 9); ok {
		t.Fatalf("mutating a committed collection leaked into history")
	}
	redone[0].Set(Tile{X: 8, Y: 8, TileID: "x"})
	if _, ok := h.Current()[0].Get(8, 8); ok {
		t.Fatalf("mutating a restored snapshot leaked into history")
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(layerWith())
	h.SetLimit(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		h.Commit(layerWith(id))
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	if h.Position() != 2 {
		t.Fatalf("expected position 2, got %d", h.Position())
	}
	h.Undo()
	oldest, _ := h.Undo()
	if !oldest.Equal(layerWith("b")) {
		t.Fatalf("oldest kept entry should be b")
	}
	if h.CanUndo() {
		t.Fatalf("entries beyond the limit should be gone")
	}
}
