package tilemap

// History is a linear undo/redo log of layer snapshots. Entries after the
// current position are the redo branch and are dropped on the next Commit.
type History struct {
	entries []Layers
	pos     int
	limit   int
}

// NewHistory starts a log whose only entry is initial.
func NewHistory(initial Layers) *History {
	return &History{entries: []Layers{initial.Clone()}}
}

// SetLimit caps the number of stored entries; the oldest are dropped first.
// n <= 0 means unbounded.
func (h *History) SetLimit(n int) {
	h.limit = n
	h.trim()
}

// Commit records snapshot as the newest state.
func (h *History) Commit(snapshot Layers) {
	h.entries = append(h.entries[:h.pos+1], snapshot.Clone())
	h.pos = len(h.entries) - 1
	h.trim()
}

func (h *History) trim() {
	if h.limit <= 0 || len(h.entries) <= h.limit {
		return
	}
	drop := len(h.entries) - h.limit
	h.entries = append([]Layers(nil), h.entries[drop:]...)
	h.pos -= drop
	if h.pos < 0 {
		h.pos = 0
	}
}

// Undo steps back one entry and returns a copy of it.
func (h *History) Undo() (Layers, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.pos--
	return h.entries[h.pos].Clone(), true
}

// Redo steps forward one entry and returns a copy of it.
func (h *History) Redo() (Layers, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.pos++
	return h.entries[h.pos].Clone(), true
}

// Current returns a copy of the entry at the current position.
func (h *History) Current() Layers {
	return h.entries[h.pos].Clone()
}

// Reset discards everything and starts over from initial.
func (h *History) Reset(initial Layers) {
	h.entries = []Layers{initial.Clone()}
	h.pos = 0
}

func (h *History) CanUndo() bool { return h.pos > 0 }
func (h *History) CanRedo() bool { return h.pos < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Position() int { return h.pos }
