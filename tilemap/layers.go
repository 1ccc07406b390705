package tilemap

import (
	"fmt"
	"strings"
)

// LayerStack owns the ordered layer collection and the active-layer pointer.
// Every mutating method reports whether anything changed so callers know
// when to commit a history entry.
type LayerStack struct {
	layers Layers
	active int // layer id
}

// NewLayerStack adopts ls, falling back to DefaultLayers when it is empty.
// The first layer becomes active.
func NewLayerStack(ls Layers) *LayerStack {
	s := &LayerStack{}
	s.Replace(ls)
	return s
}

// Layers returns the live collection. Callers must not keep it across edits.
func (s *LayerStack) Layers() Layers {
	return s.layers
}

func (s *LayerStack) Len() int {
	return len(s.layers)
}

// Snapshot deep-copies the current collection.
func (s *LayerStack) Snapshot() Layers {
	return s.layers.Clone()
}

// Replace swaps in a copy of ls, keeping the active layer if it still exists.
func (s *LayerStack) Replace(ls Layers) {
	if len(ls) == 0 {
		ls = DefaultLayers()
	}
	s.layers = ls.Clone()
	if s.layers.index(s.active) < 0 {
		s.active = s.layers[0].ID
	}
}

// Active returns the active layer. It is never nil.
func (s *LayerStack) Active() *Layer {
	i := s.layers.index(s.active)
	if i < 0 {
		s.active = s.layers[0].ID
		return s.layers[0]
	}
	return s.layers[i]
}

func (s *LayerStack) ActiveID() int {
	return s.Active().ID
}

// ActiveIndex returns the position of the active layer in draw order.
func (s *LayerStack) ActiveIndex() int {
	s.Active()
	return s.layers.index(s.active)
}

func (s *LayerStack) Get(id int) (*Layer, bool) {
	i := s.layers.index(id)
	if i < 0 {
		return nil, false
	}
	return s.layers[i], true
}

// SetActive makes id the active layer.
func (s *LayerStack) SetActive(id int) bool {
	if s.layers.index(id) < 0 || s.active == id {
		return false
	}
	s.active = id
	return true
}

// AddLayer appends an empty layer with id max+1 and makes it active.
func (s *LayerStack) AddLayer() *Layer {
	next := 0
	for _, l := range s.layers {
		if l.ID > next {
			next = l.ID
		}
	}
	l := NewLayer(next+1, fmt.Sprintf("Layer %d", len(s.layers)+1))
	s.layers = append(s.layers, l)
	s.active = l.ID
	return l
}

// DeleteLayer removes id unless it is the last layer. Deleting the active
// layer activates the first remaining one.
func (s *LayerStack) DeleteLayer(id int) bool {
	if len(s.layers) <= 1 {
		return false
	}
	i := s.layers.index(id)
	if i < 0 {
		return false
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active == id {
		s.active = s.layers[0].ID
	}
	return true
}

func (s *LayerStack) ToggleVisibility(id int) bool {
	l, ok := s.Get(id)
	if !ok {
		return false
	}
	l.Visible = !l.Visible
	return true
}

func (s *LayerStack) ToggleLock(id int) bool {
	l, ok := s.Get(id)
	if !ok {
		return false
	}
	l.Locked = !l.Locked
	return true
}

// Reorder moves the layer at index from to index to.
func (s *LayerStack) Reorder(from, to int) bool {
	n := len(s.layers)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers[:to], append(Layers{l}, s.layers[to:]...)...)
	return true
}

// Rename accepts name only if it is non-blank after trimming and differs
// from the current name.
func (s *LayerStack) Rename(id int, name string) bool {
	l, ok := s.Get(id)
	if !ok {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" || name == l.Name {
		return false
	}
	l.Name = name
	return true
}

// Clear resets the map to a single empty Base Layer.
func (s *LayerStack) Clear() {
	s.layers = DefaultLayers()
	s.active = s.layers[0].ID
}
