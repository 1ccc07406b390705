package render

import (
	"sort"
	"sync"
)

const (
	EventProgress = "map-render-progress"
	EventComplete = "map-render-complete"
	EventError    = "map-render-error"
)

// Event is a render notification. Progress is set for progress events,
// ImageData for completion and Error for failures.
type Event struct {
	Name      string    `json:"name"`
	Progress  *Progress `json:"progress,omitempty"`
	ImageData string    `json:"imageData,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Bus fans named events out to subscribers. It is safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func(Event))}
}

// Subscribe registers fn for events called name. The returned func removes
// the subscription and may be called more than once.
func (b *Bus) Subscribe(name string, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[name] == nil {
		b.subs[name] = make(map[int]func(Event))
	}
	b.subs[name][id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[name], id)
			if len(b.subs[name]) == 0 {
				delete(b.subs, name)
			}
		})
	}
}

// Emit delivers ev to every subscriber of ev.Name in subscription order.
// Handlers run on the caller's goroutine, outside the bus lock.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs[ev.Name]))
	for id := range b.subs[ev.Name] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[ev.Name][id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers reports how many handlers are registered for name.
func (b *Bus) Subscribers(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[name])
}
