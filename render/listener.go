package render

import "sync"

// ListenerFuncs are the canvas-side callbacks for a full render. Any may be
// nil.
type ListenerFuncs struct {
	OnProgress func(Progress)
	OnComplete func(imageData string)
	OnError    func(msg string)
}

// Listener subscribes to the three render events. When the render completes
// or fails it unsubscribes itself and calls ready exactly once, whatever the
// outcome.
type Listener struct {
	mu     sync.Mutex
	unsubs []func()
	closed bool
	funcs  ListenerFuncs
	ready  func()
	once   sync.Once
}

func Listen(bus *Bus, funcs ListenerFuncs, ready func()) *Listener {
	l := &Listener{funcs: funcs, ready: ready}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unsubs = []func(){
		bus.Subscribe(EventProgress, l.onProgress),
		bus.Subscribe(EventComplete, l.onComplete),
		bus.Subscribe(EventError, l.onError),
	}
	return l
}

func (l *Listener) onProgress(ev Event) {
	if l.isClosed() || ev.Progress == nil {
		return
	}
	if l.funcs.OnProgress != nil {
		l.funcs.OnProgress(*ev.Progress)
	}
}

func (l *Listener) onComplete(ev Event) {
	l.finish(func() {
		if l.funcs.OnComplete != nil {
			l.funcs.OnComplete(ev.ImageData)
		}
	})
}

func (l *Listener) onError(ev Event) {
	l.finish(func() {
		if l.funcs.OnError != nil {
			l.funcs.OnError(ev.Error)
		}
	})
}

func (l *Listener) finish(fn func()) {
	l.once.Do(func() {
		l.Close()
		fn()
		if l.ready != nil {
			l.ready()
		}
	})
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Close removes the subscriptions without signalling ready. It is safe to
// call more than once.
func (l *Listener) Close() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.closed = true
	l.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}
