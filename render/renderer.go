package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/milk9111/mapeditor/common"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 30 * time.Second

var ErrBusy = errors.New("render already in progress")

// Result is the immediate answer to Start; the rendered image arrives later
// as an EventComplete on the bus.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Renderer runs full-map renders in the background and reports through Bus.
type Renderer struct {
	Compositor *Compositor
	Bus        *Bus
	Timeout    time.Duration
	Log        zerolog.Logger

	mu      sync.Mutex
	running bool
}

func NewRenderer(c *Compositor, bus *Bus, log zerolog.Logger) *Renderer {
	return &Renderer{
		Compositor: c,
		Bus:        bus,
		Timeout:    DefaultTimeout,
		Log:        log,
	}
}

// Start validates req and kicks off the render. Only one render runs at a
// time.
func (r *Renderer) Start(ctx context.Context, req RenderRequest) Result {
	if err := r.Compositor.validate(req); err != nil {
		return Result{Message: err.Error()}
	}
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return Result{Message: ErrBusy.Error()}
	}
	r.running = true
	r.mu.Unlock()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	go r.run(ctx, req, timeout)
	return Result{Success: true, Message: "render started"}
}

func (r *Renderer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

type renderOutcome struct {
	img *image.RGBA
	err error
}

func (r *Renderer) run(parent context.Context, req RenderRequest, timeout time.Duration) {
	done := make(chan renderOutcome, 1)
	exited := make(chan struct{})
	// A new render may only start once the terminal event is out and the
	// worker is gone, even when the worker outlives a timeout.
	defer func() {
		<-exited
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	r.Log.Info().Int("width", req.Width).Int("height", req.Height).Int("layers", len(req.Layers)).Msg("render started")

	go func() {
		defer close(exited)
		var out renderOutcome
		defer func() {
			if p := recover(); p != nil {
				r.Log.Error().Interface("panic", p).Msg("render worker panicked")
				out = renderOutcome{err: fmt.Errorf("render failed: %v", p)}
			}
			done <- out
		}()
		out.img, out.err = r.Compositor.RenderFull(ctx, req, func(p Progress) {
			if ctx.Err() != nil {
				return
			}
			r.Bus.Emit(Event{Name: EventProgress, Progress: &p})
		})
	}()

	var out renderOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	if out.err == nil {
		// The render may have finished just as the deadline passed.
		out.err = ctx.Err()
	}
	if out.err != nil {
		msg := out.err.Error()
		if errors.Is(out.err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("render timed out after %s", timeout)
		}
		r.Log.Error().Err(out.err).Dur("elapsed", time.Since(start)).Msg("render failed")
		r.Bus.Emit(Event{Name: EventError, Error: msg})
		return
	}

	data, err := common.EncodePNG(out.img)
	if err != nil {
		r.Log.Error().Err(err).Msg("render encode failed")
		r.Bus.Emit(Event{Name: EventError, Error: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}
	r.Bus.Emit(Event{Name: EventProgress, Progress: &Progress{Current: progressTotal, Total: progressTotal, Message: "Map rendering completed"}})
	r.Log.Info().Dur("elapsed", time.Since(start)).Int("bytes", len(data)).Msg("render complete")
	r.Bus.Emit(Event{Name: EventComplete, ImageData: data})
}
