package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/mapeditor/render"
)

const (
	// EventConnected is sent once the connection is subscribed to the bus.
	EventConnected = "connected"

	writeWait = 10 * time.Second
	sendQueue = 64
)

// outgoing is one queued message. Progress is droppable; the hello and the
// terminal complete/error events are not.
type outgoing struct {
	data      []byte
	droppable bool
}

// conn is one websocket client. Bus handlers never block on it: when the
// queue is full a progress event is dropped, and a terminal event evicts the
// oldest queued progress event. If no room can be made the connection is
// closed so the client sees a disconnect instead of waiting forever.
type conn struct {
	ws    *websocket.Conn
	send  chan outgoing
	done  chan struct{}
	abort func()
}

func newConn(ws *websocket.Conn) *conn {
	c := &conn{ws: ws, send: make(chan outgoing, sendQueue), done: make(chan struct{})}
	c.abort = func() { ws.Close() }
	return c
}

func (c *conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *conn) trySend(m outgoing) bool {
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

// enqueue queues msg and reports whether it was queued.
func (c *conn) enqueue(msg []byte, droppable bool) bool {
	if c.closed() {
		return false
	}
	m := outgoing{data: msg, droppable: droppable}
	if c.trySend(m) {
		return true
	}
	if droppable {
		return false
	}
	select {
	case old := <-c.send:
		if old.droppable && c.trySend(m) {
			return true
		}
	default:
		// the writer drained the queue in the meantime
		if c.trySend(m) {
			return true
		}
	}
	c.abort()
	return false
}

// writePump writes queued messages until done is closed or a write fails.
func (c *conn) writePump() {
	for {
		select {
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump discards client messages; it returns when the client goes away.
func (c *conn) readPump() {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// handleWS forwards every render bus event to the client as JSON.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	c := newConn(ws)
	forward := func(ev render.Event) {
		msg, err := json.Marshal(ev)
		if err != nil {
			s.Log.Error().Err(err).Str("event", ev.Name).Msg("marshal render event")
			return
		}
		if c.enqueue(msg, ev.Name == render.EventProgress) {
			return
		}
		if ev.Name == render.EventProgress {
			s.Log.Debug().Str("event", ev.Name).Msg("dropped progress event for slow client")
			return
		}
		s.Log.Warn().Str("event", ev.Name).Str("remote", r.RemoteAddr).Msg("send queue full, closing connection")
	}
	unsubs := []func(){
		s.Bus.Subscribe(render.EventProgress, forward),
		s.Bus.Subscribe(render.EventComplete, forward),
		s.Bus.Subscribe(render.EventError, forward),
	}
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	hello, _ := json.Marshal(render.Event{Name: EventConnected})
	c.enqueue(hello, false)

	s.Log.Info().Str("remote", r.RemoteAddr).Msg("websocket client connected")
	go func() {
		c.readPump()
		close(c.done)
	}()
	c.writePump()
	s.Log.Info().Str("remote", r.RemoteAddr).Msg("websocket client disconnected")
}
