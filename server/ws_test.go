package server

import (
	"fmt"
	"testing"
)

func fillQueue(t *testing.T, c *conn, droppable bool) {
	t.Helper()
	for i := 0; i < sendQueue; i++ {
		if !c.enqueue([]byte(fmt.Sprintf("progress %d", i)), droppable) {
			t.Fatalf("queue full after %d messages", i)
		}
	}
}

func TestEnqueueDropsOnlyProgress(t *testing.T) {
	c := &conn{send: make(chan outgoing, sendQueue), done: make(chan struct{})}
	aborted := false
	c.abort = func() { aborted = true }
	fillQueue(t, c, true)

	if c.enqueue([]byte("progress late"), true) {
		t.Fatalf("progress should be dropped on a full queue")
	}
	if !c.enqueue([]byte("complete"), false) {
		t.Fatalf("complete should evict queued progress")
	}
	if aborted {
		t.Fatalf("connection closed although room could be made")
	}
	if len(c.send) != sendQueue {
		t.Fatalf("queue length = %d, want %d", len(c.send), sendQueue)
	}

	var last outgoing
	first := <-c.send
	for len(c.send) > 0 {
		last = <-c.send
	}
	if string(first.data) != "progress 1" {
		t.Fatalf("oldest progress should be evicted, head = %q", first.data)
	}
	if string(last.data) != "complete" || last.droppable {
		t.Fatalf("tail = %+v, want the complete event", last)
	}
}

func TestEnqueueClosesWhenNoRoom(t *testing.T) {
	c := &conn{send: make(chan outgoing, sendQueue), done: make(chan struct{})}
	aborted := false
	c.abort = func() { aborted = true }
	fillQueue(t, c, false)

	if c.enqueue([]byte("error"), false) {
		t.Fatalf("terminal event cannot fit behind other terminal events")
	}
	if !aborted {
		t.Fatalf("connection should be closed when a terminal event cannot be queued")
	}
}

func TestEnqueueAfterDisconnect(t *testing.T) {
	c := &conn{send: make(chan outgoing, sendQueue), done: make(chan struct{})}
	c.abort = func() { t.Fatalf("abort on a closed connection") }
	close(c.done)
	if c.enqueue([]byte("complete"), false) {
		t.Fatalf("enqueue after disconnect should fail")
	}
}
