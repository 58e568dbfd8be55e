// Package wssender serializes outbound writes per websocket connection.
// gorilla/websocket supports one concurrent writer; element connections
// receive directives from both their read goroutine and REST handlers,
// and host connections receive broadcasts from any element goroutine.
package wssender

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Repo struct {
	mu    sync.Mutex
	locks map[*websocket.Conn]*sync.Mutex
}

func NewRepo() *Repo {
	return &Repo{
		locks: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (r *Repo) lockFor(conn *websocket.Conn) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[conn]
	if !ok {
		l = &sync.Mutex{}
		r.locks[conn] = l
	}

	return l
}

// WriteJSON writes one message to the connection under its write lock.
func (r *Repo) WriteJSON(conn *websocket.Conn, v any) error {
	l := r.lockFor(conn)
	l.Lock()
	defer l.Unlock()

	return conn.WriteJSON(v)
}

// Remove drops the connection's write lock after the connection closed.
func (r *Repo) Remove(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, conn)
}
