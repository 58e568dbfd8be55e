package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vidstate/server/internal/repository/connection"
)

// repo tracks live websocket connections per player: at most one element
// connection, any number of host state subscribers.
type repo struct {
	mu           sync.RWMutex
	elementById  map[string]*websocket.Conn
	elementConns map[*websocket.Conn]string
	hostsById    map[string]map[*websocket.Conn]struct{}
	hostConns    map[*websocket.Conn]string
}

func NewRepo() *repo {
	return &repo{
		elementById:  make(map[string]*websocket.Conn),
		elementConns: make(map[*websocket.Conn]string),
		hostsById:    make(map[string]map[*websocket.Conn]struct{}),
		hostConns:    make(map[*websocket.Conn]string),
	}
}

func (r *repo) AddElement(conn *websocket.Conn, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.elementConns[conn] != "" || r.elementById[playerId] != nil {
		return connection.ErrAlreadyExists
	}

	r.elementById[playerId] = conn
	r.elementConns[conn] = playerId

	return nil
}

func (r *repo) RemoveElement(playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.elementById[playerId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.elementById, playerId)
	delete(r.elementConns, conn)

	return nil
}

func (r *repo) GetElementConn(playerId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.elementById[playerId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetElementPlayerId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playerId, ok := r.elementConns[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return playerId, nil
}

func (r *repo) AddHost(conn *websocket.Conn, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostConns[conn] != "" {
		return connection.ErrAlreadyExists
	}

	hosts, ok := r.hostsById[playerId]
	if !ok {
		hosts = make(map[*websocket.Conn]struct{})
		r.hostsById[playerId] = hosts
	}
	hosts[conn] = struct{}{}
	r.hostConns[conn] = playerId

	return nil
}

func (r *repo) RemoveHostByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerId, ok := r.hostConns[conn]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.hostConns, conn)
	if hosts, ok := r.hostsById[playerId]; ok {
		delete(hosts, conn)
		if len(hosts) == 0 {
			delete(r.hostsById, playerId)
		}
	}

	return nil
}

func (r *repo) GetHostConns(playerId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hosts := r.hostsById[playerId]
	conns := make([]*websocket.Conn, 0, len(hosts))
	for conn := range hosts {
		conns = append(conns, conn)
	}

	return conns
}
