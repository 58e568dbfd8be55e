package wssender

import (
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestLockIsStablePerConn(t *testing.T) {
	repo := NewRepo()
	a := &websocket.Conn{}
	b := &websocket.Conn{}

	lockA := repo.lockFor(a)
	assert.Same(t, lockA, repo.lockFor(a), "same conn must map to the same lock")
	assert.NotSame(t, lockA, repo.lockFor(b), "distinct conns must not share a lock")

	repo.Remove(a)
	assert.NotSame(t, lockA, repo.lockFor(a), "removed conn gets a fresh lock")
}

func TestConcurrentLockFor(t *testing.T) {
	repo := NewRepo()
	conn := &websocket.Conn{}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l := repo.lockFor(conn)
				l.Lock()
				l.Unlock()
			}
		}()
	}
	wg.Wait()
}
