package notification

import (
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// countingConn trips the overlap counter whenever two writes run at the
// same time, which the websocket library does not allow.
type countingConn struct {
	active   int32
	overlaps int32
	writes   int32
}

func (c *countingConn) WriteMessage(_ int, _ []byte) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	atomic.AddInt32(&c.writes, 1)
	atomic.AddInt32(&c.active, -1)
	return nil
}

func TestPushSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &countingConn{}
	other := &countingConn{}
	hub.Register("u1", conn)
	hub.Register("u1", other)

	const pushes = 64
	var wg sync.WaitGroup
	for i := 0; i < pushes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push("u1", map[string]string{"title": "hello"})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&conn.overlaps); got != 0 {
		t.Errorf("concurrent writes on one connection: %d overlaps", got)
	}
	if got := atomic.LoadInt32(&conn.writes); got != pushes {
		t.Errorf("writes = %d, want %d", got, pushes)
	}
	if got := atomic.LoadInt32(&other.writes); got != pushes {
		t.Errorf("second tab writes = %d, want %d", got, pushes)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &countingConn{}
	hub.Register("u1", conn)
	hub.Unregister("u1", conn)

	hub.Push("u1", map[string]string{"title": "hello"})

	if got := atomic.LoadInt32(&conn.writes); got != 0 {
		t.Errorf("writes after unregister = %d, want 0", got)
	}
}
