package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dutychart/internal/api"
	"dutychart/internal/model"
)

type fakeConn struct {
	msgs   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan []byte, 8), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-c.msgs:
		return 1, m, nil
	case <-c.closed:
		return 0, nil, errors.New("connection closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type dialResult struct {
	conn Conn
	err  error
}

type fakeDialer struct {
	results chan dialResult
	dials   chan string
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{results: make(chan dialResult, 8), dials: make(chan string, 8)}
}

func (d *fakeDialer) DialContext(_ context.Context, url string) (Conn, error) {
	d.dials <- url
	r := <-d.results
	return r.conn, r.err
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	armed  chan *fakeTimer
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

func newFakeClock() *fakeClock {
	return &fakeClock{armed: make(chan *fakeTimer, 8)}
}

func (c *fakeClock) AfterFunc(_ time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	c.armed <- t
	return t
}

func waitDial(t *testing.T, d *fakeDialer) string {
	t.Helper()
	select {
	case url := <-d.dials:
		return url
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dial attempt")
		return ""
	}
}

func waitTimer(t *testing.T, c *fakeClock) *fakeTimer {
	t.Helper()
	select {
	case timer := <-c.armed:
		return timer
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reconnect timer")
		return nil
	}
}

func newTestListener(d *fakeDialer, c *fakeClock, onMsg func(model.Notification)) *Listener {
	return NewListener(ListenerConfig{
		BaseURL:        "ws://backend.test",
		Tokens:         api.StaticToken("tok"),
		OnNotification: onMsg,
		Dialer:         d,
		Clock:          c,
	})
}

func TestStartRequiresToken(t *testing.T) {
	l := NewListener(ListenerConfig{BaseURL: "ws://x", Tokens: api.StaticToken("")})
	assert.ErrorIs(t, l.Start(), ErrNoToken)
}

func TestListenerDialURLCarriesToken(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	url := waitDial(t, d)
	assert.Equal(t, "ws://backend.test/ws/notifications/?token=tok", url)

	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	assert.Eventually(t, func() bool { return l.State() == StateOpen }, time.Second, 5*time.Millisecond)

	l.Close()
}

func TestListenerDeliversMessagesInOrder(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()

	var mu sync.Mutex
	var got []int64
	l := newTestListener(d, c, func(n model.Notification) {
		mu.Lock()
		got = append(got, n.ID)
		mu.Unlock()
	})
	require.NoError(t, l.Start())
	waitDial(t, d)

	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	conn.msgs <- []byte(`{"id": 1, "title": "first"}`)
	conn.msgs <- []byte(`not json`)
	conn.msgs <- []byte(`{"id": 2, "title": "second"}`)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []int64{1, 2}, got, "arrival order, malformed frame skipped")
	mu.Unlock()

	l.Close()
}

func TestListenerReconnectsAfterDialFailure(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}

	timer := waitTimer(t, c)
	assert.Equal(t, StateReconnecting, l.State())

	// Firing the timer retries the dial.
	go timer.fn()
	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	assert.Eventually(t, func() bool { return l.State() == StateOpen }, time.Second, 5*time.Millisecond)

	l.Close()
}

func TestListenerReconnectsAfterConnectionDrop(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	assert.Eventually(t, func() bool { return l.State() == StateOpen }, time.Second, 5*time.Millisecond)

	conn.Close() // simulate server drop

	waitTimer(t, c)
	assert.Equal(t, StateReconnecting, l.State())

	l.Close()
}

func TestCloseDuringPendingReconnectPreventsFurtherDials(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
	timer := waitTimer(t, c)

	l.Close()
	assert.Equal(t, StateClosed, l.State())
	assert.True(t, timer.stopped, "pending reconnect timer cancelled")

	// Even if the timer had already fired (lost race), the closed flag wins
	// and no new connection is dialed.
	timer.fn()
	select {
	case <-d.dials:
		t.Fatal("dial attempted after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseWhileOpenDoesNotReconnect(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	assert.Eventually(t, func() bool { return l.State() == StateOpen }, time.Second, 5*time.Millisecond)

	l.Close()

	// The read loop sees the closed connection; no reconnect timer may appear.
	select {
	case <-c.armed:
		t.Fatal("reconnect scheduled after intentional close")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, StateClosed, l.State())
}

func TestCloseWhileDialingDiscardsConnection(t *testing.T) {
	d := newFakeDialer()
	c := newFakeClock()
	l := newTestListener(d, c, nil)
	require.NoError(t, l.Start())

	waitDial(t, d)
	l.Close()

	conn := newFakeConn()
	d.results <- dialResult{conn: conn}

	// The late-arriving connection must be closed, not adopted.
	select {
	case <-conn.closed:
	case <-time.After(time.Second):
		t.Fatal("stale connection left open after Close")
	}
	assert.Equal(t, StateClosed, l.State())
}
