package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dutychart/internal/api"
	"dutychart/internal/metrics"
	"dutychart/internal/model"
)

// State of the push channel.
type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// DefaultReconnectDelay matches the browser client's fixed 5 second backoff.
const DefaultReconnectDelay = 5 * time.Second

// ErrNoToken is returned by Start when no access token is available; the
// channel requires authentication.
var ErrNoToken = errors.New("no access token for notification channel")

// Conn is the subset of a websocket connection the listener needs.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens the push channel. Tests inject a fake; production uses
// GorillaDialer.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// GorillaDialer dials with the default gorilla/websocket dialer.
type GorillaDialer struct{}

func (GorillaDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// ListenerConfig wires a Listener.
type ListenerConfig struct {
	// BaseURL is the ws(s) backend root; the notifications path and token
	// query are appended.
	BaseURL string
	Tokens  api.TokenSource
	// OnNotification receives each inbound message in arrival order.
	OnNotification func(model.Notification)
	Dialer         Dialer        // defaults to GorillaDialer
	Clock          Clock         // defaults to SystemClock
	ReconnectDelay time.Duration // defaults to DefaultReconnectDelay
	Logger         *zerolog.Logger
}

// Listener maintains the push-notification channel, reconnecting after a
// fixed delay whenever the connection drops. Close is final: a closed
// listener never reconnects.
type Listener struct {
	url    string
	tokens api.TokenSource
	onMsg  func(model.Notification)
	dialer Dialer
	clock  Clock
	delay  time.Duration
	logger *zerolog.Logger

	mu     sync.Mutex
	state  State
	conn   Conn
	timer  Timer
	closed bool
}

// NewListener builds a stopped listener; call Start to connect.
func NewListener(cfg ListenerConfig) *Listener {
	l := &Listener{
		url:    cfg.BaseURL + "/ws/notifications/",
		tokens: cfg.Tokens,
		onMsg:  cfg.OnNotification,
		dialer: cfg.Dialer,
		clock:  cfg.Clock,
		delay:  cfg.ReconnectDelay,
		logger: cfg.Logger,
		state:  StateIdle,
	}
	if l.dialer == nil {
		l.dialer = GorillaDialer{}
	}
	if l.clock == nil {
		l.clock = SystemClock()
	}
	if l.delay <= 0 {
		l.delay = DefaultReconnectDelay
	}
	return l
}

// State returns the current channel state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start opens the channel. It returns immediately; dialing and reading happen
// on their own goroutine.
func (l *Listener) Start() error {
	token := l.tokens.AccessToken()
	if token == "" {
		return ErrNoToken
	}
	go l.connect()
	return nil
}

func (l *Listener) connect() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.state = StateConnecting
	l.mu.Unlock()

	url := l.url + "?token=" + l.tokens.AccessToken()
	conn, err := l.dialer.DialContext(context.Background(), url)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn().Err(err).Msg("notification channel dial failed")
		}
		l.scheduleReconnect()
		return
	}

	l.mu.Lock()
	if l.closed {
		// Closed while dialing; the intentional close wins.
		l.mu.Unlock()
		conn.Close()
		return
	}
	l.conn = conn
	l.state = StateOpen
	l.mu.Unlock()

	l.readLoop(conn)
}

func (l *Listener) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			l.scheduleReconnect()
			return
		}

		var n model.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			if l.logger != nil {
				l.logger.Warn().Err(err).Msg("discarding malformed notification")
			}
			continue
		}
		metrics.IncNotificationReceived()
		if l.onMsg != nil {
			l.onMsg(n)
		}
	}
}

// scheduleReconnect arms the reconnect timer unless the listener was closed
// intentionally.
func (l *Listener) scheduleReconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.state = StateReconnecting
	l.conn = nil
	metrics.IncPushReconnect()
	if l.logger != nil {
		l.logger.Info().Dur("delay", l.delay).Msg("notification channel lost, reconnecting")
	}
	l.timer = l.clock.AfterFunc(l.delay, l.connect)
}

// Close tears the channel down: the reconnect path is suppressed first, then
// any pending timer is cancelled and the socket closed. Safe to call more
// than once.
func (l *Listener) Close() {
	l.mu.Lock()
	l.closed = true
	l.state = StateClosed
	timer := l.timer
	conn := l.conn
	l.timer = nil
	l.conn = nil
	l.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if conn != nil {
		conn.Close()
	}
}
