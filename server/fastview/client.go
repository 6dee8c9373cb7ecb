package fastview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// The rate at which ele-updates (board cells, weight bars) are pushed to
	// the client, so a burst of fuzz_one rounds doesn't flood the socket.
	pubResolution  = time.Millisecond * 100
	pingResolution = time.Millisecond * 200
	// Number of pings to tolerate losing before concluding the dashboard
	// client is gone.
	pongWait = pingResolution * 4
)

var upgrader = websocket.Upgrader{}

// client publishes one view-update stream to a single dashboard browser tab
// over a websocket. It only pushes EleUpdate batches today (board cells and
// scheduler weight bars); the type parameter exists so it isn't hard-coded
// to one view's payload shape.
type client[T any] struct {
	updates <-chan T
	ws      *websock
	rootCtx context.Context
}

// NewClient upgrades the request to a websocket and returns a publisher
// bound to updates. Values received on updates should be idempotent full
// snapshots (an EleUpdate batch), since intervening values are dropped when
// they arrive faster than pubResolution.
func NewClient[T any](
	updates <-chan T,
	w http.ResponseWriter,
	r *http.Request,
) (*client[T], error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, err
	}

	return &client[T]{
		updates: updates,
		ws:      NewWebSocket(ws),
		rootCtx: r.Context(),
	}, nil
}

// Sync runs the read pump, ping/pong liveness check, and publish loop
// concurrently until the client disconnects or one of them errors, at which
// point the others are cancelled via the shared errgroup context.
func (cli *client[T]) Sync() error {
	group, groupCtx := errgroup.WithContext(cli.rootCtx)

	group.Go(func() error {
		return cli.readMessages(groupCtx)
	})
	group.Go(func() error {
		return cli.pingPong(groupCtx)
	})
	group.Go(func() error {
		return cli.publish(groupCtx)
	})

	return group.Wait()
}

var ErrPongDeadlineExceeded error = errors.New("client disconnect, pong deadline exceeded")

// pingPong runs the liveness check for one client connection. It requires
// readMessages to be running concurrently, since the pong handler only
// fires from inside a blocking Read call.
func (cli *client[T]) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	cli.ws.Conn().SetPongHandler(func(_ string) error {
		pong <- struct{}{}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}

			if err := cli.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client[T]) ping(ctx context.Context) error {
	return cli.ws.Write(
		ctx,
		func(ws *websocket.Conn) (err error) {
			if err = ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					err = fmt.Errorf("ping failed: %T %v", err, err)
				}
			}
			return
		})
}

// readMessages drains the dashboard's websocket so control frames (pong,
// close) reach their handlers. The dashboard is publish-only: any data
// frame from the browser is discarded, not interpreted as a command.
func (cli *client[T]) readMessages(ctx context.Context) error {
	for {
		err := cli.ws.Read(
			ctx,
			func(ws *websocket.Conn) (readErr error) {
				_, _, readErr = ws.ReadMessage()
				return
			})
		if err != nil {
			return err
		}
	}
}

// publish forwards EleUpdate batches from cli.updates to the browser. A
// batch that arrives within pubResolution of the last one sent is dropped,
// not held back for later.
func (cli *client[T]) publish(ctx context.Context) error {
	lastSync := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case updates, ok := <-cli.updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				break
			}

			lastSync = time.Now()
			err := cli.ws.Write(
				ctx,
				func(ws *websocket.Conn) (writeErr error) {
					if writeErr = ws.SetWriteDeadline(time.Now().Add(writeWait)); writeErr != nil {
						writeErr = fmt.Errorf("failed to set deadline: %T %w", writeErr, writeErr)
						return
					}

					if writeErr = ws.WriteJSON(updates); writeErr != nil {
						if isError(writeErr) {
							writeErr = fmt.Errorf("publish failed: %T %v", writeErr, writeErr)
						}
					}
					return
				})
			if err != nil {
				return err
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// ErrSockCongestion indicates too many goroutines are waiting to read from
// or write to the websocket at once; Read/Write give up rather than queue
// indefinitely behind a slow or stalled peer.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

const (
	readDeadline     = time.Second
	writeDeadline    = time.Second
	closeGracePeriod = 10 * time.Second
)

// websock serializes reads and writes to one websocket.Conn, which permits
// at most one concurrent reader and one concurrent writer.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

// NewWebSocket wraps ws with the read/write serialization client needs.
func NewWebSocket(ws *websocket.Conn) *websock {
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

// Conn returns the underlying websocket. Only safe to use non-concurrently,
// e.g. for setup (handler registration) before Sync starts.
func (sock *websock) Conn() *websocket.Conn {
	return sock.ws
}

// Close tears the connection down. Must only be called once no Read/Write
// call is still in flight.
func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}

	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	sock.ws.Close()
}

// Read serializes read operations on the websocket.
func (sock *websock) Read(
	ctx context.Context,
	readFn func(*websocket.Conn) error,
) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

// Write serializes write operations on the websocket.
func (sock *websock) Write(
	ctx context.Context,
	writeFn func(*websocket.Conn) error,
) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}
